package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id_producto"`
	StoreID     int64           `gorm:"not null;index" json:"id_tienda"`
	InventoryID int64           `gorm:"not null;index" json:"id_inventario"`
	CategoryID  int64           `gorm:"not null;index" json:"id_categoria"`
	Name        string          `gorm:"column:nombre;type:varchar(255);not null" json:"nombre"`
	Description *string         `gorm:"column:descripcion;type:text" json:"descripcion,omitempty"`
	Price       decimal.Decimal `gorm:"column:precio;type:numeric(12,2);not null" json:"precio"`
	ImageURL    *string         `gorm:"column:imagen_url;type:text" json:"imagen_url,omitempty"`
	Active      bool            `gorm:"column:activo;not null;default:true" json:"activo"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
