package model

import "time"

const (
	StoreStatusActive   = "activa"
	StoreStatusInactive = "inactiva"
)

// 店舗（tienda）。ownerはtiendero。
type Store struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id_tienda"`
	OwnerID     int64     `gorm:"not null;index" json:"id_propietario"`
	Name        string    `gorm:"column:nombre_tienda;type:varchar(255);not null" json:"nombre_tienda"`
	Description *string   `gorm:"column:descripcion;type:text" json:"descripcion,omitempty"`
	Phone       *string   `gorm:"column:telefono;type:varchar(30)" json:"telefono,omitempty"`
	Address     *string   `gorm:"column:direccion;type:varchar(255)" json:"direccion,omitempty"`
	Status      string    `gorm:"column:estado;type:varchar(20);not null;default:'activa'" json:"estado"`
	ImageURL    *string   `gorm:"column:imagen_url;type:text" json:"imagen_url,omitempty"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
