package model

import "time"

type Category struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id_categoria"`
	StoreID     int64     `gorm:"not null;index" json:"id_tienda"`
	Name        string    `gorm:"column:nombre;type:varchar(255);not null" json:"nombre"`
	Description *string   `gorm:"column:descripcion;type:text" json:"descripcion,omitempty"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
