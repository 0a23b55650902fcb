package model

import "time"

// 配送先住所（direcciones_usuario）
type Address struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id_direccion"`
	UserID int64 `gorm:"not null;index" json:"id_usuario"`

	// 住所本文
	Text string `gorm:"column:direccion;type:varchar(255);not null" json:"direccion"`

	// 目印など
	Reference *string `gorm:"column:referencia;type:varchar(255)" json:"referencia,omitempty"`

	Latitude  *float64 `gorm:"column:latitud" json:"latitud,omitempty"`
	Longitude *float64 `gorm:"column:longitud" json:"longitud,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
