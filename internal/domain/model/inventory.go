package model

import "time"

// 在庫がこの値未満なら「在庫少」
const LowStockThreshold = 10

// 店舗の在庫（inventario）。注文では減らさない、店主が直接編集する。
type InventoryRecord struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id_inventario"`
	StoreID     int64      `gorm:"not null;index" json:"id_tienda"`
	Stock       int64      `gorm:"not null;check:stock >= 0" json:"stock"`
	Description *string    `gorm:"column:descripcion;type:text" json:"descripcion,omitempty"`
	LastUpdated *time.Time `gorm:"column:fecha_actualizacion" json:"fecha_actualizacion,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (InventoryRecord) TableName() string { return "inventory_records" }

func (r InventoryRecord) IsLowStock() bool {
	return r.Stock < LowStockThreshold
}
