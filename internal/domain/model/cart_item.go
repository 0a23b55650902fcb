package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カートの明細（carrito）
// OrderIDがnilの間はカートの中、注文確定でOrderIDが入る（行は消さない）。
type CartItem struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id_carrito"`
	OrderID      *int64          `gorm:"index" json:"id_pedido"`
	UserID       int64           `gorm:"not null;index" json:"id_usuario"`
	ProductID    int64           `gorm:"not null;index" json:"id_producto"`
	Quantity     int64           `gorm:"column:cantidad;not null;check:cantidad >= 1" json:"cantidad"`
	UnitPrice    decimal.Decimal `gorm:"column:precio_unitario;type:numeric(12,2);not null" json:"precio_unitario"`
	LineSubtotal decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null" json:"subtotal"`
	CreatedAt    time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 小計は必ず 数量×単価 で作り直す
func (c *CartItem) Recompute() {
	c.LineSubtotal = c.UnitPrice.Mul(decimal.NewFromInt(c.Quantity))
}

// 注文確定前か
func (c CartItem) InCart() bool {
	return c.OrderID == nil
}

// カート合計
func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineSubtotal)
	}
	return total
}

// カート内の点数
func CartItemCount(items []CartItem) int64 {
	var n int64
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
