package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pendiente"
	OrderStatusConfirmed OrderStatus = "confirmado"
	OrderStatusDelivered OrderStatus = "entregado"
	OrderStatusCanceled  OrderStatus = "cancelado"
)

// 英語名も受け付ける
var orderStatusAliases = map[string]OrderStatus{
	"pendiente":  OrderStatusPending,
	"pending":    OrderStatusPending,
	"confirmado": OrderStatusConfirmed,
	"confirmed":  OrderStatusConfirmed,
	"entregado":  OrderStatusDelivered,
	"delivered":  OrderStatusDelivered,
	"cancelado":  OrderStatusCanceled,
	"cancelled":  OrderStatusCanceled,
	"canceled":   OrderStatusCanceled,
}

// 許可する遷移。entregado / cancelado は終端。
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCanceled},
	OrderStatusConfirmed: {OrderStatusDelivered, OrderStatusCanceled},
	OrderStatusDelivered: nil,
	OrderStatusCanceled:  nil,
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseOrderStatusは大文字小文字を無視して変換する。
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st, ok := orderStatusAliases[normalize(s)]
	return st, ok
}

// DBに古い表記が残っていても比較できるようにする
func (s OrderStatus) Is(other OrderStatus) bool {
	parsed, ok := ParseOrderStatus(string(s))
	if !ok {
		return false
	}
	return parsed == other
}

func (s OrderStatus) IsTerminal() bool {
	st, ok := ParseOrderStatus(string(s))
	if !ok {
		return false
	}
	return len(orderTransitions[st]) == 0
}

// CanTransitionは from -> to が許可されているかを返す。同じ値への更新は許可。
func CanTransition(from, to OrderStatus) bool {
	f, ok := ParseOrderStatus(string(from))
	if !ok {
		return false
	}
	t, ok := ParseOrderStatus(string(to))
	if !ok {
		return false
	}
	if f == t {
		return true
	}
	for _, next := range orderTransitions[f] {
		if next == t {
			return true
		}
	}
	return false
}

// 売上に数える状態
func (s OrderStatus) CountsAsRevenue() bool {
	return s.Is(OrderStatusConfirmed) || s.Is(OrderStatusDelivered)
}

// 店側で対応待ちの状態
func (s OrderStatus) IsOpen() bool {
	return s.Is(OrderStatusPending) || s.Is(OrderStatusConfirmed)
}

// 注文（pedido）。totalは作成時に一度だけ計算する。
type Order struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id_pedido"`
	UserID         int64           `gorm:"not null;index" json:"id_usuario"`
	StoreID        int64           `gorm:"not null;index" json:"id_tienda"`
	AddressID      int64           `gorm:"not null" json:"id_direccion"`
	Status         OrderStatus     `gorm:"column:estado;type:varchar(20);not null;index" json:"estado"`
	Total          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Notes          *string         `gorm:"column:observaciones;type:text" json:"observaciones,omitempty"`
	PlacedAt       time.Time       `gorm:"column:fecha_pedido;not null;index" json:"fecha_pedido"`
	ConfirmedAt    *time.Time      `gorm:"column:fecha_confirmacion" json:"fecha_confirmacion,omitempty"`
	DeliveredAt    *time.Time      `gorm:"column:fecha_entrega" json:"fecha_entrega,omitempty"`
	IdempotencyKey *string         `gorm:"type:varchar(255)" json:"-"`
	CreatedAt      time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// ステータス更新に合わせて日時を入れる
func (o *Order) ApplyStatus(st OrderStatus, now time.Time) {
	o.Status = st
	switch st {
	case OrderStatusConfirmed:
		if o.ConfirmedAt == nil {
			o.ConfirmedAt = &now
		}
	case OrderStatusDelivered:
		if o.DeliveredAt == nil {
			o.DeliveredAt = &now
		}
	}
}
