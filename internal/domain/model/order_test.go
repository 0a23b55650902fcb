package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus_CaseInsensitiveAndAliases(t *testing.T) {
	cases := map[string]OrderStatus{
		"pendiente":   OrderStatusPending,
		"  PENDIENTE": OrderStatusPending,
		"Confirmed":   OrderStatusConfirmed,
		"entregado":   OrderStatusDelivered,
		"CANCELLED":   OrderStatusCanceled,
		"canceled":    OrderStatusCanceled,
	}
	for in, want := range cases {
		got, ok := ParseOrderStatus(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseOrderStatus("enviado")
	assert.False(t, ok)
}

func TestCanTransition_Table(t *testing.T) {
	allowed := [][2]OrderStatus{
		{OrderStatusPending, OrderStatusConfirmed},
		{OrderStatusPending, OrderStatusCanceled},
		{OrderStatusConfirmed, OrderStatusDelivered},
		{OrderStatusConfirmed, OrderStatusCanceled},
		{OrderStatusPending, OrderStatusPending},
		{"PENDIENTE", OrderStatusConfirmed},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc[0], tc[1]), "%s -> %s", tc[0], tc[1])
	}

	denied := [][2]OrderStatus{
		{OrderStatusPending, OrderStatusDelivered},
		{OrderStatusDelivered, OrderStatusPending},
		{OrderStatusDelivered, OrderStatusCanceled},
		{OrderStatusCanceled, OrderStatusConfirmed},
		{OrderStatusConfirmed, OrderStatusPending},
		{"desconocido", OrderStatusConfirmed},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc[0], tc[1]), "%s -> %s", tc[0], tc[1])
	}
}

func TestOrderStatus_Groups(t *testing.T) {
	assert.True(t, OrderStatus("Pendiente").IsOpen())
	assert.True(t, OrderStatus("confirmado").IsOpen())
	assert.False(t, OrderStatusDelivered.IsOpen())

	assert.True(t, OrderStatus("ENTREGADO").CountsAsRevenue())
	assert.True(t, OrderStatusConfirmed.CountsAsRevenue())
	assert.False(t, OrderStatusPending.CountsAsRevenue())
	assert.False(t, OrderStatusCanceled.CountsAsRevenue())

	assert.True(t, OrderStatusCanceled.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
}

func TestOrder_ApplyStatus_StampsOnce(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	o := Order{Status: OrderStatusPending}
	o.ApplyStatus(OrderStatusConfirmed, t1)
	o.ApplyStatus(OrderStatusConfirmed, t2)
	assert.Equal(t, t1, *o.ConfirmedAt)
	assert.Nil(t, o.DeliveredAt)

	o.ApplyStatus(OrderStatusDelivered, t2)
	assert.Equal(t, t2, *o.DeliveredAt)
	assert.Equal(t, OrderStatusDelivered, o.Status)
}

func TestCartItem_RecomputeAndReductions(t *testing.T) {
	items := []CartItem{
		{Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
		{Quantity: 3, UnitPrice: decimal.RequireFromString("0.35")},
	}
	for i := range items {
		items[i].Recompute()
		assert.True(t, items[i].LineSubtotal.Equal(items[i].UnitPrice.Mul(decimal.NewFromInt(items[i].Quantity))))
	}

	assert.Equal(t, "26.05", CartTotal(items).StringFixed(2))
	assert.Equal(t, int64(6), CartItemCount(items))
	assert.True(t, CartTotal(nil).IsZero())
}

func TestInventoryRecord_LowStockBoundary(t *testing.T) {
	assert.True(t, InventoryRecord{Stock: 9}.IsLowStock())
	assert.False(t, InventoryRecord{Stock: 10}.IsLowStock())
	assert.True(t, InventoryRecord{Stock: 0}.IsLowStock())
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("Tiendero")
	assert.True(t, ok)
	assert.Equal(t, RoleMerchant, r)

	_, ok = ParseRole("admin")
	assert.False(t, ok)
}
