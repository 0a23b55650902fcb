package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"neighborhub/internal/domain/model"
)

type CartItemRepository interface {
	// order_idがNULLの明細（＝カートの中身）。新しい順。
	ListActiveByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)

	// 注文確定前の行をロックして取得（Tx内で使う）
	LockActiveByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)

	// (user_id, product_id, order_id IS NULL) で一発upsert。同一商品は数量加算。
	UpsertActive(ctx context.Context, userID int64, productID int64, addQty int64, unitPrice decimal.Decimal) error

	// 数量と小計を更新（カート内の行のみ）
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error

	// カート内の行を削除
	DeleteActive(ctx context.Context, cartItemID int64) error

	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)

	// 指定した行にorder_idを付ける。付いた件数を返す。
	AttachToOrder(ctx context.Context, userID int64, cartItemIDs []int64, orderID int64) (int64, error)

	// 注文に含まれる明細
	ListByOrderID(ctx context.Context, orderID int64) ([]model.CartItem, error)
}
