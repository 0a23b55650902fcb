package repository

import (
	"context"
	"time"

	"neighborhub/internal/domain/model"
)

// 店側の注文一覧の条件
type StoreOrderFilter struct {
	StoreIDs []int64
	Statuses []model.OrderStatus // 空なら全部
	From     *time.Time          // fecha_pedido > From
	Limit    int                 // 0なら全件
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	// トランザクション内で行ロック（FOR UPDATE）して読む
	LockByID(ctx context.Context, orderID int64) (model.Order, error)

	// 作成日時の新しい順
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	ListByStores(ctx context.Context, f StoreOrderFilter) ([]model.Order, error)

	Create(ctx context.Context, order model.Order) (model.Order, error)

	// ステータスと日時をまとめて更新
	UpdateStatus(ctx context.Context, order model.Order) error

	// 同じキーなら同じ注文を返す
	FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error)
}
