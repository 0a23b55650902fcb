package repository

import (
	"context"

	"neighborhub/internal/domain/model"
)

type ProductListQuery struct {
	StoreID    int64
	CategoryID *int64
	ActiveOnly bool
}

// 商品の永続化（保存・取得）だけを約束
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error)
	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id int64) error
}
