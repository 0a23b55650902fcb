package repository

import (
	"context"

	"neighborhub/internal/domain/model"
)

type StoreRepository interface {
	Create(ctx context.Context, s model.Store) (model.Store, error)
	FindByID(ctx context.Context, id int64) (model.Store, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Store, error)
	// 店主の店舗（ID昇順）
	ListByOwnerID(ctx context.Context, ownerID int64) ([]model.Store, error)
	ListByStatus(ctx context.Context, status string) ([]model.Store, error)
	Update(ctx context.Context, s model.Store) error
	Delete(ctx context.Context, id int64) error
}

type CategoryRepository interface {
	Create(ctx context.Context, c model.Category) (model.Category, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)
	ListByStoreID(ctx context.Context, storeID int64) ([]model.Category, error)
	Update(ctx context.Context, c model.Category) error
	Delete(ctx context.Context, id int64) error
}
