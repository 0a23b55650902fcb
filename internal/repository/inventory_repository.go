package repository

import (
	"context"

	"neighborhub/internal/domain/model"
)

type InventoryRepository interface {
	Create(ctx context.Context, rec model.InventoryRecord) (model.InventoryRecord, error)
	FindByID(ctx context.Context, id int64) (model.InventoryRecord, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.InventoryRecord, error)
	ListByStoreID(ctx context.Context, storeID int64) ([]model.InventoryRecord, error)
	Update(ctx context.Context, rec model.InventoryRecord) error
	Delete(ctx context.Context, id int64) error
}
