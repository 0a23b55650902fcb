package repository

import (
	"context"

	"gorm.io/gorm"

	"neighborhub/internal/domain/model"
	infradb "neighborhub/internal/infra/db"
	repo "neighborhub/internal/repository"
)

type inventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) repo.InventoryRepository {
	return &inventoryGormRepository{db: db}
}

func (r *inventoryGormRepository) Create(ctx context.Context, rec model.InventoryRecord) (model.InventoryRecord, error) {
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return model.InventoryRecord{}, infradb.Translate(err)
	}
	return rec, nil
}

func (r *inventoryGormRepository) FindByID(ctx context.Context, id int64) (model.InventoryRecord, error) {
	var rec model.InventoryRecord
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return model.InventoryRecord{}, infradb.Translate(err)
	}
	return rec, nil
}

func (r *inventoryGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.InventoryRecord, error) {
	if len(ids) == 0 {
		return []model.InventoryRecord{}, nil
	}
	var list []model.InventoryRecord
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, infradb.Translate(err)
	}
	return list, nil
}

func (r *inventoryGormRepository) ListByStoreID(ctx context.Context, storeID int64) ([]model.InventoryRecord, error) {
	var list []model.InventoryRecord
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, infradb.Translate(err)
	}
	return list, nil
}

// 在庫数と説明を更新
func (r *inventoryGormRepository) Update(ctx context.Context, rec model.InventoryRecord) error {
	res := r.db.WithContext(ctx).Model(&model.InventoryRecord{}).
		Where("id = ?", rec.ID).
		Updates(map[string]interface{}{
			"stock":               rec.Stock,
			"descripcion":         rec.Description,
			"fecha_actualizacion": rec.LastUpdated,
		})
	if res.Error != nil {
		return infradb.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *inventoryGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.InventoryRecord{}, id)
	if res.Error != nil {
		return infradb.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
