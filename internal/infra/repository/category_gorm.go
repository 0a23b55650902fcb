package repository

import (
	"context"

	"gorm.io/gorm"

	"neighborhub/internal/domain/model"
	infradb "neighborhub/internal/infra/db"
	repo "neighborhub/internal/repository"
)

type categoryGormRepository struct {
	db *gorm.DB
}

func NewCategoryGormRepository(db *gorm.DB) repo.CategoryRepository {
	return &categoryGormRepository{db: db}
}

func (r *categoryGormRepository) Create(ctx context.Context, c model.Category) (model.Category, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Category{}, infradb.Translate(err)
	}
	return c, nil
}

func (r *categoryGormRepository) FindByID(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return model.Category{}, infradb.Translate(err)
	}
	return c, nil
}

func (r *categoryGormRepository) ListByStoreID(ctx context.Context, storeID int64) ([]model.Category, error) {
	var list []model.Category
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("nombre ASC, id ASC").
		Find(&list).Error; err != nil {
		return nil, infradb.Translate(err)
	}
	return list, nil
}

func (r *categoryGormRepository) Update(ctx context.Context, c model.Category) error {
	res := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"nombre":      c.Name,
			"descripcion": c.Description,
		})
	if res.Error != nil {
		return infradb.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *categoryGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Category{}, id)
	if res.Error != nil {
		return infradb.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
