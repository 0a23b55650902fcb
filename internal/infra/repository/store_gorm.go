package repository

import (
	"context"

	"gorm.io/gorm"

	"neighborhub/internal/domain/model"
	infradb "neighborhub/internal/infra/db"
	repo "neighborhub/internal/repository"
)

type storeGormRepository struct {
	db *gorm.DB
}

func NewStoreGormRepository(db *gorm.DB) repo.StoreRepository {
	return &storeGormRepository{db: db}
}

func (r *storeGormRepository) Create(ctx context.Context, s model.Store) (model.Store, error) {
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return model.Store{}, infradb.Translate(err)
	}
	return s, nil
}

func (r *storeGormRepository) FindByID(ctx context.Context, id int64) (model.Store, error) {
	var s model.Store
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return model.Store{}, infradb.Translate(err)
	}
	return s, nil
}

func (r *storeGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Store, error) {
	if len(ids) == 0 {
		return []model.Store{}, nil
	}
	var list []model.Store
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, infradb.Translate(err)
	}
	return list, nil
}

// ダッシュボードは先頭の店舗を既定にするのでID昇順
func (r *storeGormRepository) ListByOwnerID(ctx context.Context, ownerID int64) ([]model.Store, error) {
	var list []model.Store
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, infradb.Translate(err)
	}
	return list, nil
}

func (r *storeGormRepository) ListByStatus(ctx context.Context, status string) ([]model.Store, error) {
	var list []model.Store
	if err := r.db.WithContext(ctx).
		Where("estado = ?", status).
		Order("nombre_tienda ASC, id ASC").
		Find(&list).Error; err != nil {
		return nil, infradb.Translate(err)
	}
	return list, nil
}

func (r *storeGormRepository) Update(ctx context.Context, s model.Store) error {
	res := r.db.WithContext(ctx).Model(&model.Store{}).
		Where("id = ?", s.ID).
		Updates(map[string]interface{}{
			"nombre_tienda": s.Name,
			"descripcion":   s.Description,
			"telefono":      s.Phone,
			"direccion":     s.Address,
			"estado":        s.Status,
			"imagen_url":    s.ImageURL,
		})
	if res.Error != nil {
		return infradb.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *storeGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Store{}, id)
	if res.Error != nil {
		return infradb.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
