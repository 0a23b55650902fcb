package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"neighborhub/internal/domain/model"
	infradb "neighborhub/internal/infra/db"
	repo "neighborhub/internal/repository"
)

// 一覧の並び順。同じ時刻でも毎回同じ順になるようにidで揃える。
const orderListOrder = "fecha_pedido DESC, id DESC"

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	if err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error; err != nil {
		return model.Order{}, infradb.Translate(err)
	}
	return o, nil
}

// 同じ注文のステータス変更は先にロックした方が終わるまで待つ
func (r *OrderGormRepository) LockByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", orderID).
		First(&o).Error; err != nil {
		return model.Order{}, infradb.Translate(err)
	}
	return o, nil
}

func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	var items []model.Order
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(orderListOrder).
		Find(&items).Error; err != nil {
		return nil, infradb.Translate(err)
	}
	return items, nil
}

func (r *OrderGormRepository) ListByStores(ctx context.Context, f repo.StoreOrderFilter) ([]model.Order, error) {
	if len(f.StoreIDs) == 0 {
		return []model.Order{}, nil
	}

	q := r.db.WithContext(ctx).Model(&model.Order{}).Where("store_id IN ?", f.StoreIDs)

	//status 絞り込み
	if len(f.Statuses) > 0 {
		q = q.Where("estado IN ?", f.Statuses)
	}
	//期間絞り込み
	if f.From != nil {
		q = q.Where("fecha_pedido > ?", *f.From)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var items []model.Order
	if err := q.Order(orderListOrder).Find(&items).Error; err != nil {
		return nil, infradb.Translate(err)
	}
	return items, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (model.Order, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return model.Order{}, infradb.Translate(err)
	}
	return order, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, order model.Order) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"estado":             order.Status,
			"fecha_confirmacion": order.ConfirmedAt,
			"fecha_entrega":      order.DeliveredAt,
		})

	if res.Error != nil {
		return infradb.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&o).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, false, nil
	}
	if err != nil {
		return model.Order{}, false, infradb.Translate(err)
	}
	return o, true, nil
}
