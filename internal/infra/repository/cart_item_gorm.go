package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"neighborhub/internal/domain/model"
	infradb "neighborhub/internal/infra/db"
	repo "neighborhub/internal/repository"
)

type cartItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartItemGormRepository(db *gorm.DB) repo.CartItemRepository {
	return &cartItemGormRepository{db: db}
}

// order_idがNULLの行だけ（新しい順）
func (r *cartItemGormRepository) ListActiveByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	var items []model.CartItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND order_id IS NULL", userID).
		Order("created_at DESC, id DESC").
		Find(&items).Error; err != nil {
		return nil, infradb.Translate(err)
	}
	return items, nil
}

// 注文確定のTx内で使う。確定までの間に他のリクエストが行を動かせないようにする。
func (r *cartItemGormRepository) LockActiveByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	var items []model.CartItem
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND order_id IS NULL", userID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, infradb.Translate(err)
	}
	return items, nil
}

// 同一商品は数量加算。
// ux_cart_items_active_product（部分ユニークindex）を衝突先にした1文のupsertなので、
// 同時に追加しても行が2つにならない。
func (r *cartItemGormRepository) UpsertActive(ctx context.Context, userID int64, productID int64, addQty int64, unitPrice decimal.Decimal) error {
	if addQty <= 0 {
		return errors.New("invalid quantity")
	}

	item := model.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  addQty,
		UnitPrice: unitPrice,
	}
	item.Recompute()

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:     []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "order_id IS NULL"}}},
			DoUpdates: clause.Set{
				{Column: clause.Column{Name: "cantidad"}, Value: gorm.Expr("cart_items.cantidad + EXCLUDED.cantidad")},
				{Column: clause.Column{Name: "precio_unitario"}, Value: gorm.Expr("EXCLUDED.precio_unitario")},
				{Column: clause.Column{Name: "subtotal"}, Value: gorm.Expr("(cart_items.cantidad + EXCLUDED.cantidad) * EXCLUDED.precio_unitario")},
				{Column: clause.Column{Name: "updated_at"}, Value: gorm.Expr("EXCLUDED.updated_at")},
			},
		}).
		Create(&item).Error
	return infradb.Translate(err)
}

// 数量を変えたら小計も一緒に更新
func (r *cartItemGormRepository) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ? AND order_id IS NULL", cartItemID).
		Updates(map[string]interface{}{
			"cantidad": qty,
			"subtotal": gorm.Expr("precio_unitario * ?", qty),
		})

	if res.Error != nil {
		return infradb.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 注文済みの行は消さない
func (r *cartItemGormRepository) DeleteActive(ctx context.Context, cartItemID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND order_id IS NULL", cartItemID).
		Delete(&model.CartItem{})

	if res.Error != nil {
		return infradb.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *cartItemGormRepository) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	var item model.CartItem
	if err := r.db.WithContext(ctx).Where("id = ?", cartItemID).First(&item).Error; err != nil {
		return model.CartItem{}, infradb.Translate(err)
	}
	return item, nil
}

// まだカートにある行だけにorder_idを付ける。件数で取りこぼしを検知する。
func (r *cartItemGormRepository) AttachToOrder(ctx context.Context, userID int64, cartItemIDs []int64, orderID int64) (int64, error) {
	if len(cartItemIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("user_id = ? AND id IN ? AND order_id IS NULL", userID, cartItemIDs).
		Update("order_id", orderID)

	if res.Error != nil {
		return 0, infradb.Translate(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *cartItemGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.CartItem, error) {
	var items []model.CartItem
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, infradb.Translate(err)
	}
	return items, nil
}
