package db

import (
	"fmt"

	"gorm.io/gorm"

	"neighborhub/internal/domain/model"
)

// Migrate はテーブル作成と、AutoMigrateで表現できないindexを作る。
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Address{},
		&model.Store{},
		&model.Category{},
		&model.InventoryRecord{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	stmts := []string{
		// カートの中（order_id IS NULL）では同じ商品は1行だけ
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_cart_items_active_product
			ON cart_items (user_id, product_id) WHERE order_id IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_orders_user_idempotency
			ON orders (user_id, idempotency_key) WHERE idempotency_key IS NOT NULL`,
	}
	for _, s := range stmts {
		if err := gormDB.Exec(s).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	for _, fk := range foreignKeys {
		if err := gormDB.Exec(fk.sql()).Error; err != nil {
			return fmt.Errorf("add foreign key %s: %w", fk.name, err)
		}
	}
	return nil
}

type foreignKey struct {
	name   string
	table  string
	column string
	ref    string
}

// 参照先が消せない・存在しないidを書けないようにする。違反は23503で返る。
var foreignKeys = []foreignKey{
	{"fk_orders_user", "orders", "user_id", "users"},
	{"fk_orders_store", "orders", "store_id", "stores"},
	{"fk_orders_address", "orders", "address_id", "addresses"},
	{"fk_cart_items_user", "cart_items", "user_id", "users"},
	{"fk_cart_items_product", "cart_items", "product_id", "products"},
	{"fk_cart_items_order", "cart_items", "order_id", "orders"},
	{"fk_products_store", "products", "store_id", "stores"},
	{"fk_products_inventory", "products", "inventory_id", "inventory_records"},
	{"fk_products_category", "products", "category_id", "categories"},
	{"fk_categories_store", "categories", "store_id", "stores"},
	{"fk_inventory_records_store", "inventory_records", "store_id", "stores"},
	{"fk_addresses_user", "addresses", "user_id", "users"},
	{"fk_stores_owner", "stores", "owner_id", "users"},
}

// ADD CONSTRAINTにIF NOT EXISTSがないのでpg_constraintを見てから張る
func (fk foreignKey) sql() string {
	return fmt.Sprintf(`DO $$ BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
		ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(id);
	END IF;
END $$`, fk.name, fk.table, fk.name, fk.column, fk.ref)
}
