package repository

import (
	"context"

	"neighborhub/internal/domain/model"
)

// 住所(Address)を保存・取得する窓口
type AddressRepository interface {
	// 作成後はIDが埋まったaddressを返す
	Create(ctx context.Context, address model.Address) (model.Address, error)

	// ユーザーが持つ住所一覧を返す
	ListByUserID(ctx context.Context, userID int64) ([]model.Address, error)

	FindByID(ctx context.Context, addressID int64) (model.Address, error)

	// 複数IDをまとめて取得（注文一覧の住所表示用）
	FindByIDs(ctx context.Context, ids []int64) ([]model.Address, error)

	Update(ctx context.Context, address model.Address) error

	Delete(ctx context.Context, addressID int64) error
}
