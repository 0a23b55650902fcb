package repository

import (
	"context"
	"errors"

	"neighborhub/internal/domain/model"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// アクティブかどうか・最後のログインなど
	Update(ctx context.Context, user *model.User) error
	// トークンのバージョンを＋１
	IncrementTokenVersion(ctx context.Context, userID int64) error
}
