package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"neighborhub/internal/domain/model"
	infradb "neighborhub/internal/infra/db"
	repo "neighborhub/internal/repository"
)

// ログインセッション（refresh token）のGORM実装
type sessionTokenGormRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) repo.RefreshTokenRepository {
	return &sessionTokenGormRepository{db: db}
}

func (r *sessionTokenGormRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	return infradb.Translate(r.db.WithContext(ctx).Create(token).Error)
}

// hashで検索。平文はDBに置かない。
func (r *sessionTokenGormRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	var token model.RefreshToken
	err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrRefreshTokenNotFound
	}
	if err != nil {
		return nil, infradb.Translate(err)
	}
	return &token, nil
}

// stampは未設定の行だけ更新する。0件ならErrRefreshTokenNotFound。
func (r *sessionTokenGormRepository) stamp(ctx context.Context, tokenID, column string, at time.Time, cond string) error {
	res := r.db.WithContext(ctx).
		Model(&model.RefreshToken{}).
		Where("id = ?", tokenID).
		Where(cond).
		Update(column, at)
	if res.Error != nil {
		return infradb.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrRefreshTokenNotFound
	}
	return nil
}

func (r *sessionTokenGormRepository) MarkUsed(ctx context.Context, tokenID string, usedAt time.Time) error {
	return r.stamp(ctx, tokenID, "used_at", usedAt, "used_at IS NULL AND revoked_at IS NULL")
}

func (r *sessionTokenGormRepository) Revoke(ctx context.Context, tokenID string, revokedAt time.Time) error {
	return r.stamp(ctx, tokenID, "revoked_at", revokedAt, "revoked_at IS NULL")
}

func (r *sessionTokenGormRepository) DeleteAllByUserID(ctx context.Context, userID int64) error {
	return infradb.Translate(r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.RefreshToken{}).Error)
}

func (r *sessionTokenGormRepository) DeleteByID(ctx context.Context, tokenID string) error {
	res := r.db.WithContext(ctx).Where("id = ?", tokenID).Delete(&model.RefreshToken{})
	if res.Error != nil {
		return infradb.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrRefreshTokenNotFound
	}
	return nil
}
