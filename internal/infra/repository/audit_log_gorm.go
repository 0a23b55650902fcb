package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"neighborhub/internal/domain/model"
	infradb "neighborhub/internal/infra/db"
	repo "neighborhub/internal/repository"
)

type auditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &auditLogGormRepository{db: db}
}

func (r *auditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	return infradb.Translate(r.db.WithContext(ctx).Create(&log).Error)
}

func (r *auditLogGormRepository) ListByResource(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	q := r.db.WithContext(ctx).
		Where("resource_type = ? AND resource_id = ?", f.ResourceType, f.ResourceID)
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	logs := []model.AuditLog{}
	if err := q.Order("created_at DESC, id DESC").Find(&logs).Error; err != nil {
		return nil, infradb.Translate(err)
	}
	return logs, nil
}
