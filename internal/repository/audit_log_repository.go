package repository

import (
	"context"

	"neighborhub/internal/domain/model"
)

// 1つの対象（在庫・注文）の変更履歴を引く条件
type AuditLogFilter struct {
	Action       model.AuditAction
	ResourceType model.AuditResourceType
	ResourceID   int64
	Limit        int
	Offset       int
}

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	// 新しい順。Limitが0なら全件。
	ListByResource(ctx context.Context, f AuditLogFilter) ([]model.AuditLog, error)
}
