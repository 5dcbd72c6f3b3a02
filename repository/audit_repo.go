package repository

import (
	"context"
	"time"

	"kpslogistics/models"
)

type AuditRepository interface {
	RecordAudit(ctx context.Context, log *models.AuditLog) error
	ListAudit(ctx context.Context, limit int) ([]*models.AuditLog, error)
	DeleteAuditBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
