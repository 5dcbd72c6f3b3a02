package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"kpslogistics/config"
	"kpslogistics/models"
	"kpslogistics/repository"
)

// AuditSink receives audit events from the billing services.
type AuditSink interface {
	Record(ctx context.Context, actor, action, detail string) error
}

// RepositoryAuditSink persists audit events through an AuditRepository.
type RepositoryAuditSink struct {
	Repo repository.AuditRepository
	Now  func() time.Time
}

func NewRepositoryAuditSink(repo repository.AuditRepository) *RepositoryAuditSink {
	return &RepositoryAuditSink{Repo: repo, Now: time.Now}
}

func (s *RepositoryAuditSink) Record(ctx context.Context, actor, action, detail string) error {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return s.Repo.RecordAudit(ctx, &models.AuditLog{
		Timestamp: now().UTC(),
		Username:  actor,
		Action:    action,
		Details:   detail,
	})
}

// LogAuditSink writes audit events to a logger only.
type LogAuditSink struct {
	Logger *logrus.Logger
}

func (s LogAuditSink) Record(_ context.Context, actor, action, detail string) error {
	logger := s.Logger
	if logger == nil {
		logger = config.GetLogger()
	}
	logger.WithFields(logrus.Fields{"actor": actor, "action": action}).Info(detail)
	return nil
}

// recordAudit never fails the caller: a sink error is logged and dropped.
func recordAudit(ctx context.Context, sink AuditSink, logger *logrus.Logger, actor, action, detail string) {
	if sink == nil {
		return
	}
	if actor == "" {
		actor = "system"
	}
	if err := sink.Record(ctx, actor, action, detail); err != nil {
		config.LogError(logger, "billing", "recordAudit", action, detail, err)
	}
}

const DefaultAuditRetentionDays = 7

// AuditService reads and prunes the audit trail.
type AuditService struct {
	Repo   repository.AuditRepository
	Audit  AuditSink
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewAuditService(repo repository.AuditRepository, audit AuditSink, logger *logrus.Logger) *AuditService {
	return &AuditService{Repo: repo, Audit: audit, Logger: logger, Now: time.Now}
}

// ListAudit returns the newest records first, capped at limit (default 100).
func (s *AuditService) ListAudit(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return s.Repo.ListAudit(ctx, limit)
}

// ClearAuditLogs deletes records older than days (default 7) and records the
// purge itself.
func (s *AuditService) ClearAuditLogs(ctx context.Context, actor string, days int) (int64, error) {
	if days <= 0 {
		days = DefaultAuditRetentionDays
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	cutoff := now().UTC().AddDate(0, 0, -days)
	n, err := s.Repo.DeleteAuditBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	recordAudit(ctx, s.Audit, s.Logger, actor, models.ActionSystem,
		fmt.Sprintf("cleared %d audit logs older than %d days", n, days))
	return n, nil
}
