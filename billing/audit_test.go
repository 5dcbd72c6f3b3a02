package billing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kpslogistics/models"
)

func TestRepositoryAuditSink(t *testing.T) {
	repo := &memAuditRepo{}
	sink := NewRepositoryAuditSink(repo)
	sink.Now = fixedNow(time.Date(2024, 4, 10, 8, 0, 0, 0, time.UTC))

	require.NoError(t, sink.Record(context.Background(), "clerk", models.ActionAddEntry, "detail"))
	require.Len(t, repo.logs, 1)
	assert.Equal(t, "clerk", repo.logs[0].Username)
	assert.Equal(t, models.ActionAddEntry, repo.logs[0].Action)
	assert.Equal(t, time.Date(2024, 4, 10, 8, 0, 0, 0, time.UTC), repo.logs[0].Timestamp)
}

func TestRecordAuditDefaultsActor(t *testing.T) {
	sink := &recordingSink{}
	recordAudit(context.Background(), sink, nil, "", models.ActionSystem, "boot")
	assert.Equal(t, auditEvent{"system", models.ActionSystem, "boot"}, sink.last())

	assert.NotPanics(t, func() {
		recordAudit(context.Background(), nil, nil, "x", models.ActionSystem, "ignored")
	})
}

func TestListAuditClampsLimit(t *testing.T) {
	repo := &memAuditRepo{}
	for i := 0; i < 150; i++ {
		require.NoError(t, repo.RecordAudit(context.Background(), &models.AuditLog{Action: models.ActionAddEntry}))
	}
	svc := NewAuditService(repo, nil, nil)

	logs, err := svc.ListAudit(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, logs, 100)
	assert.Equal(t, int64(150), logs[0].ID)

	logs, err = svc.ListAudit(context.Background(), 5000)
	require.NoError(t, err)
	assert.Len(t, logs, 100)

	logs, err = svc.ListAudit(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, logs, 7)
}

func TestClearAuditLogs(t *testing.T) {
	now := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)
	repo := &memAuditRepo{}
	for _, age := range []int{1, 6, 8, 30} {
		require.NoError(t, repo.RecordAudit(context.Background(), &models.AuditLog{
			Timestamp: now.AddDate(0, 0, -age),
			Action:    models.ActionAddEntry,
		}))
	}
	sink := &recordingSink{}
	svc := NewAuditService(repo, sink, nil)
	svc.Now = fixedNow(now)

	n, err := svc.ClearAuditLogs(context.Background(), "admin", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Len(t, repo.logs, 2)
	assert.Equal(t, auditEvent{"admin", models.ActionSystem, "cleared 2 audit logs older than 7 days"}, sink.last())

	n, err = svc.ClearAuditLogs(context.Background(), "admin", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
