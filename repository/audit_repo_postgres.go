package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kpslogistics/models"
)

type PostgresAuditRepo struct {
	DB *sql.DB
}

func NewPostgresAuditRepo(db *sql.DB) *PostgresAuditRepo {
	return &PostgresAuditRepo{DB: db}
}

func (r *PostgresAuditRepo) RecordAudit(ctx context.Context, log *models.AuditLog) error {
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO audit_log (timestamp, username, action, details)
		VALUES ($1,$2,$3,$4)
		RETURNING id
	`, log.Timestamp, log.Username, log.Action, log.Details).Scan(&log.ID)
	if err != nil {
		return fmt.Errorf("PostgresAuditRepo.RecordAudit: %w", err)
	}
	return nil
}

func (r *PostgresAuditRepo) ListAudit(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, timestamp, username, action, details
		FROM audit_log
		ORDER BY timestamp DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("PostgresAuditRepo.ListAudit: %w", err)
	}
	defer rows.Close()

	logs := []*models.AuditLog{}
	for rows.Next() {
		var l models.AuditLog
		if err := rows.Scan(&l.ID, &l.Timestamp, &l.Username, &l.Action, &l.Details); err != nil {
			return nil, fmt.Errorf("PostgresAuditRepo.ListAudit: %w", err)
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}

func (r *PostgresAuditRepo) DeleteAuditBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM audit_log WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("PostgresAuditRepo.DeleteAuditBefore: %w", err)
	}
	return res.RowsAffected()
}
