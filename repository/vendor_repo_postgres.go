package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"kpslogistics/models"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

type PostgresVendorRepo struct {
	DB *sql.DB
}

func NewPostgresVendorRepo(db *sql.DB) *PostgresVendorRepo {
	return &PostgresVendorRepo{DB: db}
}

const vendorColumns = `id, name, billing_name, billing_address, rate_per_parcel, transport_rate,
	pricing_mode, show_rr, show_handling, show_railway, show_transport,
	is_default, pending_balance, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVendor(row rowScanner) (*models.Vendor, error) {
	var v models.Vendor
	var mode string
	err := row.Scan(
		&v.ID, &v.Name, &v.BillingName, &v.BillingAddress, &v.RatePerParcel, &v.TransportRate,
		&mode, &v.ShowRR, &v.ShowHandling, &v.ShowRailway, &v.ShowTransport,
		&v.IsDefault, &v.PendingBalance, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.PricingMode = models.PricingMode(mode)
	return &v, nil
}

func (r *PostgresVendorRepo) CreateVendor(ctx context.Context, v *models.Vendor) error {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO vendor (
			name, billing_name, billing_address, rate_per_parcel, transport_rate,
			pricing_mode, show_rr, show_handling, show_railway, show_transport,
			is_default, pending_balance, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING id
	`,
		v.Name, v.BillingName, v.BillingAddress, v.RatePerParcel, v.TransportRate,
		string(v.Mode()), v.ShowRR, v.ShowHandling, v.ShowRailway, v.ShowTransport,
		v.IsDefault, v.PendingBalance, v.CreatedAt,
	).Scan(&v.ID)
	if isPQCode(err, pqUniqueViolation) {
		return fmt.Errorf("%w: %s", models.ErrDuplicateVendor, v.Name)
	}
	if err != nil {
		return fmt.Errorf("PostgresVendorRepo.CreateVendor: %w", err)
	}
	return nil
}

// UpdateVendor writes the profile fields. Default flag and pending balance
// have their own atomic writers and are left untouched here.
func (r *PostgresVendorRepo) UpdateVendor(ctx context.Context, v *models.Vendor) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE vendor
		SET name=$1, billing_name=$2, billing_address=$3, rate_per_parcel=$4, transport_rate=$5,
			pricing_mode=$6, show_rr=$7, show_handling=$8, show_railway=$9, show_transport=$10,
			updated_at=$11
		WHERE id=$12
	`,
		v.Name, v.BillingName, v.BillingAddress, v.RatePerParcel, v.TransportRate,
		string(v.Mode()), v.ShowRR, v.ShowHandling, v.ShowRailway, v.ShowTransport,
		v.UpdatedAt, v.ID,
	)
	if isPQCode(err, pqUniqueViolation) {
		return fmt.Errorf("%w: %s", models.ErrDuplicateVendor, v.Name)
	}
	if err != nil {
		return fmt.Errorf("PostgresVendorRepo.UpdateVendor: %w", err)
	}
	return requireAffected(res, "PostgresVendorRepo.UpdateVendor")
}

func (r *PostgresVendorRepo) GetVendor(ctx context.Context, id int64) (*models.Vendor, error) {
	v, err := scanVendor(r.DB.QueryRowContext(ctx, `SELECT `+vendorColumns+` FROM vendor WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("PostgresVendorRepo.GetVendor: %w", err)
	}
	return v, nil
}

func (r *PostgresVendorRepo) GetVendorByName(ctx context.Context, name string) (*models.Vendor, error) {
	v, err := scanVendor(r.DB.QueryRowContext(ctx, `SELECT `+vendorColumns+` FROM vendor WHERE name=$1`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("PostgresVendorRepo.GetVendorByName: %w", err)
	}
	return v, nil
}

func (r *PostgresVendorRepo) ListVendors(ctx context.Context) ([]*models.Vendor, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+vendorColumns+` FROM vendor ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("PostgresVendorRepo.ListVendors: %w", err)
	}
	defer rows.Close()

	vendors := []*models.Vendor{}
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("PostgresVendorRepo.ListVendors: %w", err)
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

// DeleteVendor relies on the entry foreign key to refuse vendors in use.
func (r *PostgresVendorRepo) DeleteVendor(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM vendor WHERE id=$1`, id)
	if isPQCode(err, pqForeignKeyViolation) {
		return fmt.Errorf("%w: vendor %d", models.ErrVendorInUse, id)
	}
	if err != nil {
		return fmt.Errorf("PostgresVendorRepo.DeleteVendor: %w", err)
	}
	return requireAffected(res, "PostgresVendorRepo.DeleteVendor")
}

// SetDefaultVendor swaps the default inside one transaction. The partial
// unique index on is_default forbids two defaults, so the old one is cleared
// first; readers see either the old or the new default, never none.
func (r *PostgresVendorRepo) SetDefaultVendor(ctx context.Context, id int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("PostgresVendorRepo.SetDefaultVendor: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, `SELECT TRUE FROM vendor WHERE id=$1 FOR UPDATE`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("vendor %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("PostgresVendorRepo.SetDefaultVendor: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE vendor SET is_default=FALSE WHERE is_default AND id<>$1`, id); err != nil {
		return setDefaultError("clear", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE vendor SET is_default=TRUE WHERE id=$1`, id); err != nil {
		return setDefaultError("set", err)
	}
	return tx.Commit()
}

// setDefaultError reports a concurrent swap that won the single-default
// index as a conflict the caller can retry.
func setDefaultError(step string, err error) error {
	if isPQCode(err, pqUniqueViolation) {
		return fmt.Errorf("PostgresVendorRepo.SetDefaultVendor: %w", models.ErrDefaultVendorConflict)
	}
	return fmt.Errorf("PostgresVendorRepo.SetDefaultVendor: %s: %w", step, err)
}

func (r *PostgresVendorRepo) AdjustPendingBalance(ctx context.Context, id int64, delta float64) (float64, float64, error) {
	var after float64
	err := r.DB.QueryRowContext(ctx, `
		UPDATE vendor
		SET pending_balance = pending_balance + $1, updated_at = NOW()
		WHERE id=$2
		RETURNING pending_balance
	`, delta, id).Scan(&after)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, fmt.Errorf("vendor %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("PostgresVendorRepo.AdjustPendingBalance: %w", err)
	}
	return after - delta, after, nil
}

func isPQCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
