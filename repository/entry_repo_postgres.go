package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"kpslogistics/models"
)

type PostgresEntryRepo struct {
	DB *sql.DB
}

func NewPostgresEntryRepo(db *sql.DB) *PostgresEntryRepo {
	return &PostgresEntryRepo{DB: db}
}

const entryColumns = `id, date, vendor_id, rr_no, invoice_ref, lr_no, ship_from, ship_to, parcels, mode,
	handling, railway, transport,
	box_rate, transport_rate, total_freight, transport_charges, hamali, statutory, cr, demurrage,
	grand_total, created_by, created_at, updated_at`

// chargeColumns flattens either charge variant into the table's columns.
// Railway is shared by both variants.
type chargeColumns struct {
	handling, railway, transport                     float64
	boxRate, transportRate, freight, transportCharge float64
	hamali, statutory, cr, demurrage                 float64
}

func columnsFor(e *models.Entry) chargeColumns {
	var c chargeColumns
	switch {
	case e.Rated != nil:
		c.boxRate = e.Rated.BoxRate
		c.transportRate = e.Rated.TransportRate
		c.freight = e.Rated.TotalFreight
		c.transportCharge = e.Rated.TransportCharges
		c.hamali = e.Rated.Hamali
		c.statutory = e.Rated.Statutory
		c.cr = e.Rated.CR
		c.railway = e.Rated.Railway
		c.demurrage = e.Rated.Demurrage
	case e.Flat != nil:
		c.handling = e.Flat.Handling
		c.railway = e.Flat.Railway
		c.transport = e.Flat.Transport
	}
	return c
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	var e models.Entry
	var c chargeColumns
	var mode string
	var createdBy sql.NullString
	err := row.Scan(
		&e.ID, &e.Date, &e.VendorID, &e.RRNo, &e.InvoiceRef, &e.LRNo, &e.ShipFrom, &e.ShipTo, &e.Parcels, &mode,
		&c.handling, &c.railway, &c.transport,
		&c.boxRate, &c.transportRate, &c.freight, &c.transportCharge, &c.hamali, &c.statutory, &c.cr, &c.demurrage,
		&e.GrandTotal, &createdBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.CreatedBy = createdBy.String
	e.Mode = models.PricingMode(mode)
	if e.Mode == models.PricingRated {
		e.Rated = &models.RatedCharges{
			BoxRate:          c.boxRate,
			TransportRate:    c.transportRate,
			TotalFreight:     c.freight,
			TransportCharges: c.transportCharge,
			Hamali:           c.hamali,
			Statutory:        c.statutory,
			CR:               c.cr,
			Railway:          c.railway,
			Demurrage:        c.demurrage,
		}
	} else {
		e.Mode = models.PricingFlat
		e.Flat = &models.FlatCharges{Handling: c.handling, Railway: c.railway, Transport: c.transport}
	}
	return &e, nil
}

func (r *PostgresEntryRepo) CreateEntry(ctx context.Context, e *models.Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	c := columnsFor(e)
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO entry (
			date, vendor_id, rr_no, invoice_ref, lr_no, ship_from, ship_to, parcels, mode,
			handling, railway, transport,
			box_rate, transport_rate, total_freight, transport_charges, hamali, statutory, cr, demurrage,
			grand_total, created_by, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
		RETURNING id
	`,
		e.Date, e.VendorID, e.RRNo, e.InvoiceRef, e.LRNo, e.ShipFrom, e.ShipTo, e.Parcels, string(e.Mode),
		c.handling, c.railway, c.transport,
		c.boxRate, c.transportRate, c.freight, c.transportCharge, c.hamali, c.statutory, c.cr, c.demurrage,
		e.GrandTotal, e.CreatedBy, e.CreatedAt,
	).Scan(&e.ID)
	if isPQCode(err, pqForeignKeyViolation) {
		return models.NewValidationError("vendor", fmt.Sprintf("vendor %d does not exist", e.VendorID))
	}
	if err != nil {
		return fmt.Errorf("PostgresEntryRepo.CreateEntry: %w", err)
	}
	return nil
}

func (r *PostgresEntryRepo) UpdateEntry(ctx context.Context, e *models.Entry) error {
	c := columnsFor(e)
	res, err := r.DB.ExecContext(ctx, `
		UPDATE entry
		SET date=$1, vendor_id=$2, rr_no=$3, invoice_ref=$4, lr_no=$5, ship_from=$6, ship_to=$7,
			parcels=$8, mode=$9, handling=$10, railway=$11, transport=$12,
			box_rate=$13, transport_rate=$14, total_freight=$15, transport_charges=$16,
			hamali=$17, statutory=$18, cr=$19, demurrage=$20, grand_total=$21, updated_at=$22
		WHERE id=$23
	`,
		e.Date, e.VendorID, e.RRNo, e.InvoiceRef, e.LRNo, e.ShipFrom, e.ShipTo,
		e.Parcels, string(e.Mode), c.handling, c.railway, c.transport,
		c.boxRate, c.transportRate, c.freight, c.transportCharge,
		c.hamali, c.statutory, c.cr, c.demurrage, e.GrandTotal, e.UpdatedAt,
		e.ID,
	)
	if isPQCode(err, pqForeignKeyViolation) {
		return models.NewValidationError("vendor", fmt.Sprintf("vendor %d does not exist", e.VendorID))
	}
	if err != nil {
		return fmt.Errorf("PostgresEntryRepo.UpdateEntry: %w", err)
	}
	return requireAffected(res, "PostgresEntryRepo.UpdateEntry")
}

func (r *PostgresEntryRepo) GetEntry(ctx context.Context, id int64) (*models.Entry, error) {
	e, err := scanEntry(r.DB.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entry WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("PostgresEntryRepo.GetEntry: %w", err)
	}
	return e, nil
}

func (r *PostgresEntryRepo) ListEntries(ctx context.Context, filter models.EntryFilter) ([]*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entry`

	args := []interface{}{}
	where := []string{}
	add := func(clause string, v interface{}) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if filter.VendorID != nil {
		add("vendor_id = $%d", *filter.VendorID)
	}
	if filter.From != nil {
		add("date >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("date < $%d", *filter.To)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if filter.Ascending {
		query += " ORDER BY date ASC, id ASC"
	} else {
		query += " ORDER BY date DESC, id DESC"
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("PostgresEntryRepo.ListEntries: %w", err)
	}
	defer rows.Close()

	entries := []*models.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("PostgresEntryRepo.ListEntries: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *PostgresEntryRepo) CountEntriesForVendor(ctx context.Context, vendorID int64) (int64, error) {
	var n int64
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM entry WHERE vendor_id=$1`, vendorID).Scan(&n); err != nil {
		return 0, fmt.Errorf("PostgresEntryRepo.CountEntriesForVendor: %w", err)
	}
	return n, nil
}

func (r *PostgresEntryRepo) DeleteEntry(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM entry WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("PostgresEntryRepo.DeleteEntry: %w", err)
	}
	return requireAffected(res, "PostgresEntryRepo.DeleteEntry")
}
