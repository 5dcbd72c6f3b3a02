package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kpslogistics/models"
)

type PostgresCompanyRepo struct {
	DB *sql.DB
}

func NewPostgresCompanyRepo(db *sql.DB) *PostgresCompanyRepo {
	return &PostgresCompanyRepo{DB: db}
}

// SaveCompany updates the profile when ID is set, else inserts a new one.
func (r *PostgresCompanyRepo) SaveCompany(ctx context.Context, c *models.CompanyProfile) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.Mobile == nil {
		c.Mobile = []models.MobileEntry{}
	}

	// mobile numbers live in a JSONB column
	mobileJSON, err := json.Marshal(c.Mobile)
	if err != nil {
		return err
	}

	if c.ID > 0 {
		res, err := r.DB.ExecContext(ctx, `
			UPDATE company_profile
			SET company_name=$1, gstin=$2, address=$3, city=$4, state=$5,
				pincode=$6, mobile=$7, footnote=$8
			WHERE id=$9
		`, c.CompanyName, c.GSTIN, c.Address, c.City, c.State,
			c.Pincode, mobileJSON, c.Footnote, c.ID)
		if err != nil {
			return fmt.Errorf("PostgresCompanyRepo.SaveCompany: %w", err)
		}
		return requireAffected(res, "PostgresCompanyRepo.SaveCompany")
	}

	err = r.DB.QueryRowContext(ctx, `
		INSERT INTO company_profile
		(company_name, gstin, address, city, state, pincode, mobile, footnote, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id
	`, c.CompanyName, c.GSTIN, c.Address, c.City, c.State,
		c.Pincode, mobileJSON, c.Footnote, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("PostgresCompanyRepo.SaveCompany: %w", err)
	}
	return nil
}

// GetCompany returns the most recently created profile.
func (r *PostgresCompanyRepo) GetCompany(ctx context.Context) (*models.CompanyProfile, error) {
	c := &models.CompanyProfile{}
	var mobileJSON []byte

	err := r.DB.QueryRowContext(ctx, `
		SELECT id, company_name, address, city, state, pincode, gstin, footnote, mobile, created_at
		FROM company_profile
		ORDER BY id DESC LIMIT 1
	`).Scan(&c.ID, &c.CompanyName, &c.Address, &c.City, &c.State,
		&c.Pincode, &c.GSTIN, &c.Footnote, &mobileJSON, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("PostgresCompanyRepo.GetCompany: %w", err)
	}

	if len(mobileJSON) > 0 {
		if err := json.Unmarshal(mobileJSON, &c.Mobile); err != nil {
			return nil, err
		}
	}
	return c, nil
}
