package repository

import (
	"context"

	"kpslogistics/models"
)

type CompanyRepository interface {
	SaveCompany(ctx context.Context, company *models.CompanyProfile) error
	GetCompany(ctx context.Context) (*models.CompanyProfile, error)
}
