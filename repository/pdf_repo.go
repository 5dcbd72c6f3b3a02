package repository

import (
	"context"

	"kpslogistics/models"
)

// PDFRepository provides the letterhead data for invoice PDFs.
type PDFRepository struct {
	CompanyRepo CompanyRepository
}

func NewPDFRepository(companyRepo CompanyRepository) *PDFRepository {
	return &PDFRepository{CompanyRepo: companyRepo}
}

// GetCompanyForPDF returns the saved company profile, or an empty one so a
// PDF can still be printed before the profile is set up.
func (r *PDFRepository) GetCompanyForPDF(ctx context.Context) (*models.CompanyProfile, error) {
	if r == nil || r.CompanyRepo == nil {
		return &models.CompanyProfile{}, nil
	}
	c, err := r.CompanyRepo.GetCompany(ctx)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return &models.CompanyProfile{}, nil
	}
	return c, nil
}
