package repository

import (
	"context"

	"kpslogistics/models"
)

type EntryRepository interface {
	CreateEntry(ctx context.Context, e *models.Entry) error
	UpdateEntry(ctx context.Context, e *models.Entry) error
	GetEntry(ctx context.Context, id int64) (*models.Entry, error)
	ListEntries(ctx context.Context, filter models.EntryFilter) ([]*models.Entry, error)
	CountEntriesForVendor(ctx context.Context, vendorID int64) (int64, error)
	DeleteEntry(ctx context.Context, id int64) error
}
