package repository

import (
	"context"

	"kpslogistics/models"
)

// VendorRepository stores vendor rate profiles. Lookups return nil, nil when
// the vendor does not exist.
type VendorRepository interface {
	CreateVendor(ctx context.Context, v *models.Vendor) error
	UpdateVendor(ctx context.Context, v *models.Vendor) error
	GetVendor(ctx context.Context, id int64) (*models.Vendor, error)
	GetVendorByName(ctx context.Context, name string) (*models.Vendor, error)
	ListVendors(ctx context.Context) ([]*models.Vendor, error)
	DeleteVendor(ctx context.Context, id int64) error

	// SetDefaultVendor clears every other default and sets id in one atomic
	// write. It returns models.ErrNotFound when id does not exist.
	SetDefaultVendor(ctx context.Context, id int64) error

	// AdjustPendingBalance adds delta to the stored balance atomically and
	// returns the balances before and after.
	AdjustPendingBalance(ctx context.Context, id int64, delta float64) (before, after float64, err error)
}
