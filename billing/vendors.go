package billing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"kpslogistics/config"
	"kpslogistics/models"
	"kpslogistics/repository"
	"kpslogistics/utils"
)

// VendorService owns vendor rate profiles, the single default vendor and the
// pending balance carried onto invoices.
type VendorService struct {
	Vendors   repository.VendorRepository
	Entries   repository.EntryRepository
	Audit     AuditSink
	Cache     *Cache
	Logger    *logrus.Logger
	Now       func() time.Time
	validator *validator.Validate
}

func NewVendorService(vendors repository.VendorRepository, entries repository.EntryRepository, audit AuditSink, cache *Cache, logger *logrus.Logger) *VendorService {
	return &VendorService{
		Vendors:   vendors,
		Entries:   entries,
		Audit:     audit,
		Cache:     cache,
		Logger:    logger,
		Now:       time.Now,
		validator: validator.New(),
	}
}

func (s *VendorService) CreateVendor(ctx context.Context, actor string, in models.VendorInput) (*models.Vendor, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate(in); err != nil {
		return nil, err
	}

	existing, err := s.Vendors.GetVendorByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrDuplicateVendor, in.Name)
	}

	v := models.NewVendor(in.Name)
	applyVendorInput(v, in)
	v.CreatedAt = s.now().UTC()
	if err := s.Vendors.CreateVendor(ctx, v); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.Audit, s.Logger, actor, models.ActionAddVendor,
		fmt.Sprintf("%s (%s, rate %s)", v.Name, v.Mode(), utils.FormatAmount(v.RatePerParcel)))
	s.bump(ctx)
	return v, nil
}

// UpdateVendor applies the non-nil fields of in. Existing entries keep the
// charges computed when they were recorded.
func (s *VendorService) UpdateVendor(ctx context.Context, actor string, id int64, in models.VendorInput) (*models.Vendor, error) {
	v, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		in.Name = v.Name
	}
	if err := s.validate(in); err != nil {
		return nil, err
	}
	if in.Name != v.Name {
		clash, err := s.Vendors.GetVendorByName(ctx, in.Name)
		if err != nil {
			return nil, err
		}
		if clash != nil && clash.ID != v.ID {
			return nil, fmt.Errorf("%w: %s", models.ErrDuplicateVendor, in.Name)
		}
	}

	oldRate := v.RatePerParcel
	v.Name = in.Name
	applyVendorInput(v, in)
	updated := s.now().UTC()
	v.UpdatedAt = &updated
	if err := s.Vendors.UpdateVendor(ctx, v); err != nil {
		return nil, err
	}

	if oldRate != v.RatePerParcel {
		recordAudit(ctx, s.Audit, s.Logger, actor, models.ActionUpdateRate,
			fmt.Sprintf("%s: %s -> %s", v.Name, utils.FormatAmount(oldRate), utils.FormatAmount(v.RatePerParcel)))
	} else {
		recordAudit(ctx, s.Audit, s.Logger, actor, models.ActionUpdateVendor, v.Name)
	}
	s.bump(ctx)
	return v, nil
}

// DeleteVendor refuses to remove a vendor that still has entries.
func (s *VendorService) DeleteVendor(ctx context.Context, actor string, id int64) error {
	v, err := s.mustGet(ctx, id)
	if err != nil {
		return err
	}
	n, err := s.Entries.CountEntriesForVendor(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %s has %d entries", models.ErrVendorInUse, v.Name, n)
	}
	if err := s.Vendors.DeleteVendor(ctx, id); err != nil {
		return err
	}
	recordAudit(ctx, s.Audit, s.Logger, actor, models.ActionDeleteVendor, v.Name)
	s.bump(ctx)
	return nil
}

// SetDefaultVendor makes id the only default vendor. An unknown id returns
// models.ErrNotFound and leaves the current default untouched.
func (s *VendorService) SetDefaultVendor(ctx context.Context, actor string, id int64) (*models.Vendor, error) {
	if err := s.Vendors.SetDefaultVendor(ctx, id); err != nil {
		return nil, err
	}
	v, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	recordAudit(ctx, s.Audit, s.Logger, actor, models.ActionUpdateVendor, fmt.Sprintf("%s set as default", v.Name))
	s.bump(ctx)
	return v, nil
}

// AdjustPendingBalance adds delta (negative for a payment) to the vendor's
// pending balance in a single atomic write.
func (s *VendorService) AdjustPendingBalance(ctx context.Context, actor string, id int64, delta float64) (*models.Vendor, error) {
	if !utils.IsFinite(delta) {
		return nil, models.NewValidationError("delta", "must be a finite number")
	}
	v, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	before, after, err := s.Vendors.AdjustPendingBalance(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	v.PendingBalance = after

	recordAudit(ctx, s.Audit, s.Logger, actor, models.ActionUpdateBalance,
		fmt.Sprintf("%s: %s -> %s", v.Name, utils.FormatAmount(before), utils.FormatAmount(after)))
	s.bump(ctx)
	return v, nil
}

// RecordPayment reduces the pending balance by a received amount.
func (s *VendorService) RecordPayment(ctx context.Context, actor string, id int64, amount float64) (*models.Vendor, error) {
	if !utils.IsFinite(amount) || amount <= 0 {
		return nil, models.NewValidationError("amount", "must be greater than zero")
	}
	return s.AdjustPendingBalance(ctx, actor, id, -amount)
}

// FindVendor resolves a numeric id first, then an exact name.
func (s *VendorService) FindVendor(ctx context.Context, idOrName string) (*models.Vendor, error) {
	key := strings.TrimSpace(idOrName)
	if key == "" {
		return nil, models.NewValidationError("vendor", "vendor required")
	}
	if id, err := strconv.ParseInt(key, 10, 64); err == nil {
		v, err := s.Vendors.GetVendor(ctx, id)
		if err != nil {
			return nil, err
		}
		if v != nil {
			return v, nil
		}
	}
	v, err := s.Vendors.GetVendorByName(ctx, key)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("vendor %q: %w", key, models.ErrNotFound)
	}
	return v, nil
}

func (s *VendorService) ListVendors(ctx context.Context) ([]*models.Vendor, error) {
	return s.Vendors.ListVendors(ctx)
}

// SeedDefaults inserts the stock vendors when none exist yet. The first one
// becomes the default.
func (s *VendorService) SeedDefaults(ctx context.Context, names ...string) error {
	existing, err := s.Vendors.ListVendors(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for i, name := range names {
		v := models.NewVendor(name)
		v.CreatedAt = s.now().UTC()
		if err := s.Vendors.CreateVendor(ctx, v); err != nil {
			return err
		}
		if i == 0 {
			if err := s.Vendors.SetDefaultVendor(ctx, v.ID); err != nil {
				return err
			}
		}
	}
	recordAudit(ctx, s.Audit, s.Logger, "system", models.ActionSystem,
		fmt.Sprintf("seeded %d default vendors", len(names)))
	return nil
}

func (s *VendorService) mustGet(ctx context.Context, id int64) (*models.Vendor, error) {
	v, err := s.Vendors.GetVendor(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("vendor %d: %w", id, models.ErrNotFound)
	}
	return v, nil
}

func (s *VendorService) validate(in models.VendorInput) error {
	v := s.validator
	if v == nil {
		v = validator.New()
	}
	return validationError(v.Struct(in))
}

// validationError turns the first validator failure into a ValidationError.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return models.NewValidationError(strings.ToLower(fe.Field()), fmt.Sprintf("failed %s", fe.Tag()))
	}
	return fmt.Errorf("%w: %v", models.ErrValidation, err)
}

func applyVendorInput(v *models.Vendor, in models.VendorInput) {
	if in.BillingName != nil {
		v.BillingName = trimmedOrNil(*in.BillingName)
	}
	if in.BillingAddress != nil {
		v.BillingAddress = trimmedOrNil(*in.BillingAddress)
	}
	if in.RatePerParcel != nil {
		v.RatePerParcel = *in.RatePerParcel
	}
	if in.TransportRate != nil {
		v.TransportRate = *in.TransportRate
	}
	if in.PricingMode != "" {
		v.PricingMode = in.PricingMode
	}
	if in.ShowRR != nil {
		v.ShowRR = *in.ShowRR
	}
	if in.ShowHandling != nil {
		v.ShowHandling = *in.ShowHandling
	}
	if in.ShowRailway != nil {
		v.ShowRailway = *in.ShowRailway
	}
	if in.ShowTransport != nil {
		v.ShowTransport = *in.ShowTransport
	}
}

func trimmedOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (s *VendorService) bump(ctx context.Context) {
	if err := s.Cache.Bump(ctx); err != nil && !errors.Is(err, context.Canceled) {
		config.LogError(s.Logger, "billing", "bump", "analytics cache invalidation", nil, err)
	}
}

func (s *VendorService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
