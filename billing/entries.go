package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"kpslogistics/config"
	"kpslogistics/models"
	"kpslogistics/repository"
	"kpslogistics/utils"
)

// EntryService records shipments. Every write re-derives the charges through
// ComputeEntryCharges so GrandTotal always equals the sum of its components.
type EntryService struct {
	Entries repository.EntryRepository
	Vendors repository.VendorRepository
	Audit   AuditSink
	Cache   *Cache
	Logger  *logrus.Logger
	Now     func() time.Time
}

func NewEntryService(entries repository.EntryRepository, vendors repository.VendorRepository, audit AuditSink, cache *Cache, logger *logrus.Logger) *EntryService {
	return &EntryService{
		Entries: entries,
		Vendors: vendors,
		Audit:   audit,
		Cache:   cache,
		Logger:  logger,
		Now:     time.Now,
	}
}

func (s *EntryService) CreateEntry(ctx context.Context, actor string, in models.EntryInput) (*models.Entry, error) {
	vendor, err := s.vendorFor(ctx, in.VendorID)
	if err != nil {
		return nil, err
	}

	entry, err := ComputeEntryCharges(in, vendor)
	if err != nil {
		return nil, err
	}
	s.warnCoerced(entry, "CreateEntry")

	entry.CreatedBy = actor
	entry.CreatedAt = s.now().UTC()
	if err := s.Entries.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}
	entry.Vendor = vendor

	recordAudit(ctx, s.Audit, s.Logger, actor, models.ActionAddEntry,
		fmt.Sprintf("%s: %d parcels", vendor.Name, entry.Parcels))
	s.bump(ctx)
	return entry, nil
}

// UpdateEntry replaces an entry's inputs and recomputes every charge. A
// blank vendor keeps the entry's current vendor.
func (s *EntryService) UpdateEntry(ctx context.Context, actor string, id int64, in models.EntryInput) (*models.Entry, error) {
	existing, err := s.Entries.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, models.ErrNotFound
	}

	if in.VendorID.IsBlank() {
		in.VendorID = models.RawValue(fmt.Sprint(existing.VendorID))
	}
	vendor, err := s.vendorFor(ctx, in.VendorID)
	if err != nil {
		return nil, err
	}

	entry, err := ComputeEntryCharges(in, vendor)
	if err != nil {
		return nil, err
	}
	s.warnCoerced(entry, "UpdateEntry")

	entry.ID = existing.ID
	entry.CreatedBy = existing.CreatedBy
	entry.CreatedAt = existing.CreatedAt
	updated := s.now().UTC()
	entry.UpdatedAt = &updated
	if err := s.Entries.UpdateEntry(ctx, entry); err != nil {
		return nil, err
	}
	entry.Vendor = vendor

	recordAudit(ctx, s.Audit, s.Logger, actor, models.ActionUpdateEntry,
		fmt.Sprintf("entry %d for %s: %s -> %s", id, vendor.Name,
			utils.FormatAmount(existing.GrandTotal), utils.FormatAmount(entry.GrandTotal)))
	s.bump(ctx)
	return entry, nil
}

func (s *EntryService) DeleteEntry(ctx context.Context, actor string, id int64) error {
	existing, err := s.Entries.GetEntry(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return models.ErrNotFound
	}
	if err := s.Entries.DeleteEntry(ctx, id); err != nil {
		return err
	}
	recordAudit(ctx, s.Audit, s.Logger, actor, models.ActionDeleteEntry,
		fmt.Sprintf("entry %d dated %s (%s)", id, existing.Date.Format(DateLayout), utils.FormatAmount(existing.GrandTotal)))
	s.bump(ctx)
	return nil
}

func (s *EntryService) GetEntry(ctx context.Context, id int64) (*models.Entry, error) {
	entry, err := s.Entries.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, models.ErrNotFound
	}
	return entry, nil
}

// ListEntries returns entries for an optional month (YYYY-MM) and vendor,
// newest first.
func (s *EntryService) ListEntries(ctx context.Context, month string, vendorID *int64) ([]*models.Entry, error) {
	filter := models.EntryFilter{VendorID: vendorID}
	if month != "" {
		start, end, err := MonthRange(month)
		if err != nil {
			return nil, err
		}
		filter.From, filter.To = &start, &end
	}
	return s.Entries.ListEntries(ctx, filter)
}

// DaySummary totals the entries recorded for one calendar day.
func (s *EntryService) DaySummary(ctx context.Context, day time.Time) (*models.DaySummary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	entries, err := s.Entries.ListEntries(ctx, models.EntryFilter{From: &start, To: &end})
	if err != nil {
		return nil, err
	}

	summary := &models.DaySummary{Date: start.Format(DateLayout), Entries: entries}
	if summary.Entries == nil {
		summary.Entries = []*models.Entry{}
	}
	for _, e := range entries {
		summary.Revenue += e.GrandTotal
		summary.Parcels += e.Parcels
	}
	return summary, nil
}

func (s *EntryService) vendorFor(ctx context.Context, raw models.RawValue) (*models.Vendor, error) {
	id := utils.ParseCountOrDefault(raw.String(), 0)
	if id <= 0 {
		return nil, models.NewValidationError("vendor", "vendor required")
	}
	vendor, err := s.Vendors.GetVendor(ctx, int64(id))
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, models.NewValidationError("vendor", fmt.Sprintf("vendor %d does not exist", id))
	}
	return vendor, nil
}

func (s *EntryService) warnCoerced(entry *models.Entry, funcName string) {
	if len(entry.CoercedFields) == 0 {
		return
	}
	logger := s.Logger
	if logger == nil {
		logger = config.GetLogger()
	}
	logger.WithFields(logrus.Fields{
		"module":   "billing",
		"funcName": funcName,
		"vendor":   entry.VendorID,
		"fields":   entry.CoercedFields,
	}).Warn("non-numeric input replaced by default")
}

func (s *EntryService) bump(ctx context.Context) {
	if err := s.Cache.Bump(ctx); err != nil && !errors.Is(err, context.Canceled) {
		config.LogError(s.Logger, "billing", "bump", "analytics cache invalidation", nil, err)
	}
}

func (s *EntryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
