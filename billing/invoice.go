package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"kpslogistics/models"
	"kpslogistics/repository"
	"kpslogistics/utils"
)

const MonthLayout = "2006-01"

// MonthRange parses a YYYY-MM month into its [start, end) UTC bounds.
func MonthRange(month string) (time.Time, time.Time, error) {
	start, err := time.Parse(MonthLayout, strings.TrimSpace(month))
	if err != nil {
		return time.Time{}, time.Time{}, models.NewValidationError("month", "expected YYYY-MM")
	}
	return start, start.AddDate(0, 1, 0), nil
}

// InvoiceNumber builds the printed invoice label INV-YYYYMM-DDHH. Two
// invoices for the same month generated within the same hour share a label;
// InvoiceSummary.InvoiceID is the unique identifier.
func InvoiceNumber(month time.Time, generated time.Time) string {
	return fmt.Sprintf("INV-%s-%s", month.Format("200601"), generated.Format("0215"))
}

type InvoiceService struct {
	Entries        repository.EntryRepository
	Vendors        repository.VendorRepository
	DefaultAddress string
	Now            func() time.Time
}

func NewInvoiceService(entries repository.EntryRepository, vendors repository.VendorRepository, defaultAddress string) *InvoiceService {
	return &InvoiceService{
		Entries:        entries,
		Vendors:        vendors,
		DefaultAddress: defaultAddress,
		Now:            time.Now,
	}
}

// BuildInvoice summarises one vendor's entries for a month. It returns
// models.ErrNoRecords (which matches models.ErrNotFound) when the vendor has
// no entries in that month, never a zero-valued invoice. The pending balance
// is added only when includePending is set, as read at generation time.
func (s *InvoiceService) BuildInvoice(ctx context.Context, vendorID int64, month string, includePending bool) (*models.InvoiceSummary, error) {
	start, end, err := MonthRange(month)
	if err != nil {
		return nil, err
	}
	if vendorID <= 0 {
		return nil, models.NewValidationError("vendor", "vendor required")
	}

	vendor, err := s.Vendors.GetVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, fmt.Errorf("vendor %d: %w", vendorID, models.ErrNotFound)
	}

	entries, err := s.Entries.ListEntries(ctx, models.EntryFilter{
		VendorID:  &vendor.ID,
		From:      &start,
		To:        &end,
		Ascending: true,
	})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no records found for %s in %s", models.ErrNoRecords, vendor.Name, start.Format(MonthLayout))
	}

	now := s.now()
	inv := &models.InvoiceSummary{
		InvoiceID:      uuid.NewString(),
		InvoiceNo:      InvoiceNumber(start, now),
		VendorID:       vendor.ID,
		VendorName:     vendor.Name,
		BillingName:    s.billingName(vendor),
		BillingAddress: s.billingAddress(vendor),
		Month:          start.Format(MonthLayout),
		DisplayMonth:   start.Format("January 2006"),
		Columns:        vendor.Columns(),
		Entries:        entries,
		GeneratedAt:    now,
	}

	for _, e := range entries {
		inv.TotalParcels += e.Parcels
		inv.CurrentBillTotal += e.GrandTotal
	}
	inv.GrandTotal = inv.CurrentBillTotal
	if includePending {
		inv.PendingIncluded = true
		inv.PendingAmount = vendor.PendingBalance
		inv.GrandTotal += vendor.PendingBalance
	}
	inv.AmountInWords = utils.AmountInWords(inv.GrandTotal)
	return inv, nil
}

// billingName falls back to the vendor's internal name.
func (s *InvoiceService) billingName(v *models.Vendor) string {
	if v.BillingName != nil && strings.TrimSpace(*v.BillingName) != "" {
		return strings.TrimSpace(*v.BillingName)
	}
	return v.Name
}

// billingAddress falls back to the configured default address, then to
// models.DefaultBillingAddress.
func (s *InvoiceService) billingAddress(v *models.Vendor) string {
	if v.BillingAddress != nil && strings.TrimSpace(*v.BillingAddress) != "" {
		return strings.TrimSpace(*v.BillingAddress)
	}
	if s.DefaultAddress != "" {
		return s.DefaultAddress
	}
	return models.DefaultBillingAddress
}

func (s *InvoiceService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
