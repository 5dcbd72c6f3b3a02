package billing

import (
	"strings"
	"time"

	"kpslogistics/models"
	"kpslogistics/utils"
)

const DateLayout = "2006-01-02"

// ComputeEntryCharges turns one raw submission into an Entry with every
// charge populated and GrandTotal derived. Only a missing vendor or an
// unparseable date are rejected; any other bad numeric input is charged as
// zero and listed on Entry.CoercedFields. The function is pure: the same
// input and vendor always produce the same charges.
func ComputeEntryCharges(in models.EntryInput, vendor *models.Vendor) (*models.Entry, error) {
	if vendor == nil || vendor.ID == 0 {
		return nil, models.NewValidationError("vendor", "vendor required")
	}

	date, err := time.Parse(DateLayout, strings.TrimSpace(in.Date))
	if err != nil {
		return nil, models.NewValidationError("date", "expected YYYY-MM-DD")
	}

	p := &numberReader{}
	entry := &models.Entry{
		Date:       date,
		VendorID:   vendor.ID,
		RRNo:       optionalString(in.RRNo),
		InvoiceRef: optionalString(in.InvoiceRef),
		LRNo:       optionalString(in.LRNo),
		ShipFrom:   defaultString(in.ShipFrom, models.DefaultShipFrom),
		ShipTo:     defaultString(in.ShipTo, models.DefaultShipTo),
		Parcels:    p.count("parcels", in.Parcels),
		Mode:       vendor.Mode(),
	}

	switch entry.Mode {
	case models.PricingRated:
		entry.Rated = ratedCharges(p, in, vendor, entry.Parcels)
	default:
		entry.Mode = models.PricingFlat
		entry.Flat = flatCharges(p, in, vendor)
	}

	entry.GrandTotal = entry.ComponentsTotal()
	entry.CoercedFields = p.coerced
	return entry, nil
}

func flatCharges(p *numberReader, in models.EntryInput, v *models.Vendor) *models.FlatCharges {
	c := &models.FlatCharges{
		Handling:  p.amount("handling", in.Handling),
		Railway:   p.amount("railway", in.Railway),
		Transport: p.amount("transport", in.Transport),
	}
	if !v.ShowHandling {
		c.Handling = 0
	}
	if !v.ShowRailway {
		c.Railway = 0
	}
	if !v.ShowTransport {
		c.Transport = 0
	}
	return c
}

func ratedCharges(p *numberReader, in models.EntryInput, v *models.Vendor, parcels int) *models.RatedCharges {
	c := &models.RatedCharges{
		BoxRate:       p.rate("box_rate", in.BoxRate, v.RatePerParcel),
		TransportRate: p.rate("transport_rate", in.TransportRate, v.TransportRate),
		Hamali:        p.amount("hamali", in.Hamali),
		Statutory:     p.amount("statutory", in.Statutory),
		CR:            p.amount("cr", in.CR),
		Railway:       p.amount("railway", in.Railway),
		Demurrage:     p.amount("demurrage", in.Demurrage),
	}
	c.TotalFreight = float64(parcels) * c.BoxRate
	c.TransportCharges = float64(parcels) * c.TransportRate

	if !v.ShowHandling {
		c.TotalFreight = 0
	}
	if !v.ShowRailway {
		c.Railway = 0
	}
	if !v.ShowTransport {
		c.TransportCharges = 0
	}
	return c
}

// numberReader coerces loose numeric fields and remembers which ones were
// present but unreadable.
type numberReader struct {
	coerced []string
}

func (p *numberReader) amount(field string, raw models.RawValue) float64 {
	p.check(field, raw)
	return utils.ParseNumericOrDefault(raw.String(), 0)
}

func (p *numberReader) count(field string, raw models.RawValue) int {
	p.check(field, raw)
	return utils.ParseCountOrDefault(raw.String(), 0)
}

// rate falls back to the vendor's rate card when the field is blank.
func (p *numberReader) rate(field string, raw models.RawValue, vendorRate float64) float64 {
	if raw.IsBlank() {
		return vendorRate
	}
	p.check(field, raw)
	return utils.ParseNumericOrDefault(raw.String(), vendorRate)
}

func (p *numberReader) check(field string, raw models.RawValue) {
	if !raw.IsBlank() && !utils.IsNumeric(raw.String()) {
		p.coerced = append(p.coerced, field)
	}
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func defaultString(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}
