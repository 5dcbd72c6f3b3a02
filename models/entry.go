package models

import "time"

const (
	DefaultShipFrom = "Mumbai"
	DefaultShipTo   = "Udupi"
)

// FlatCharges are charges entered directly per category.
type FlatCharges struct {
	Handling  float64 `json:"handling" bson:"handling"`
	Railway   float64 `json:"railway" bson:"railway"`
	Transport float64 `json:"transport" bson:"transport"`
}

func (c FlatCharges) Total() float64 {
	return c.Handling + c.Railway + c.Transport
}

// RatedCharges multiply the parcel count by per-box and transport rates and
// add the flat extra line items.
type RatedCharges struct {
	BoxRate          float64 `json:"box_rate" bson:"box_rate"`
	TransportRate    float64 `json:"transport_rate" bson:"transport_rate"`
	TotalFreight     float64 `json:"total_freight" bson:"total_freight"`
	TransportCharges float64 `json:"transport_charges" bson:"transport_charges"`
	Hamali           float64 `json:"hamali" bson:"hamali"`
	Statutory        float64 `json:"statutory" bson:"statutory"`
	CR               float64 `json:"cr" bson:"cr"`
	Railway          float64 `json:"railway" bson:"railway"`
	Demurrage        float64 `json:"demurrage" bson:"demurrage"`
}

func (c RatedCharges) Total() float64 {
	return c.TotalFreight + c.TransportCharges + c.Hamali + c.Statutory + c.CR + c.Railway + c.Demurrage
}

type Entry struct {
	ID       int64     `json:"id" bson:"_id" db:"id"`
	Date     time.Time `json:"date" bson:"date" db:"date"`
	VendorID int64     `json:"vendor_id" bson:"vendor_id" db:"vendor_id"`

	RRNo       *string `json:"rr_no,omitempty" bson:"rr_no,omitempty" db:"rr_no"`
	InvoiceRef *string `json:"invoice_ref,omitempty" bson:"invoice_ref,omitempty" db:"invoice_ref"`
	LRNo       *string `json:"lr_no,omitempty" bson:"lr_no,omitempty" db:"lr_no"`

	ShipFrom string `json:"ship_from" bson:"ship_from" db:"ship_from"`
	ShipTo   string `json:"ship_to" bson:"ship_to" db:"ship_to"`
	Parcels  int    `json:"parcels" bson:"parcels" db:"parcels"`

	// Exactly one of Flat / Rated is set, matching Mode.
	Mode  PricingMode   `json:"mode" bson:"mode" db:"mode"`
	Flat  *FlatCharges  `json:"flat,omitempty" bson:"flat,omitempty"`
	Rated *RatedCharges `json:"rated,omitempty" bson:"rated,omitempty"`

	GrandTotal float64    `json:"grand_total" bson:"grand_total" db:"grand_total"`
	CreatedBy  string     `json:"created_by,omitempty" bson:"created_by,omitempty" db:"created_by"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at" db:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty" db:"updated_at"`

	// Malformed input fields replaced by their default: zero for amounts and
	// counts, the vendor's rate for box_rate and transport_rate.
	CoercedFields []string `json:"coerced_fields,omitempty" bson:"-" db:"-"`

	// Denormalized for responses
	Vendor *Vendor `json:"vendor,omitempty" bson:"-" db:"-"`
}

// ComponentsTotal sums whichever charge variant the entry carries.
func (e *Entry) ComponentsTotal() float64 {
	switch {
	case e.Rated != nil:
		return e.Rated.Total()
	case e.Flat != nil:
		return e.Flat.Total()
	}
	return 0
}

// HandlingAmount, RailwayAmount and TransportAmount project either variant
// onto the three export/invoice columns.
func (e *Entry) HandlingAmount() float64 {
	if e.Rated != nil {
		return e.Rated.TotalFreight
	}
	if e.Flat != nil {
		return e.Flat.Handling
	}
	return 0
}

func (e *Entry) RailwayAmount() float64 {
	if e.Rated != nil {
		return e.Rated.Railway
	}
	if e.Flat != nil {
		return e.Flat.Railway
	}
	return 0
}

func (e *Entry) TransportAmount() float64 {
	if e.Rated != nil {
		return e.Rated.TransportCharges
	}
	if e.Flat != nil {
		return e.Flat.Transport
	}
	return 0
}

// EntryInput is the raw submission for one shipment. Every numeric field is
// loose: blank or malformed amounts count as zero, and rated entries fall
// back to the vendor's box_rate and transport_rate.
type EntryInput struct {
	Date       string   `json:"date"`
	VendorID   RawValue `json:"vendor"`
	RRNo       string   `json:"rr_no"`
	InvoiceRef string   `json:"invoice_ref"`
	LRNo       string   `json:"lr_no"`
	ShipFrom   string   `json:"from"`
	ShipTo     string   `json:"to"`
	Parcels    RawValue `json:"parcels"`

	Handling  RawValue `json:"handling"`
	Railway   RawValue `json:"railway"`
	Transport RawValue `json:"transport"`

	BoxRate       RawValue `json:"box_rate"`
	TransportRate RawValue `json:"transport_rate"`
	Hamali        RawValue `json:"hamali"`
	Statutory     RawValue `json:"statutory"`
	CR            RawValue `json:"cr"`
	Demurrage     RawValue `json:"demurrage"`
}

type EntryFilter struct {
	VendorID  *int64
	From      *time.Time // inclusive
	To        *time.Time // exclusive
	Ascending bool
}

// DaySummary is the running total shown on the entry screen.
type DaySummary struct {
	Date    string   `json:"date"`
	Revenue float64  `json:"revenue"`
	Parcels int      `json:"parcels"`
	Entries []*Entry `json:"entries"`
}
