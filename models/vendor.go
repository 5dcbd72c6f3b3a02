package models

import "time"

// PricingMode selects how an entry's charges are derived.
type PricingMode string

const (
	PricingFlat  PricingMode = "flat"
	PricingRated PricingMode = "rated"
)

const (
	DefaultRatePerParcel = 70.0
	DefaultTransportRate = 0.0
)

type Vendor struct {
	ID             int64       `json:"id" bson:"_id" db:"id"`
	Name           string      `json:"name" bson:"name" db:"name"`
	BillingName    *string     `json:"billing_name,omitempty" bson:"billing_name,omitempty" db:"billing_name"`
	BillingAddress *string     `json:"billing_address,omitempty" bson:"billing_address,omitempty" db:"billing_address"`
	RatePerParcel  float64     `json:"rate_per_parcel" bson:"rate_per_parcel" db:"rate_per_parcel"`
	TransportRate  float64     `json:"transport_rate" bson:"transport_rate" db:"transport_rate"`
	PricingMode    PricingMode `json:"pricing_mode" bson:"pricing_mode" db:"pricing_mode"`

	// Visibility flags. A hidden charge column is also charged at zero.
	ShowRR        bool `json:"show_rr" bson:"show_rr" db:"show_rr"`
	ShowHandling  bool `json:"show_handling" bson:"show_handling" db:"show_handling"`
	ShowRailway   bool `json:"show_railway" bson:"show_railway" db:"show_railway"`
	ShowTransport bool `json:"show_transport" bson:"show_transport" db:"show_transport"`

	IsDefault      bool       `json:"is_default" bson:"is_default" db:"is_default"`
	PendingBalance float64    `json:"pending_balance" bson:"pending_balance" db:"pending_balance"`
	CreatedAt      time.Time  `json:"created_at" bson:"created_at" db:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty" db:"updated_at"`
}

// NewVendor returns a vendor carrying the stock rate card and all columns visible.
func NewVendor(name string) *Vendor {
	return &Vendor{
		Name:          name,
		RatePerParcel: DefaultRatePerParcel,
		TransportRate: DefaultTransportRate,
		PricingMode:   PricingFlat,
		ShowRR:        true,
		ShowHandling:  true,
		ShowRailway:   true,
		ShowTransport: true,
	}
}

// Mode returns the vendor's pricing mode, treating an unset value as flat.
func (v *Vendor) Mode() PricingMode {
	if v == nil || v.PricingMode == "" {
		return PricingFlat
	}
	return v.PricingMode
}

// Columns reports which charge columns an invoice should render for this vendor.
func (v *Vendor) Columns() ColumnVisibility {
	return ColumnVisibility{
		RR:        v.ShowRR,
		Handling:  v.ShowHandling,
		Railway:   v.ShowRailway,
		Transport: v.ShowTransport,
	}
}

type ColumnVisibility struct {
	RR        bool `json:"rr"`
	Handling  bool `json:"handling"`
	Railway   bool `json:"railway"`
	Transport bool `json:"transport"`
}

// VendorInput is the create/update payload for a vendor rate profile.
type VendorInput struct {
	Name           string      `json:"name" validate:"required,max=100"`
	BillingName    *string     `json:"billing_name" validate:"omitempty,max=150"`
	BillingAddress *string     `json:"billing_address" validate:"omitempty,max=255"`
	RatePerParcel  *float64    `json:"rate_per_parcel" validate:"omitempty,gte=0"`
	TransportRate  *float64    `json:"transport_rate" validate:"omitempty,gte=0"`
	PricingMode    PricingMode `json:"pricing_mode" validate:"omitempty,oneof=flat rated"`
	ShowRR         *bool       `json:"show_rr"`
	ShowHandling   *bool       `json:"show_handling"`
	ShowRailway    *bool       `json:"show_railway"`
	ShowTransport  *bool       `json:"show_transport"`
}
