package models

import "time"

const DefaultBillingAddress = "Manipal / Udupi"

// InvoiceSummary is the derived monthly bill for one vendor. It is never persisted.
type InvoiceSummary struct {
	InvoiceID      string           `json:"invoice_id"`
	InvoiceNo      string           `json:"invoice_no"`
	VendorID       int64            `json:"vendor_id"`
	VendorName     string           `json:"vendor_name"`
	BillingName    string           `json:"billing_name"`
	BillingAddress string           `json:"billing_address"`
	Month          string           `json:"month"`
	DisplayMonth   string           `json:"display_month"`
	Columns        ColumnVisibility `json:"columns"`
	Entries        []*Entry         `json:"entries"`

	TotalParcels     int     `json:"total_parcels"`
	CurrentBillTotal float64 `json:"current_bill_total"`
	PendingIncluded  bool    `json:"pending_included"`
	PendingAmount    float64 `json:"pending_amount"`
	GrandTotal       float64 `json:"grand_total"`
	AmountInWords    string  `json:"amount_in_words"`

	GeneratedAt time.Time `json:"generated_at"`
}
