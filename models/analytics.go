package models

type AnalyticsSnapshot struct {
	VendorID *int64 `json:"vendor_id,omitempty"`
	Month    string `json:"month"`

	Revenue       float64 `json:"revenue"`
	Parcels       int     `json:"parcels"`
	AvgPerParcel  float64 `json:"avg_per_parcel"`
	ActiveVendors int     `json:"active_vendors"`

	Trend        []MonthTotal  `json:"trend"`
	VendorShare  []VendorTotal `json:"vendor_share"`
	Destinations []GroupCount  `json:"destinations"`
	Daily        []DayParcels  `json:"daily"`
}

type MonthTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

type VendorTotal struct {
	VendorID int64   `json:"vendor_id"`
	Name     string  `json:"name"`
	Total    float64 `json:"total"`
}

type GroupCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type DayParcels struct {
	Day     int `json:"day"`
	Parcels int `json:"parcels"`
}
