package models

type InvoicePDFData struct {
	Company  *CompanyProfile // letterhead, may be empty
	Invoice  *InvoiceSummary
	Contacts string // formatted mobile numbers
	Rows     []InvoicePDFRow
}

type InvoicePDFRow struct {
	Serial    int
	Date      string
	RRNo      string
	Route     string
	Parcels   int
	Handling  float64
	Railway   float64
	Transport float64
	Total     float64
}
