package utils

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"kpslogistics/models"
)

const exportSheet = "Entries"

var ExportHeader = []string{
	"Date", "Bill No", "RR No", "Vendor", "From", "To",
	"Parcels", "Handling", "Railway", "Transport", "Total",
}

// ExportRow flattens one entry into export columns. vendorNames maps vendor
// id to display name; unknown ids print as "Vendor #<id>".
func ExportRow(e *models.Entry, vendorNames map[int64]string) []interface{} {
	name, ok := vendorNames[e.VendorID]
	if !ok {
		name = fmt.Sprintf("Vendor #%d", e.VendorID)
	}
	return []interface{}{
		e.Date.Format("2006-01-02"),
		deref(e.InvoiceRef),
		deref(e.RRNo),
		name,
		e.ShipFrom,
		e.ShipTo,
		e.Parcels,
		e.HandlingAmount(),
		e.RailwayAmount(),
		e.TransportAmount(),
		e.GrandTotal,
	}
}

func WriteEntriesCSV(w io.Writer, entries []*models.Entry, vendorNames map[int64]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}
	for _, e := range entries {
		row := ExportRow(e, vendorNames)
		record := make([]string, len(row))
		for i, v := range row {
			switch x := v.(type) {
			case float64:
				record[i] = FormatAmount(x)
			default:
				record[i] = fmt.Sprint(x)
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteEntriesXLSX(w io.Writer, entries []*models.Entry, vendorNames map[int64]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}

	header := make([]interface{}, len(ExportHeader))
	for i, h := range ExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return err
	}

	for i, e := range entries {
		row := ExportRow(e, vendorNames)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
