package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"kpslogistics/models"
	"kpslogistics/utils"
)

type EntryLister interface {
	ListEntries(ctx context.Context, month string, vendorID *int64) ([]*models.Entry, error)
}

type VendorLister interface {
	ListVendors(ctx context.Context) ([]*models.Vendor, error)
}

type ReportHandler struct {
	Entries EntryLister
	Vendors VendorLister
	Logger  *logrus.Logger
}

// Export streams a month's entries as ?format=csv (default) or xlsx.
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	month := strings.TrimSpace(q.Get("month"))
	if month == "" {
		writeError(w, h.Logger, "Export", models.NewValidationError("month", "expected YYYY-MM"))
		return
	}
	vendorID, err := optionalID(r, "vendor")
	if err != nil {
		writeError(w, h.Logger, "Export", err)
		return
	}
	format := strings.ToLower(strings.TrimSpace(q.Get("format")))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		writeError(w, h.Logger, "Export", models.NewValidationError("format", "expected csv or xlsx"))
		return
	}

	entries, err := h.Entries.ListEntries(r.Context(), month, vendorID)
	if err != nil {
		writeError(w, h.Logger, "Export", err)
		return
	}
	vendors, err := h.Vendors.ListVendors(r.Context())
	if err != nil {
		writeError(w, h.Logger, "Export", err)
		return
	}
	names := make(map[int64]string, len(vendors))
	for _, v := range vendors {
		names[v.ID] = v.Name
	}

	// buffer first so a write error can still become a JSON error response
	var buf bytes.Buffer
	contentType := "text/csv"
	if format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = utils.WriteEntriesXLSX(&buf, entries, names)
	} else {
		err = utils.WriteEntriesCSV(&buf, entries, names)
	}
	if err != nil {
		writeError(w, h.Logger, "Export", err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=entries_%s.%s", month, format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
