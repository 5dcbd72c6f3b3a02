package handlers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"kpslogistics/config"
	"kpslogistics/models"
	"kpslogistics/repository"
	"kpslogistics/utils"
)

// InvoiceBuilder is implemented by billing.InvoiceService.
type InvoiceBuilder interface {
	BuildInvoice(ctx context.Context, vendorID int64, month string, includePending bool) (*models.InvoiceSummary, error)
}

// PDFUploader is implemented by utils.R2Uploader.
type PDFUploader interface {
	Upload(ctx context.Context, fileBytes []byte, filename string) (string, error)
}

type PDFRenderer func(ctx context.Context, repo *repository.PDFRepository, inv *models.InvoiceSummary) ([]byte, error)

type InvoiceHandler struct {
	Service  InvoiceBuilder
	PDFRepo  *repository.PDFRepository
	Render   PDFRenderer // defaults to utils.GenerateInvoicePDF
	Uploader PDFUploader // optional
	SavePath string
	Logger   *logrus.Logger
}

type invoicePDFResult struct {
	InvoiceID string `json:"invoice_id"`
	InvoiceNo string `json:"invoice_no"`
	File      string `json:"file"`
	URL       string `json:"url,omitempty"`
}

// GetInvoice handles ?vendor=<id>&month=YYYY-MM&include_pending=true.
func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.build(w, r, "GetInvoice")
	if !ok {
		return
	}
	writeData(w, http.StatusOK, inv)
}

// InvoicePDF renders the invoice to PDF, saves it under SavePath and, when
// an uploader is configured, publishes it to object storage.
func (h *InvoiceHandler) InvoicePDF(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.build(w, r, "InvoicePDF")
	if !ok {
		return
	}

	saveDir := h.SavePath
	if saveDir == "" {
		saveDir = "./pdfs"
	}
	if err := os.MkdirAll(saveDir, os.ModePerm); err != nil {
		writeError(w, h.Logger, "InvoicePDF", err)
		return
	}

	render := h.Render
	if render == nil {
		render = utils.GenerateInvoicePDF
	}
	pdfBytes, err := render(r.Context(), h.PDFRepo, inv)
	if err != nil {
		writeError(w, h.Logger, "InvoicePDF", err)
		return
	}

	filename := utils.InvoicePDFFilename(inv)
	if err := os.WriteFile(filepath.Join(saveDir, filename), pdfBytes, 0644); err != nil {
		writeError(w, h.Logger, "InvoicePDF", err)
		return
	}

	result := invoicePDFResult{InvoiceID: inv.InvoiceID, InvoiceNo: inv.InvoiceNo, File: filename}
	if h.Uploader != nil {
		url, err := h.Uploader.Upload(r.Context(), pdfBytes, filename)
		if err != nil {
			// the local copy is still usable
			config.LogError(h.Logger, "handlers", "InvoicePDF", "r2 upload", filename, err)
		} else {
			result.URL = url
		}
	}
	writeData(w, http.StatusOK, result)
}

func (h *InvoiceHandler) build(w http.ResponseWriter, r *http.Request, funcName string) (*models.InvoiceSummary, bool) {
	q := r.URL.Query()
	vendorID, err := strconv.ParseInt(strings.TrimSpace(q.Get("vendor")), 10, 64)
	if err != nil || vendorID <= 0 {
		writeError(w, h.Logger, funcName, models.NewValidationError("vendor", "vendor required"))
		return nil, false
	}
	includePending, _ := strconv.ParseBool(q.Get("include_pending"))

	inv, err := h.Service.BuildInvoice(r.Context(), vendorID, q.Get("month"), includePending)
	if err != nil {
		writeError(w, h.Logger, funcName, err)
		return nil, false
	}
	return inv, true
}
