package utils

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"kpslogistics/models"
	"kpslogistics/repository"
)

//go:embed templates/invoice.html
var templateFS embed.FS

var invoiceTemplate = template.Must(
	template.New("invoice.html").
		Funcs(template.FuncMap{
			"amount":    FormatAmount,
			"labelSpan": labelSpan,
		}).
		ParseFS(templateFS, "templates/invoice.html"),
)

// labelSpan is the number of table columns left of the Total column.
func labelSpan(c models.ColumnVisibility) int {
	span := 4
	for _, shown := range []bool{c.RR, c.Handling, c.Railway, c.Transport} {
		if shown {
			span++
		}
	}
	return span
}

// BuildInvoicePDFData projects an invoice onto printable rows. Rated entries
// show total freight under Handling and transport charges under Transport.
func BuildInvoicePDFData(company *models.CompanyProfile, inv *models.InvoiceSummary) models.InvoicePDFData {
	if company == nil {
		company = &models.CompanyProfile{}
	}
	rows := make([]models.InvoicePDFRow, 0, len(inv.Entries))
	for i, e := range inv.Entries {
		rr := ""
		if e.RRNo != nil {
			rr = *e.RRNo
		}
		rows = append(rows, models.InvoicePDFRow{
			Serial:    i + 1,
			Date:      e.Date.Format("02-Jan-2006"),
			RRNo:      rr,
			Route:     strings.TrimSpace(e.ShipFrom + " - " + e.ShipTo),
			Parcels:   e.Parcels,
			Handling:  e.HandlingAmount(),
			Railway:   e.RailwayAmount(),
			Transport: e.TransportAmount(),
			Total:     e.GrandTotal,
		})
	}
	return models.InvoicePDFData{
		Company:  company,
		Invoice:  inv,
		Contacts: company.Contacts(),
		Rows:     rows,
	}
}

// RenderInvoiceHTML executes the embedded invoice template.
func RenderInvoiceHTML(data models.InvoicePDFData) ([]byte, error) {
	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateInvoicePDF renders the invoice to HTML and prints it to an A4 PDF
// with headless Chrome.
func GenerateInvoicePDF(ctx context.Context, repo *repository.PDFRepository, inv *models.InvoiceSummary) ([]byte, error) {
	company, err := repo.GetCompanyForPDF(ctx)
	if err != nil {
		return nil, err
	}

	html, err := RenderInvoiceHTML(BuildInvoicePDFData(company, inv))
	if err != nil {
		return nil, err
	}

	// Chrome loads the page from a temp file
	tmpHTML := filepath.Join(os.TempDir(), "invoice_"+time.Now().Format("20060102150405.000000")+".html")
	if err := os.WriteFile(tmpHTML, html, 0644); err != nil {
		return nil, err
	}
	defer os.Remove(tmpHTML)

	cctx, cancel := chromedp.NewContext(ctx)
	defer cancel()
	cctx, cancelTimeout := context.WithTimeout(cctx, 30*time.Second)
	defer cancelTimeout()

	var pdfBuf []byte
	err = chromedp.Run(cctx,
		chromedp.Navigate("file://"+tmpHTML),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).  // A4 width
				WithPaperHeight(11.7). // A4 height
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print invoice pdf: %w", err)
	}
	return pdfBuf, nil
}

// InvoicePDFFilename names a saved invoice PDF.
func InvoicePDFFilename(inv *models.InvoiceSummary) string {
	return fmt.Sprintf("invoice_%d_%s_%s.pdf", inv.VendorID, inv.Month, inv.InvoiceID)
}
