package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kpslogistics/handlers"
)

// CORS middleware
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Actor")

		// Handle preflight request
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type Handlers struct {
	User      *handlers.UserHandler
	Vendor    *handlers.VendorHandler
	Entry     *handlers.EntryHandler
	Invoice   *handlers.InvoiceHandler
	Analytics *handlers.AnalyticsHandler
	Report    *handlers.ReportHandler
	Audit     *handlers.AuditHandler
	Company   *handlers.CompanyHandler
}

func SetupRoutes(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(withCORS)
	r.Use(withMetrics)
	r.Use(handlers.RecoverWrapper)

	r.Handle("/metrics", promhttp.Handler())

	// User routes
	r.Post("/signup", h.User.Signup)
	r.Post("/login", h.User.Login)

	r.Route("/vendors", func(r chi.Router) {
		r.Post("/", h.Vendor.CreateVendor)
		r.Get("/", h.Vendor.ListVendors)
		r.Get("/{id}", h.Vendor.GetVendor)
		r.Put("/{id}", h.Vendor.UpdateVendor)
		r.Delete("/{id}", h.Vendor.DeleteVendor)
		r.Post("/{id}/default", h.Vendor.SetDefaultVendor)
		r.Post("/{id}/balance", h.Vendor.AdjustBalance)
		r.Post("/{id}/payments", h.Vendor.RecordPayment)
	})

	r.Route("/entries", func(r chi.Router) {
		r.Post("/", h.Entry.CreateEntry)
		r.Get("/", h.Entry.ListEntries)
		r.Get("/today", h.Entry.Today)
		r.Get("/{id}", h.Entry.GetEntry)
		r.Put("/{id}", h.Entry.UpdateEntry)
		r.Delete("/{id}", h.Entry.DeleteEntry)
	})

	r.Get("/invoices", h.Invoice.GetInvoice)
	r.Get("/invoices/pdf", h.Invoice.InvoicePDF)
	r.Get("/analytics", h.Analytics.GetAnalytics)
	r.Get("/reports/export", h.Report.Export)

	r.Get("/audit", h.Audit.ListAudit)
	r.Delete("/audit", h.Audit.ClearAudit)

	// Company letterhead
	r.Get("/company", h.Company.GetCompany)
	r.Post("/company", h.Company.SaveCompany)

	return r
}
