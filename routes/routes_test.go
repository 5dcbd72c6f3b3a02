package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kpslogistics/handlers"
	"kpslogistics/models"
)

type fakeAnalytics struct{}

func (fakeAnalytics) BuildAnalytics(_ context.Context, vendorID *int64) (*models.AnalyticsSnapshot, error) {
	return &models.AnalyticsSnapshot{VendorID: vendorID, Month: "2024-04"}, nil
}

func testRouter() http.Handler {
	return SetupRoutes(Handlers{
		User:      handlers.NewUserHandler(nil, nil, nil),
		Vendor:    &handlers.VendorHandler{},
		Entry:     &handlers.EntryHandler{},
		Invoice:   &handlers.InvoiceHandler{},
		Analytics: &handlers.AnalyticsHandler{Service: fakeAnalytics{}},
		Report:    &handlers.ReportHandler{},
		Audit:     &handlers.AuditHandler{},
		Company:   &handlers.CompanyHandler{},
	})
}

func TestCORSPreflight(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/vendors", nil)
	testRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-Actor")
}

func TestMetricsRecordRoutePattern(t *testing.T) {
	router := testRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analytics?vendor=3", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analytics?vendor=abc", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `kps_http_requests_total{method="GET",route="/analytics",status="200"}`), body)
	assert.Contains(t, body, `route="/analytics",status="400"`)
	assert.Contains(t, body, "kps_http_inflight_requests")
}

func TestPanicsBecome500(t *testing.T) {
	// a handler without a service panics on nil dereference
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/vendors", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
