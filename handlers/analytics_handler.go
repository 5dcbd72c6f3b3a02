package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"kpslogistics/models"
)

// AnalyticsBuilder is implemented by billing.AnalyticsService.
type AnalyticsBuilder interface {
	BuildAnalytics(ctx context.Context, vendorID *int64) (*models.AnalyticsSnapshot, error)
}

type AnalyticsHandler struct {
	Service AnalyticsBuilder
	Logger  *logrus.Logger
}

// GetAnalytics handles ?vendor=<id>; without it every vendor is included.
func (h *AnalyticsHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	vendorID, err := optionalID(r, "vendor")
	if err != nil {
		writeError(w, h.Logger, "GetAnalytics", err)
		return
	}
	snap, err := h.Service.BuildAnalytics(r.Context(), vendorID)
	if err != nil {
		writeError(w, h.Logger, "GetAnalytics", err)
		return
	}
	writeData(w, http.StatusOK, snap)
}
