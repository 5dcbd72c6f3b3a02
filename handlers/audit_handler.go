package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"kpslogistics/models"
)

// AuditManager is implemented by billing.AuditService.
type AuditManager interface {
	ListAudit(ctx context.Context, limit int) ([]*models.AuditLog, error)
	ClearAuditLogs(ctx context.Context, actor string, days int) (int64, error)
}

type AuditHandler struct {
	Service AuditManager
	Logger  *logrus.Logger
}

func (h *AuditHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	logs, err := h.Service.ListAudit(r.Context(), limit)
	if err != nil {
		writeError(w, h.Logger, "ListAudit", err)
		return
	}
	if logs == nil {
		logs = []*models.AuditLog{}
	}
	writeData(w, http.StatusOK, logs)
}

// ClearAudit deletes records older than ?days= (default 7).
func (h *AuditHandler) ClearAudit(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, h.Logger, "ClearAudit", models.NewValidationError("days", "must be a positive number"))
			return
		}
		days = n
	}
	n, err := h.Service.ClearAuditLogs(r.Context(), actor(r), days)
	if err != nil {
		writeError(w, h.Logger, "ClearAudit", err)
		return
	}
	writeData(w, http.StatusOK, map[string]int64{"deleted": n})
}
