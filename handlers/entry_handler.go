package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"kpslogistics/models"
)

// EntryManager is implemented by billing.EntryService.
type EntryManager interface {
	CreateEntry(ctx context.Context, actor string, in models.EntryInput) (*models.Entry, error)
	UpdateEntry(ctx context.Context, actor string, id int64, in models.EntryInput) (*models.Entry, error)
	DeleteEntry(ctx context.Context, actor string, id int64) error
	GetEntry(ctx context.Context, id int64) (*models.Entry, error)
	ListEntries(ctx context.Context, month string, vendorID *int64) ([]*models.Entry, error)
	DaySummary(ctx context.Context, day time.Time) (*models.DaySummary, error)
}

type EntryHandler struct {
	Service EntryManager
	Logger  *logrus.Logger
	Now     func() time.Time
}

func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var in models.EntryInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.Logger, "CreateEntry", err)
		return
	}
	e, err := h.Service.CreateEntry(r.Context(), actor(r), in)
	if err != nil {
		writeError(w, h.Logger, "CreateEntry", err)
		return
	}
	writeData(w, http.StatusCreated, e)
}

// ListEntries filters by ?month=YYYY-MM and ?vendor=<id>.
func (h *EntryHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	vendorID, err := optionalID(r, "vendor")
	if err != nil {
		writeError(w, h.Logger, "ListEntries", err)
		return
	}
	list, err := h.Service.ListEntries(r.Context(), r.URL.Query().Get("month"), vendorID)
	if err != nil {
		writeError(w, h.Logger, "ListEntries", err)
		return
	}
	if list == nil {
		list = []*models.Entry{}
	}
	writeData(w, http.StatusOK, list)
}

func (h *EntryHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, h.Logger, "GetEntry", err)
		return
	}
	e, err := h.Service.GetEntry(r.Context(), id)
	if err != nil {
		writeError(w, h.Logger, "GetEntry", err)
		return
	}
	writeData(w, http.StatusOK, e)
}

func (h *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, h.Logger, "UpdateEntry", err)
		return
	}
	var in models.EntryInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.Logger, "UpdateEntry", err)
		return
	}
	e, err := h.Service.UpdateEntry(r.Context(), actor(r), id, in)
	if err != nil {
		writeError(w, h.Logger, "UpdateEntry", err)
		return
	}
	writeData(w, http.StatusOK, e)
}

func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, h.Logger, "DeleteEntry", err)
		return
	}
	if err := h.Service.DeleteEntry(r.Context(), actor(r), id); err != nil {
		writeError(w, h.Logger, "DeleteEntry", err)
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "entry deleted"})
}

// Today returns the running totals for the current day, or ?date=YYYY-MM-DD.
func (h *EntryHandler) Today(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if h.Now != nil {
		day = h.Now()
	}
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, h.Logger, "Today", models.NewValidationError("date", "expected YYYY-MM-DD"))
			return
		}
		day = parsed
	}
	summary, err := h.Service.DaySummary(r.Context(), day)
	if err != nil {
		writeError(w, h.Logger, "Today", err)
		return
	}
	writeData(w, http.StatusOK, summary)
}
