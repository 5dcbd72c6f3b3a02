package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"kpslogistics/models"
)

// VendorManager is implemented by billing.VendorService.
type VendorManager interface {
	CreateVendor(ctx context.Context, actor string, in models.VendorInput) (*models.Vendor, error)
	UpdateVendor(ctx context.Context, actor string, id int64, in models.VendorInput) (*models.Vendor, error)
	DeleteVendor(ctx context.Context, actor string, id int64) error
	SetDefaultVendor(ctx context.Context, actor string, id int64) (*models.Vendor, error)
	AdjustPendingBalance(ctx context.Context, actor string, id int64, delta float64) (*models.Vendor, error)
	RecordPayment(ctx context.Context, actor string, id int64, amount float64) (*models.Vendor, error)
	FindVendor(ctx context.Context, idOrName string) (*models.Vendor, error)
	ListVendors(ctx context.Context) ([]*models.Vendor, error)
}

type VendorHandler struct {
	Service VendorManager
	Logger  *logrus.Logger
}

func (h *VendorHandler) CreateVendor(w http.ResponseWriter, r *http.Request) {
	var in models.VendorInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.Logger, "CreateVendor", err)
		return
	}
	v, err := h.Service.CreateVendor(r.Context(), actor(r), in)
	if err != nil {
		writeError(w, h.Logger, "CreateVendor", err)
		return
	}
	writeData(w, http.StatusCreated, v)
}

func (h *VendorHandler) ListVendors(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListVendors(r.Context())
	if err != nil {
		writeError(w, h.Logger, "ListVendors", err)
		return
	}
	if list == nil {
		list = []*models.Vendor{}
	}
	writeData(w, http.StatusOK, list)
}

// GetVendor accepts a numeric id or an exact vendor name in the path.
func (h *VendorHandler) GetVendor(w http.ResponseWriter, r *http.Request) {
	v, err := h.Service.FindVendor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "GetVendor", err)
		return
	}
	writeData(w, http.StatusOK, v)
}

func (h *VendorHandler) UpdateVendor(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, h.Logger, "UpdateVendor", err)
		return
	}
	var in models.VendorInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.Logger, "UpdateVendor", err)
		return
	}
	v, err := h.Service.UpdateVendor(r.Context(), actor(r), id, in)
	if err != nil {
		writeError(w, h.Logger, "UpdateVendor", err)
		return
	}
	writeData(w, http.StatusOK, v)
}

func (h *VendorHandler) DeleteVendor(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, h.Logger, "DeleteVendor", err)
		return
	}
	if err := h.Service.DeleteVendor(r.Context(), actor(r), id); err != nil {
		writeError(w, h.Logger, "DeleteVendor", err)
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "vendor deleted"})
}

func (h *VendorHandler) SetDefaultVendor(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, h.Logger, "SetDefaultVendor", err)
		return
	}
	v, err := h.Service.SetDefaultVendor(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, h.Logger, "SetDefaultVendor", err)
		return
	}
	writeData(w, http.StatusOK, v)
}

func (h *VendorHandler) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, h.Logger, "AdjustBalance", err)
		return
	}
	var body struct {
		Delta *float64 `json:"delta"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, h.Logger, "AdjustBalance", err)
		return
	}
	if body.Delta == nil {
		writeError(w, h.Logger, "AdjustBalance", models.NewValidationError("delta", "delta required"))
		return
	}
	v, err := h.Service.AdjustPendingBalance(r.Context(), actor(r), id, *body.Delta)
	if err != nil {
		writeError(w, h.Logger, "AdjustBalance", err)
		return
	}
	writeData(w, http.StatusOK, v)
}

func (h *VendorHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, h.Logger, "RecordPayment", err)
		return
	}
	var body struct {
		Amount float64 `json:"amount"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, h.Logger, "RecordPayment", err)
		return
	}
	v, err := h.Service.RecordPayment(r.Context(), actor(r), id, body.Amount)
	if err != nil {
		writeError(w, h.Logger, "RecordPayment", err)
		return
	}
	writeData(w, http.StatusOK, v)
}
