package handlers

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"kpslogistics/models"
	"kpslogistics/repository"
)

type CompanyHandler struct {
	Repo   repository.CompanyRepository
	Logger *logrus.Logger
}

func (h *CompanyHandler) SaveCompany(w http.ResponseWriter, r *http.Request) {
	var company models.CompanyProfile
	if err := decodeJSON(r, &company); err != nil {
		writeError(w, h.Logger, "SaveCompany", err)
		return
	}
	if strings.TrimSpace(company.CompanyName) == "" {
		writeError(w, h.Logger, "SaveCompany", models.NewValidationError("company_name", "company name required"))
		return
	}

	if err := h.Repo.SaveCompany(r.Context(), &company); err != nil {
		writeError(w, h.Logger, "SaveCompany", err)
		return
	}
	writeData(w, http.StatusCreated, company)
}

func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	company, err := h.Repo.GetCompany(r.Context())
	if err != nil {
		writeError(w, h.Logger, "GetCompany", err)
		return
	}
	if company == nil {
		writeJSON(w, http.StatusNotFound, ApiResponse{Success: false, Message: "Company details not found"})
		return
	}
	writeData(w, http.StatusOK, company)
}
