package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"kpslogistics/config"
	"kpslogistics/models"
	"kpslogistics/repository"
)

// AuditRecorder is satisfied by billing.AuditSink implementations.
type AuditRecorder interface {
	Record(ctx context.Context, actor, action, detail string) error
}

type UserHandler struct {
	Repo     repository.UserRepository
	Audit    AuditRecorder
	Logger   *logrus.Logger
	validate *validator.Validate
}

func NewUserHandler(repo repository.UserRepository, audit AuditRecorder, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Repo: repo, Audit: audit, Logger: logger, validate: validator.New()}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := decodeJSON(r, &creds); err != nil {
		writeError(w, h.Logger, "Signup", err)
		return
	}

	user := models.AppUser{
		Username: strings.TrimSpace(creds.Username),
		Password: creds.Password,
		IsActive: true,
	}
	if err := h.validator().Struct(user); err != nil {
		writeBadRequest(w, "username must be 3-150 characters and password at least 6")
		return
	}

	if err := h.Repo.CreateUser(r.Context(), &user); err != nil {
		writeError(w, h.Logger, "Signup", err)
		return
	}
	user.Password = "" // hide password hash

	if h.Audit != nil {
		if err := h.Audit.Record(r.Context(), actor(r), models.ActionAddUser, fmt.Sprintf("user %s created", user.Username)); err != nil {
			h.logger().WithError(err).Warn("audit record failed")
		}
	}
	writeJSON(w, http.StatusCreated, ApiResponse{
		Success: true,
		Message: "User signed up successfully",
		Data:    user,
	})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := decodeJSON(r, &creds); err != nil {
		writeError(w, h.Logger, "Login", err)
		return
	}

	user, err := h.Repo.GetUserByUsername(r.Context(), strings.TrimSpace(creds.Username))
	if err != nil {
		writeError(w, h.Logger, "Login", err)
		return
	}
	if user == nil {
		writeError(w, h.Logger, "Login", models.ErrInvalidCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		writeError(w, h.Logger, "Login", models.ErrInvalidCredentials)
		return
	}
	if !user.IsActive {
		writeError(w, h.Logger, "Login", models.ErrUserInactive)
		return
	}

	user.Password = "" // hide password hash
	writeJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Message: "Login successful",
		Data:    user,
	})
}

func (h *UserHandler) validator() *validator.Validate {
	if h.validate == nil {
		h.validate = validator.New()
	}
	return h.validate
}

func (h *UserHandler) logger() *logrus.Logger {
	if h.Logger == nil {
		return config.GetLogger()
	}
	return h.Logger
}
