package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"universitas/internal/auth/models"
	"universitas/pkg/platform/httputil"
	"universitas/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the interface for registration and session operations.
type Service interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.RegistrationResult, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenPair, error)
	Refresh(ctx context.Context, req *models.RefreshRequest) (*models.AccessTokenResult, error)
	Logout(ctx context.Context, req *models.RefreshRequest, accessToken string) error
	ListMajors() models.Majors
}

// Handler serves registration, login, token refresh, logout and the majors table.
type Handler struct {
	auth   Service
	logger *slog.Logger
}

// New creates a new auth Handler with the given service and logger.
func New(auth Service, logger *slog.Logger) *Handler {
	return &Handler{
		auth:   auth,
		logger: logger,
	}
}

// Register registers the public auth routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/majors/", h.HandleListMajors)
	r.Post("/auth/register/", h.HandleRegister)
	r.Post("/auth/login/", h.HandleLogin)
	r.Post("/auth/token/refresh/", h.HandleRefresh)
	r.Post("/auth/logout/", h.HandleLogout)
}

// HandleRegister implements POST /auth/register/.
//
// Input: { "email", "username", "full_name", "major", "role", "password", "password_confirmation" }
// Output: 201 { "email", "username", "full_name", "major", "role" }
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	// Field checks run inside the registration policy so their order is fixed.
	req, ok := httputil.DecodeJSON[models.RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.auth.Register(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "registration failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, res)
}

// HandleLogin implements POST /auth/login/ and returns an access/refresh pair.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.auth.Login(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "login failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, res)
}

// HandleRefresh implements POST /auth/token/refresh/.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.RefreshRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.auth.Refresh(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "token refresh failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, res)
}

// HandleLogout implements POST /auth/logout/. A bearer access token, when
// present, is revoked along with the refresh token.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.RefreshRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.auth.Logout(ctx, req, bearerToken(r)); err != nil {
		h.logger.WarnContext(ctx, "logout failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusResetContent)
}

// HandleListMajors implements GET /majors/.
func (h *Handler) HandleListMajors(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.auth.ListMajors())
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
