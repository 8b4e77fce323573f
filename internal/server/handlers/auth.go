package handlers

import (
	"log/slog"
	"net/http"

	"github.com/paronov/taskmaster/internal/server/auth"
	"github.com/paronov/taskmaster/pkg/api"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	logger  *slog.Logger
	service *auth.Service
}

// NewAuthHandler creates a new handler for the auth endpoints.
func NewAuthHandler(logger *slog.Logger, service *auth.Service) *AuthHandler {
	return &AuthHandler{
		logger:  logger,
		service: service,
	}
}

// Register handles POST /api/v1/users.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.service.Register(ctx, req.Name, req.Email, req.Password, req.Age)
	if err != nil {
		sendServiceError(h.logger, w, r, err)
		return
	}

	resp := api.AuthResponse{
		User:  toAPIUser(user),
		Token: token,
	}
	sendJSON(h.logger, w, resp, http.StatusCreated)
}

// Login handles POST /api/v1/users/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		sendServiceError(h.logger, w, r, err)
		return
	}

	resp := api.AuthResponse{
		User:  toAPIUser(user),
		Token: token,
	}
	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Logout handles POST /api/v1/users/logout.
// Closes only the session whose token authenticated this request.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	token, okToken := TokenFromContext(ctx)
	if !ok || !okToken {
		sendError(h.logger, w, "please authenticate", http.StatusUnauthorized)
		return
	}

	user, err := h.service.Logout(ctx, user, token)
	if err != nil {
		sendServiceError(h.logger, w, r, err)
		return
	}

	sendJSON(h.logger, w, toAPIUser(user), http.StatusOK)
}

// LogoutAll handles POST /api/v1/users/logoutAll.
// Revokes every outstanding session of the user.
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "please authenticate", http.StatusUnauthorized)
		return
	}

	user, err := h.service.LogoutAll(ctx, user)
	if err != nil {
		sendServiceError(h.logger, w, r, err)
		return
	}

	sendJSON(h.logger, w, toAPIUser(user), http.StatusOK)
}
