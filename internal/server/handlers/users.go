package handlers

import (
	"log/slog"
	"net/http"

	"github.com/paronov/taskmaster/internal/server/auth"
	"github.com/paronov/taskmaster/internal/server/storage"
	"github.com/paronov/taskmaster/pkg/api"
)

// UserHandler serves the authenticated user's profile endpoints.
type UserHandler struct {
	logger  *slog.Logger
	service *auth.Service
	tasks   storage.TaskStorage
}

// NewUserHandler creates a new handler for the profile endpoints.
func NewUserHandler(logger *slog.Logger, service *auth.Service, tasks storage.TaskStorage) *UserHandler {
	return &UserHandler{
		logger:  logger,
		service: service,
		tasks:   tasks,
	}
}

// Me handles GET /api/v1/users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		sendError(h.logger, w, "please authenticate", http.StatusUnauthorized)
		return
	}

	sendJSON(h.logger, w, toAPIUser(user), http.StatusOK)
}

// Update handles PATCH /api/v1/users/me.
// Only name, email, password and age may be updated; anything else in the
// body fails the whole request.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "please authenticate", http.StatusUnauthorized)
		return
	}

	var req api.UpdateUserRequest
	if err := decodeJSON(r, &req, true); err != nil {
		h.logger.WarnContext(ctx, "rejected user update", slog.Any("error", err))
		sendError(h.logger, w, "invalid updates", http.StatusBadRequest)
		return
	}

	user, err := h.service.UpdateProfile(ctx, user, auth.UpdateParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		sendServiceError(h.logger, w, r, err)
		return
	}

	sendJSON(h.logger, w, toAPIUser(user), http.StatusOK)
}

// Delete handles DELETE /api/v1/users/me.
// Deletes the account and cascades to the user's tasks. The two deletes are
// independent writes; a task cleanup failure is logged, not surfaced, since
// the account itself is already gone.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "please authenticate", http.StatusUnauthorized)
		return
	}

	if err := h.service.DeleteAccount(ctx, user); err != nil {
		sendServiceError(h.logger, w, r, err)
		return
	}

	deleted, err := h.tasks.DeleteUserTasks(ctx, user.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to cascade-delete tasks",
			slog.String("user_id", user.ID.Hex()),
			slog.Any("error", err))
	} else {
		h.logger.InfoContext(ctx, "deleted user tasks",
			slog.String("user_id", user.ID.Hex()),
			slog.Int64("tasks_deleted", deleted))
	}

	sendJSON(h.logger, w, toAPIUser(user), http.StatusOK)
}
