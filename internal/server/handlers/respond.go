package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/paronov/taskmaster/internal/models"
	"github.com/paronov/taskmaster/internal/server/auth"
	"github.com/paronov/taskmaster/internal/server/storage"
	"github.com/paronov/taskmaster/pkg/api"
)

// sendJSON writes a JSON response
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError writes a JSON error response
func sendError(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	sendJSON(logger, w, resp, statusCode)
}

// sendServiceError maps a service failure to an HTTP response. Validation
// failures carry their per-field reasons; every authentication failure is
// the same generic 401 body; anything unrecognized is a generic 500 so
// storage details never reach the client.
func sendServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var vErr *auth.ValidationError
	switch {
	case errors.As(err, &vErr):
		sendJSON(logger, w, api.ErrorResponse{
			Error:   http.StatusText(http.StatusBadRequest),
			Message: "validation failed",
			Fields:  vErr.Violations,
		}, http.StatusBadRequest)
	case errors.Is(err, auth.ErrAuthentication):
		sendError(logger, w, "please authenticate", http.StatusUnauthorized)
	case errors.Is(err, storage.ErrUserNotFound), errors.Is(err, storage.ErrTaskNotFound):
		sendError(logger, w, "not found", http.StatusNotFound)
	default:
		logger.ErrorContext(r.Context(), "request failed", slog.Any("error", err))
		sendError(logger, w, "internal server error", http.StatusInternalServerError)
	}
}

// toAPIUser builds the sanitized user projection. The password hash and the
// session list never cross this boundary.
func toAPIUser(u *models.User) api.User {
	return api.User{
		ID:        u.ID.Hex(),
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// toAPITask builds the wire representation of a task.
func toAPITask(t *models.Task) api.Task {
	return api.Task{
		ID:          t.ID.Hex(),
		Description: t.Description,
		Completed:   t.Completed,
		Owner:       t.Owner.Hex(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
