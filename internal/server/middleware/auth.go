package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/paronov/taskmaster/internal/models"
	"github.com/paronov/taskmaster/internal/server/handlers"
)

// Authenticator resolves a raw bearer token to a user. Implemented by the
// auth service; any failure is a single generic error.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*models.User, error)
}

// AuthMiddleware gates protected routes. It extracts the bearer token,
// resolves it through the session manager (signature, expiry and revocation
// all checked there) and stores the user and token in the request context.
// Every failure gets the same 401 body.
func AuthMiddleware(logger *slog.Logger, authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("missing Authorization header")
				unauthorized(w)
				return
			}

			// Expected format: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("invalid Authorization header format")
				unauthorized(w)
				return
			}
			token := parts[1]

			user, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				// Cause already logged by the service.
				unauthorized(w)
				return
			}

			ctx := handlers.ContextWithSession(r.Context(), user, token)
			logger.Debug("user authenticated", "user_id", user.ID.Hex())

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized","message":"please authenticate"}`))
}
