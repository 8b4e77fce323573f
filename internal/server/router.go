package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/paronov/taskmaster/internal/server/handlers"
	"github.com/paronov/taskmaster/internal/server/middleware"
)

// Handlers bundles the route handlers the router wires up.
type Handlers struct {
	Auth   *handlers.AuthHandler
	Users  *handlers.UserHandler
	Tasks  *handlers.TaskHandler
	Health *handlers.HealthHandler
}

// NewRouter builds the HTTP handler tree: public register/login/health,
// everything else behind the bearer-token gate, the whole mux wrapped in
// recovery, request-id, logging and rate limiting.
func NewRouter(logger *slog.Logger, h Handlers, authn middleware.Authenticator, rateLimit int, rateWindow time.Duration) http.Handler {
	mux := http.NewServeMux()

	protected := middleware.AuthMiddleware(logger, authn)

	mux.HandleFunc("POST /api/v1/users", h.Auth.Register)
	mux.HandleFunc("POST /api/v1/users/login", h.Auth.Login)
	mux.HandleFunc("GET /api/v1/health", h.Health.Health)

	mux.Handle("POST /api/v1/users/logout", protected(http.HandlerFunc(h.Auth.Logout)))
	mux.Handle("POST /api/v1/users/logoutAll", protected(http.HandlerFunc(h.Auth.LogoutAll)))
	mux.Handle("GET /api/v1/users/me", protected(http.HandlerFunc(h.Users.Me)))
	mux.Handle("PATCH /api/v1/users/me", protected(http.HandlerFunc(h.Users.Update)))
	mux.Handle("DELETE /api/v1/users/me", protected(http.HandlerFunc(h.Users.Delete)))

	mux.Handle("POST /api/v1/tasks", protected(http.HandlerFunc(h.Tasks.Create)))
	mux.Handle("GET /api/v1/tasks", protected(http.HandlerFunc(h.Tasks.List)))
	mux.Handle("GET /api/v1/tasks/{id}", protected(http.HandlerFunc(h.Tasks.Get)))
	mux.Handle("PATCH /api/v1/tasks/{id}", protected(http.HandlerFunc(h.Tasks.Update)))
	mux.Handle("DELETE /api/v1/tasks/{id}", protected(http.HandlerFunc(h.Tasks.Delete)))

	var handler http.Handler = mux
	handler = middleware.RateLimitMiddleware(rateLimit, rateWindow, logger)(handler)
	handler = middleware.LoggingWithSkip(logger, []string{"/api/v1/health"})(handler)
	handler = middleware.RequestIDMiddleware()(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	return handler
}
