package handlers

import (
	"context"

	"github.com/paronov/taskmaster/internal/models"
)

type contextKey string

const (
	userContextKey  contextKey = "user"
	tokenContextKey contextKey = "token"
)

// ContextWithSession stores the authenticated user and the bearer token
// that authenticated it. Set by the auth middleware, read by handlers.
func ContextWithSession(ctx context.Context, user *models.User, token string) context.Context {
	ctx = context.WithValue(ctx, userContextKey, user)
	return context.WithValue(ctx, tokenContextKey, token)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

// TokenFromContext returns the bearer token of the current request, if any.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey).(string)
	return token, ok
}
