package storage

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/paronov/taskmaster/internal/models"
)

// UserStorage defines the interface for user persistence.
//
// Session-list edits are expressed as dedicated atomic operations rather
// than read-modify-write of the whole document, so concurrent logins and
// logouts on the same user cannot clobber each other's tokens.
type UserStorage interface {
	// CreateUser inserts a new user document.
	// Returns ErrEmailTaken if the email is already registered.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by normalized email.
	// Returns ErrUserNotFound if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by id.
	// Returns ErrUserNotFound if no such user exists.
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)

	// GetUserBySession retrieves the user with the given id whose session
	// list still contains token. A single query performs both the lookup
	// and the revocation check. Returns ErrUserNotFound when either fails.
	GetUserBySession(ctx context.Context, id primitive.ObjectID, token string) (*models.User, error)

	// UpdateUser overwrites the mutable profile fields (name, email,
	// password, age) of an existing user. The session list is not touched.
	// Returns ErrUserNotFound if the user doesn't exist and ErrEmailTaken
	// if the new email belongs to another user.
	UpdateUser(ctx context.Context, user *models.User) error

	// DeleteUser deletes a user by id.
	// Returns ErrUserNotFound if the user doesn't exist.
	DeleteUser(ctx context.Context, id primitive.ObjectID) error

	// PushSession atomically appends token to the user's session list.
	PushSession(ctx context.Context, id primitive.ObjectID, token string) error

	// PullSession atomically removes token from the user's session list.
	// Removing an absent token is a no-op, not an error.
	PullSession(ctx context.Context, id primitive.ObjectID, token string) error

	// ClearSessions atomically empties the user's session list, revoking
	// every outstanding token.
	ClearSessions(ctx context.Context, id primitive.ObjectID) error
}
