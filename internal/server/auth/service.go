package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/paronov/taskmaster/internal/models"
	"github.com/paronov/taskmaster/internal/server/storage"
	"github.com/paronov/taskmaster/internal/validation"
)

// Service is the session manager: it verifies credentials, issues tokens,
// maintains the per-user session list and authenticates bearer tokens.
// It keeps no in-memory session state; everything lives on the user
// document and is edited through the storage layer's atomic operations.
type Service struct {
	logger     *slog.Logger
	users      storage.UserStorage
	codec      *TokenCodec
	bcryptCost int
	dummyHash  string
}

// NewService creates a session manager.
// A zero bcryptCost falls back to DefaultBcryptCost.
func NewService(logger *slog.Logger, users storage.UserStorage, codec *TokenCodec, bcryptCost int) (*Service, error) {
	if bcryptCost == 0 {
		bcryptCost = DefaultBcryptCost
	}

	// Hash compared against when the email is unknown, so the unknown-email
	// and wrong-password paths cost the same.
	dummyHash, err := HashPassword("taskmaster.dummy.credential", bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &Service{
		logger:     logger,
		users:      users,
		codec:      codec,
		bcryptCost: bcryptCost,
		dummyHash:  dummyHash,
	}, nil
}

// Register validates the fields, creates the user and opens the first
// session. The user document is inserted once with the token already in its
// session list, so a registered user without a recorded token is never
// observable and a duplicate-email failure writes nothing.
func (s *Service) Register(ctx context.Context, name, email, password string, age int64) (*models.User, string, error) {
	name = validation.NormalizeName(name)
	email = validation.NormalizeEmail(email)

	var violations []string
	if err := validation.ValidateName(name); err != nil {
		violations = append(violations, err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		violations = append(violations, err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		violations = append(violations, err.Error())
	}
	if err := validation.ValidateAge(age); err != nil {
		violations = append(violations, err.Error())
	}
	if len(violations) > 0 {
		return nil, "", &ValidationError{Violations: violations}
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	id := primitive.NewObjectID()
	token, err := s.codec.Issue(id.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:        id,
		Name:      name,
		Email:     email,
		Password:  hash,
		Age:       age,
		Sessions:  []string{token},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return nil, "", &ValidationError{Violations: []string{"email is already registered"}}
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", id.Hex()))

	return user, token, nil
}

// Login verifies the credentials and opens a new session. Each login yields
// an independent token; sessions from other devices stay valid. Unknown
// email and wrong password both return ErrAuthentication.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = validation.NormalizeEmail(email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// Burn a bcrypt compare anyway to keep the latency of the
			// unknown-email path identical to a password mismatch.
			_ = VerifyPassword(password, s.dummyHash)
			s.logger.WarnContext(ctx, "login failed: unknown email")
			return nil, "", ErrAuthentication
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := VerifyPassword(password, user.Password); err != nil {
		s.logger.WarnContext(ctx, "login failed: password mismatch",
			slog.String("user_id", user.ID.Hex()))
		return nil, "", ErrAuthentication
	}

	token, err := s.codec.Issue(user.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	if err := s.users.PushSession(ctx, user.ID, token); err != nil {
		return nil, "", fmt.Errorf("failed to record session: %w", err)
	}
	user.Sessions = append(user.Sessions, token)

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID.Hex()),
		slog.Int("sessions", len(user.Sessions)))

	return user, token, nil
}

// Authenticate resolves a raw bearer token to its user. The token must
// carry a valid unexpired signature and must still be present in the
// subject's session list; any failure collapses to ErrAuthentication.
func (s *Service) Authenticate(ctx context.Context, rawToken string) (*models.User, error) {
	claims, err := s.codec.Verify(rawToken)
	if err != nil {
		s.logger.WarnContext(ctx, "authentication failed: bad token", slog.Any("error", err))
		return nil, ErrAuthentication
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		s.logger.WarnContext(ctx, "authentication failed: bad subject", slog.Any("error", err))
		return nil, ErrAuthentication
	}

	user, err := s.users.GetUserBySession(ctx, id, rawToken)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.logger.WarnContext(ctx, "authentication failed: session revoked or user gone",
				slog.String("user_id", claims.UserID))
			return nil, ErrAuthentication
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	return user, nil
}

// Logout removes exactly the given token from the user's session list.
// Removing a token that is already gone is a no-op success.
func (s *Service) Logout(ctx context.Context, user *models.User, token string) (*models.User, error) {
	if err := s.users.PullSession(ctx, user.ID, token); err != nil {
		return nil, fmt.Errorf("failed to remove session: %w", err)
	}

	remaining := user.Sessions[:0:0]
	for _, t := range user.Sessions {
		if t != token {
			remaining = append(remaining, t)
		}
	}
	user.Sessions = remaining

	s.logger.InfoContext(ctx, "session closed",
		slog.String("user_id", user.ID.Hex()),
		slog.Int("sessions", len(user.Sessions)))

	return user, nil
}

// LogoutAll clears the user's session list, revoking every outstanding
// token at once.
func (s *Service) LogoutAll(ctx context.Context, user *models.User) (*models.User, error) {
	if err := s.users.ClearSessions(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to clear sessions: %w", err)
	}
	user.Sessions = nil

	s.logger.InfoContext(ctx, "all sessions closed",
		slog.String("user_id", user.ID.Hex()))

	return user, nil
}

// UpdateParams carries the profile fields of an update request. Nil fields
// are left unchanged.
type UpdateParams struct {
	Name     *string
	Email    *string
	Password *string
	Age      *int64
}

// UpdateProfile validates and applies a partial profile update. A password
// change goes through the hasher again; a changed email must stay unique.
func (s *Service) UpdateProfile(ctx context.Context, user *models.User, params UpdateParams) (*models.User, error) {
	var violations []string

	if params.Name != nil {
		name := validation.NormalizeName(*params.Name)
		if err := validation.ValidateName(name); err != nil {
			violations = append(violations, err.Error())
		} else {
			user.Name = name
		}
	}
	if params.Email != nil {
		email := validation.NormalizeEmail(*params.Email)
		if err := validation.ValidateEmail(email); err != nil {
			violations = append(violations, err.Error())
		} else {
			user.Email = email
		}
	}
	if params.Password != nil {
		if err := validation.ValidatePassword(*params.Password); err != nil {
			violations = append(violations, err.Error())
		} else {
			hash, err := HashPassword(*params.Password, s.bcryptCost)
			if err != nil {
				return nil, err
			}
			user.Password = hash
		}
	}
	if params.Age != nil {
		if err := validation.ValidateAge(*params.Age); err != nil {
			violations = append(violations, err.Error())
		} else {
			user.Age = *params.Age
		}
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	user.UpdatedAt = time.Now()
	if err := s.users.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return nil, &ValidationError{Violations: []string{"email is already registered"}}
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.InfoContext(ctx, "profile updated", slog.String("user_id", user.ID.Hex()))

	return user, nil
}

// DeleteAccount deletes the user record. Existing tokens become unusable
// immediately because Authenticate no longer finds the user.
func (s *Service) DeleteAccount(ctx context.Context, user *models.User) error {
	if err := s.users.DeleteUser(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.InfoContext(ctx, "account deleted", slog.String("user_id", user.ID.Hex()))

	return nil
}
