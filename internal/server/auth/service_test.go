package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/paronov/taskmaster/internal/models"
	"github.com/paronov/taskmaster/internal/server/storage"
)

// mockUserStorage is a map-backed implementation of storage.UserStorage
// mirroring the document store's behavior, including the atomic session
// edits and the combined id+token session lookup.
type mockUserStorage struct {
	users     map[primitive.ObjectID]*models.User
	createErr error
	getErr    error
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{users: make(map[primitive.ObjectID]*models.User)}
}

func (m *mockUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return storage.ErrEmailTaken
		}
	}
	cp := *user
	cp.Sessions = append([]string(nil), user.Sessions...)
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			cp.Sessions = append([]string(nil), u.Sessions...)
			return &cp, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	cp := *u
	cp.Sessions = append([]string(nil), u.Sessions...)
	return &cp, nil
}

func (m *mockUserStorage) GetUserBySession(ctx context.Context, id primitive.ObjectID, token string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok || !u.HasSession(token) {
		return nil, storage.ErrUserNotFound
	}
	cp := *u
	cp.Sessions = append([]string(nil), u.Sessions...)
	return &cp, nil
}

func (m *mockUserStorage) UpdateUser(ctx context.Context, user *models.User) error {
	u, ok := m.users[user.ID]
	if !ok {
		return storage.ErrUserNotFound
	}
	for id, other := range m.users {
		if id != user.ID && other.Email == user.Email {
			return storage.ErrEmailTaken
		}
	}
	u.Name = user.Name
	u.Email = user.Email
	u.Password = user.Password
	u.Age = user.Age
	u.UpdatedAt = user.UpdatedAt
	return nil
}

func (m *mockUserStorage) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := m.users[id]; !ok {
		return storage.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserStorage) PushSession(ctx context.Context, id primitive.ObjectID, token string) error {
	u, ok := m.users[id]
	if !ok {
		return storage.ErrUserNotFound
	}
	u.Sessions = append(u.Sessions, token)
	return nil
}

func (m *mockUserStorage) PullSession(ctx context.Context, id primitive.ObjectID, token string) error {
	u, ok := m.users[id]
	if !ok {
		return storage.ErrUserNotFound
	}
	remaining := u.Sessions[:0:0]
	for _, t := range u.Sessions {
		if t != token {
			remaining = append(remaining, t)
		}
	}
	u.Sessions = remaining
	return nil
}

func (m *mockUserStorage) ClearSessions(ctx context.Context, id primitive.ObjectID) error {
	u, ok := m.users[id]
	if !ok {
		return storage.ErrUserNotFound
	}
	u.Sessions = []string{}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestService(t *testing.T, users storage.UserStorage) *Service {
	t.Helper()
	codec := NewTokenCodec([]byte("test-secret"), time.Hour)
	svc, err := NewService(testLogger(), users, codec, bcryptMinCost())
	require.NoError(t, err)
	return svc
}

// bcryptMinCost keeps the tests fast; production cost comes from config.
func bcryptMinCost() int { return 4 }

func TestRegister(t *testing.T) {
	ctx := context.Background()
	store := newMockUserStorage()
	svc := newTestService(t, store)

	user, token, err := svc.Register(ctx, "Ann", "ann@x.com", "secret12", 30)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.Equal(t, "Ann", user.Name)
	assert.Equal(t, "ann@x.com", user.Email)
	assert.Equal(t, int64(30), user.Age)

	// Persisted password is a hash, never the plaintext.
	persisted, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret12", persisted.Password)
	assert.NoError(t, VerifyPassword("secret12", persisted.Password))

	// The token was recorded before being returned.
	assert.True(t, persisted.HasSession(token))

	// The token authenticates immediately.
	authed, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
}

func TestRegisterNormalizesInput(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newMockUserStorage())

	user, _, err := svc.Register(ctx, "   Peter Aronov  ", "MYEMAIL@MEAD.IO   ", "sd@#T42321", 0)
	require.NoError(t, err)

	assert.Equal(t, "Peter Aronov", user.Name)
	assert.Equal(t, "myemail@mead.io", user.Email)
	assert.Equal(t, int64(0), user.Age)
}

func TestRegisterAggregatesViolations(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newMockUserStorage())

	_, _, err := svc.Register(ctx, "", "not-an-email", "password1", -5)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Violations, 4)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := newMockUserStorage()
	svc := newTestService(t, store)

	_, _, err := svc.Register(ctx, "Ann", "ann@x.com", "secret12", 30)
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "Other Ann", "ann@x.com", "secret34", 31)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	// The failed attempt wrote nothing.
	assert.Len(t, store.users, 1)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	store := newMockUserStorage()
	svc := newTestService(t, store)

	_, regToken, err := svc.Register(ctx, "Ann", "ann@x.com", "secret12", 30)
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "ann@x.com", "wrongpw")
		assert.ErrorIs(t, err, ErrAuthentication)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "bob@x.com", "secret12")
		assert.ErrorIs(t, err, ErrAuthentication)
	})

	t.Run("success", func(t *testing.T) {
		user, token, err := svc.Login(ctx, "ann@x.com", "secret12")
		require.NoError(t, err)
		assert.NotEqual(t, regToken, token)
		assert.Len(t, user.Sessions, 2)
	})
}

func TestLoginMultipleSessions(t *testing.T) {
	ctx := context.Background()
	store := newMockUserStorage()
	svc := newTestService(t, store)

	_, _, err := svc.Register(ctx, "Ann", "ann@x.com", "secret12", 30)
	require.NoError(t, err)

	_, t1, err := svc.Login(ctx, "ann@x.com", "secret12")
	require.NoError(t, err)
	_, t2, err := svc.Login(ctx, "ann@x.com", "secret12")
	require.NoError(t, err)

	assert.NotEqual(t, t1, t2)

	// Both sessions are independently valid.
	_, err = svc.Authenticate(ctx, t1)
	assert.NoError(t, err)
	_, err = svc.Authenticate(ctx, t2)
	assert.NoError(t, err)

	// Logging one out leaves the other valid.
	user, err := svc.Authenticate(ctx, t1)
	require.NoError(t, err)
	_, err = svc.Logout(ctx, user, t1)
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, t1)
	assert.ErrorIs(t, err, ErrAuthentication)
	_, err = svc.Authenticate(ctx, t2)
	assert.NoError(t, err)
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newMockUserStorage())

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Authenticate(ctx, token)
		assert.ErrorIs(t, err, ErrAuthentication)
	}
}

func TestAuthenticateExpiredButListed(t *testing.T) {
	// An expired token fails authentication even while still present in
	// the session list.
	ctx := context.Background()
	store := newMockUserStorage()

	expiredCodec := NewTokenCodec([]byte("test-secret"), -time.Minute)
	svc, err := NewService(testLogger(), store, expiredCodec, bcryptMinCost())
	require.NoError(t, err)

	user, token, err := svc.Register(ctx, "Ann", "ann@x.com", "secret12", 30)
	require.NoError(t, err)

	persisted, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, persisted.HasSession(token))

	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestLogoutIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newMockUserStorage()
	svc := newTestService(t, store)

	user, token, err := svc.Register(ctx, "Ann", "ann@x.com", "secret12", 30)
	require.NoError(t, err)

	user, err = svc.Logout(ctx, user, token)
	require.NoError(t, err)
	assert.Empty(t, user.Sessions)

	// Removing the same token again is a no-op success.
	user, err = svc.Logout(ctx, user, token)
	require.NoError(t, err)
	assert.Empty(t, user.Sessions)
}

func TestLogoutAll(t *testing.T) {
	ctx := context.Background()
	store := newMockUserStorage()
	svc := newTestService(t, store)

	user, t0, err := svc.Register(ctx, "Ann", "ann@x.com", "secret12", 30)
	require.NoError(t, err)
	_, t1, err := svc.Login(ctx, "ann@x.com", "secret12")
	require.NoError(t, err)
	_, t2, err := svc.Login(ctx, "ann@x.com", "secret12")
	require.NoError(t, err)

	user, err = svc.LogoutAll(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, user.Sessions)

	for _, token := range []string{t0, t1, t2} {
		_, err := svc.Authenticate(ctx, token)
		assert.ErrorIs(t, err, ErrAuthentication)
	}

	// A fresh login works again.
	_, t3, err := svc.Login(ctx, "ann@x.com", "secret12")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, t3)
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	store := newMockUserStorage()
	svc := newTestService(t, store)

	user, _, err := svc.Register(ctx, "Ann", "ann@x.com", "secret12", 30)
	require.NoError(t, err)

	newName := "Ann Updated"
	newPassword := "evenmoresecret"
	user, err = svc.UpdateProfile(ctx, user, UpdateParams{
		Name:     &newName,
		Password: &newPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann Updated", user.Name)

	// Old password no longer works, the new one does.
	_, _, err = svc.Login(ctx, "ann@x.com", "secret12")
	assert.ErrorIs(t, err, ErrAuthentication)
	_, _, err = svc.Login(ctx, "ann@x.com", newPassword)
	assert.NoError(t, err)
}

func TestUpdateProfileValidation(t *testing.T) {
	ctx := context.Background()
	store := newMockUserStorage()
	svc := newTestService(t, store)

	user, _, err := svc.Register(ctx, "Ann", "ann@x.com", "secret12", 30)
	require.NoError(t, err)

	badEmail := "nope"
	badAge := int64(-1)
	_, err = svc.UpdateProfile(ctx, user, UpdateParams{Email: &badEmail, Age: &badAge})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Violations, 2)
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	ctx := context.Background()
	store := newMockUserStorage()
	svc := newTestService(t, store)

	_, _, err := svc.Register(ctx, "Ann", "ann@x.com", "secret12", 30)
	require.NoError(t, err)
	bob, _, err := svc.Register(ctx, "Bob", "bob@x.com", "secret34", 25)
	require.NoError(t, err)

	taken := "ann@x.com"
	_, err = svc.UpdateProfile(ctx, bob, UpdateParams{Email: &taken})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	store := newMockUserStorage()
	svc := newTestService(t, store)

	user, token, err := svc.Register(ctx, "Ann", "ann@x.com", "secret12", 30)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, user))

	// Outstanding tokens are dead: the subject no longer exists.
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrAuthentication)
}
