package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/paronov/taskmaster/internal/models"
	"github.com/paronov/taskmaster/internal/server/storage"
)

// CreateUser inserts a new user document.
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storage.ErrEmailTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by normalized email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by id.
func (s *Storage) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user := &models.User{}
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserBySession retrieves the user whose id matches and whose session
// list still contains token. Lookup and revocation check are one query, the
// same shape the auth gate needs on every protected request.
func (s *Storage) GetUserBySession(ctx context.Context, id primitive.ObjectID, token string) (*models.User, error) {
	user := &models.User{}
	err := s.users.FindOne(ctx, bson.M{"_id": id, "sessions": token}).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateUser overwrites the mutable profile fields. The session list is
// deliberately not part of the $set: concurrent logins must not be lost to
// a profile update.
func (s *Storage) UpdateUser(ctx context.Context, user *models.User) error {
	update := bson.M{"$set": bson.M{
		"name":       user.Name,
		"email":      user.Email,
		"password":   user.Password,
		"age":        user.Age,
		"updated_at": user.UpdatedAt,
	}}

	res, err := s.users.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storage.ErrEmailTaken
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrUserNotFound
	}
	return nil
}

// DeleteUser deletes a user by id.
func (s *Storage) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrUserNotFound
	}
	return nil
}

// PushSession atomically appends a token to the session list.
func (s *Storage) PushSession(ctx context.Context, id primitive.ObjectID, token string) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{"sessions": token}},
	)
	if err != nil {
		return fmt.Errorf("failed to push session: %w", err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrUserNotFound
	}
	return nil
}

// PullSession atomically removes a token from the session list. A token
// that is already absent leaves the document unchanged, which is fine.
func (s *Storage) PullSession(ctx context.Context, id primitive.ObjectID, token string) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$pull": bson.M{"sessions": token}},
	)
	if err != nil {
		return fmt.Errorf("failed to pull session: %w", err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrUserNotFound
	}
	return nil
}

// ClearSessions atomically empties the session list.
func (s *Storage) ClearSessions(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"sessions": []string{}}},
	)
	if err != nil {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrUserNotFound
	}
	return nil
}
