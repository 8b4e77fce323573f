package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user document in the users collection.
// Password always holds a bcrypt hash, never plaintext. Sessions holds the
// raw bearer tokens of the currently valid sessions in login order and
// doubles as the server-side revocation list.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Age       int64              `bson:"age" json:"age"`
	Sessions  []string           `bson:"sessions" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// HasSession reports whether token is still present in the session list.
func (u *User) HasSession(token string) bool {
	for _, s := range u.Sessions {
		if s == token {
			return true
		}
	}
	return false
}
