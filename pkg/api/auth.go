package api

import "time"

// User is the sanitized projection of a user returned to clients.
// It never carries the password hash or the session-token list.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int64     `json:"age"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisterRequest is the body of POST /api/v1/users.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int64  `json:"age"`
}

// LoginRequest is the body of POST /api/v1/users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login: the sanitized user plus
// the raw bearer token of the newly created session.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// UpdateUserRequest is the body of PATCH /api/v1/users/me.
// Pointer fields distinguish "absent" from zero values.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Age      *int64  `json:"age,omitempty"`
}

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}
