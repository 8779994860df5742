package domain

import (
	"context"
	"time"
)

var (
	ErrUserNotFound   = &kindError{msg: "user not found", kind: ErrNotFound}
	ErrUsernameExists = &kindError{msg: "A user with the given username is already registered", kind: ErrConflict}
	ErrEmailExists    = &kindError{msg: "A user with the given email is already registered", kind: ErrConflict}
)

// User is a registered account. PasswordHash is only ever read by the auth service.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated user bound to a request. It is a value type
// and is never modified once the session middleware has resolved it.
type Identity struct {
	UserID   string
	Username string
}

// IdentityOf builds the request identity for a user.
func IdentityOf(u *User) Identity {
	return Identity{UserID: u.ID, Username: u.Username}
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
