package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrDuplicateUsername is returned when a username is already taken.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrNotFound is returned when no user matches the query.
	ErrNotFound = errors.New("user not found")
)

// User is a persisted credential record. Created on registration,
// never mutated or deleted by the chat core.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// UserStore handles credential persistence.
type UserStore interface {
	// CreateUser inserts a new user with an already-hashed password.
	// Returns ErrDuplicateUsername if the name is taken.
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)

	// GetUserByUsername retrieves a user by username.
	// Returns ErrNotFound if no such user exists.
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// ListUsers returns all persisted users, newest first.
	ListUsers(ctx context.Context) ([]*User, error)

	// Close closes the underlying database connection.
	Close() error
}
