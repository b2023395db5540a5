package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/vovakirdan/netchat-server/internal/store"
)

const maxUsernameLen = 32

var (
	// ErrInvalidCredentials is returned when the password doesn't match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnknownUser is returned when the username is not registered.
	ErrUnknownUser = errors.New("unknown user")
	// ErrUserExists is returned when registering an existing username.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidUsername is returned when a username doesn't meet constraints.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrInvalidPassword is returned when a password doesn't meet constraints.
	ErrInvalidPassword = errors.New("invalid password")
)

// Service provides credential operations over a user store.
type Service struct {
	store store.UserStore
}

// NewService creates a new authentication service.
func NewService(userStore store.UserStore) *Service {
	return &Service{store: userStore}
}

// Register creates a new user with a hashed password. The username is
// trimmed before validation and stored trimmed, so the persisted name
// matches the presence registry key.
func (s *Service) Register(ctx context.Context, username, password string) (*store.User, error) {
	username = strings.TrimSpace(username)
	if !validUsername(username) {
		return nil, ErrInvalidUsername
	}
	if strings.TrimSpace(password) == "" {
		return nil, ErrInvalidPassword
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, username, hash)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login validates credentials. ErrUnknownUser and ErrInvalidCredentials
// drive the two client notices; everything else is a store failure.
func (s *Service) Login(ctx context.Context, username, password string) (*store.User, error) {
	username = strings.TrimSpace(username)

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// ListUsers returns all persisted users.
func (s *Service) ListUsers(ctx context.Context) ([]*store.User, error) {
	return s.store.ListUsers(ctx)
}

// validUsername rejects empty names, names over maxUsernameLen bytes,
// and names containing spaces or control characters. Usernames travel
// inside the wire protocol unescaped, so they must stay line- and
// token-safe.
func validUsername(username string) bool {
	if username == "" || len(username) > maxUsernameLen {
		return false
	}
	for _, r := range username {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return true
}
