package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

const (
	promptAccount  = "Do you have an account? (y/n)"
	promptUsername = "Enter username"
	promptPassword = "Enter password"
)

// Negotiator runs the line-oriented login/registration exchange on a
// fresh connection, before any chat state exists. One exchange at a
// time; the client is expected not to pipeline during authentication.
type Negotiator struct {
	svc *Service
	log *zerolog.Logger
}

// NewNegotiator builds a negotiator over the credential service.
func NewNegotiator(svc *Service, logger *zerolog.Logger) *Negotiator {
	return &Negotiator{svc: svc, log: logger}
}

// Negotiate prompts until the client authenticates and returns the
// trimmed username that becomes the session identity. Any I/O error
// aborts the session; no partial state is left behind. There is no
// retry limit.
func (n *Negotiator) Negotiate(ctx context.Context, r *bufio.Reader, w io.Writer) (string, error) {
	for {
		answer, err := n.ask(r, w, promptAccount)
		if err != nil {
			return "", fmt.Errorf("read account answer: %w", err)
		}
		switch answer {
		case "y":
			return n.login(ctx, r, w)
		case "n":
			return n.register(ctx, r, w)
		}
	}
}

func (n *Negotiator) login(ctx context.Context, r *bufio.Reader, w io.Writer) (string, error) {
	for {
		username, password, err := n.credentials(r, w)
		if err != nil {
			return "", err
		}

		user, err := n.svc.Login(ctx, username, password)
		switch {
		case err == nil:
			if werr := writeLine(w, fmt.Sprintf("Welcome back %s!", user.Username)); werr != nil {
				return "", werr
			}
			n.log.Info().Str("username", user.Username).Msg("user logged in")
			n.dumpUsers(ctx)
			return user.Username, nil
		case errors.Is(err, ErrUnknownUser):
			if werr := writeLine(w, "user doesn't exist"); werr != nil {
				return "", werr
			}
			n.log.Warn().Str("username", username).Msg("login attempt for unknown user")
		case errors.Is(err, ErrInvalidCredentials):
			if werr := writeLine(w, "You entered wrong password"); werr != nil {
				return "", werr
			}
			n.log.Warn().Str("username", username).Msg("wrong password")
		default:
			n.log.Error().Err(err).Msg("login failed")
			if werr := writeLine(w, "Something went wrong. Try again."); werr != nil {
				return "", werr
			}
		}
	}
}

func (n *Negotiator) register(ctx context.Context, r *bufio.Reader, w io.Writer) (string, error) {
	for {
		username, password, err := n.credentials(r, w)
		if err != nil {
			return "", err
		}

		user, err := n.svc.Register(ctx, username, password)
		switch {
		case err == nil:
			n.log.Info().Str("username", user.Username).Msg("user registered")
			n.dumpUsers(ctx)
			return user.Username, nil
		case errors.Is(err, ErrUserExists):
			if werr := writeLine(w, fmt.Sprintf("%s is taken. Choose another username.", username)); werr != nil {
				return "", werr
			}
		case errors.Is(err, ErrInvalidUsername):
			if werr := writeLine(w, "Username can't be empty or contain spaces."); werr != nil {
				return "", werr
			}
		case errors.Is(err, ErrInvalidPassword):
			if werr := writeLine(w, "Password can't be empty."); werr != nil {
				return "", werr
			}
		default:
			n.log.Error().Err(err).Str("username", username).Msg("failed to create user")
			if werr := writeLine(w, "Something went wrong. Try again."); werr != nil {
				return "", werr
			}
		}
	}
}

func (n *Negotiator) credentials(r *bufio.Reader, w io.Writer) (string, string, error) {
	username, err := n.ask(r, w, promptUsername)
	if err != nil {
		return "", "", fmt.Errorf("read username: %w", err)
	}
	password, err := n.ask(r, w, promptPassword)
	if err != nil {
		return "", "", fmt.Errorf("read password: %w", err)
	}
	return username, password, nil
}

// ask writes a prompt line and reads one trimmed answer line.
func (n *Negotiator) ask(r *bufio.Reader, w io.Writer, prompt string) (string, error) {
	if err := writeLine(w, prompt); err != nil {
		return "", err
	}
	answer, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// dumpUsers logs the persisted user table at debug level after each
// successful login or registration.
func (n *Negotiator) dumpUsers(ctx context.Context) {
	if n.log.GetLevel() > zerolog.DebugLevel {
		return
	}
	users, err := n.svc.ListUsers(ctx)
	if err != nil {
		n.log.Warn().Err(err).Msg("failed to list users")
		return
	}
	for _, u := range users {
		n.log.Debug().
			Int64("id", u.ID).
			Str("username", u.Username).
			Time("created_at", u.CreatedAt).
			Msg("user record")
	}
	n.log.Debug().Int("total", len(users)).Msg("users in database")
}

func writeLine(w io.Writer, line string) error {
	if _, err := io.WriteString(w, line+"\n"); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	return nil
}
