// Package userstore persists user accounts and verifies credentials.
package userstore

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ammybawa/Azure-Integration-App/internal/models"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when the username is already taken.
	ErrDuplicate = errors.New("username already exists")
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Store persists user accounts.
type Store interface {
	Create(ctx context.Context, username, password string, roles []string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Authenticate verifies the password for the named user against any
// store. A missing user and a wrong password return the same error so
// login responses cannot be used to probe for accounts.
func Authenticate(ctx context.Context, s Store, username, password string) (*models.User, error) {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account if it does not exist.
func EnsureAdmin(ctx context.Context, s Store, password string) error {
	if _, err := s.GetByUsername(ctx, "admin"); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	if _, err := s.Create(ctx, "admin", password, []string{models.RoleAdmin, models.RoleUser}); err != nil {
		return err
	}
	log.Printf(`{"level":"info","component":"userstore","msg":"bootstrap admin account created","username":"admin"}`)
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func newUserID() string {
	return uuid.NewString()
}
