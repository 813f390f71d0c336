package store

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"activeflow/models"
)

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrExternalAccount    = errors.New("account uses Google sign-in")
)

// Identity authenticates users. Returned users never carry a password hash.
type Identity interface {
	Register(ctx context.Context, email, password, username string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	// LoginExternal finds or creates the account behind a Google sign-in.
	LoginExternal(ctx context.Context, googleID, email, name string) (*models.User, error)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// checkPassword compares against the stored hash and maps mismatches onto
// ErrInvalidCredentials.
func checkPassword(user *models.User, password string) error {
	if user.Password == "" {
		return ErrExternalAccount
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func publicUser(u models.User) *models.User {
	u.Password = ""
	return &u
}
