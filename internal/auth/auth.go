// Package auth hashes and verifies account passwords with bcrypt and checks
// login credentials against the user store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/donaldgifford/slash/internal/store"
	domain "github.com/donaldgifford/slash/pkg/types"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

var (
	// ErrInvalidCredentials is returned when a username/password pair does not match.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrWeakPassword is returned for passwords shorter than MinPasswordLength
	// or longer than bcrypt accepts.
	ErrWeakPassword = errors.New("password must be between 8 and 72 bytes")
)

// dummyHash is compared against when the user does not exist so that unknown
// usernames and wrong passwords take the same time.
var dummyHash = []byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3YL4Y3.p4G0vIbJc7xH0cH6")

// UserFinder looks up accounts by username.
type UserFinder interface {
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// HashPassword returns the bcrypt hash of pw at the default cost.
func HashPassword(pw string) (string, error) {
	if utf8.RuneCountInString(pw) < MinPasswordLength || len(pw) > 72 {
		return "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether pw matches the bcrypt hash.
func VerifyPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// Authenticate returns the user when username and password match. Unknown
// users and wrong passwords both yield ErrInvalidCredentials.
func Authenticate(ctx context.Context, users UserFinder, username, password string) (*domain.User, error) {
	u, err := users.GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if !VerifyPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
