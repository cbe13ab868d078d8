package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidClient is returned when the OAuth client credentials don't match
var ErrInvalidClient = errors.New("invalid client credentials")

// HashPassword hashes a password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a password with its bcrypt hash
func VerifyPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// VerifyClient checks the client_id/client_secret of a password grant.
// An empty configured secret accepts any secret from the configured client.
func VerifyClient(wantID, wantSecret, gotID, gotSecret string) error {
	if subtle.ConstantTimeCompare([]byte(wantID), []byte(gotID)) != 1 {
		return ErrInvalidClient
	}
	if wantSecret != "" && subtle.ConstantTimeCompare([]byte(wantSecret), []byte(gotSecret)) != 1 {
		return ErrInvalidClient
	}
	return nil
}
