package tripshare

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatchedHashAndPassword is returned when a credential comparison fails.
var ErrMismatchedHashAndPassword = errors.New("password does not match")

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext password matches
// the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// ValidateAdminCredentials checks the single configured admin account. When
// the configured password is a bcrypt hash it is compared as one; a plain
// configured value falls back to a constant time comparison.
func ValidateAdminCredentials(cfg Config, email, password string, logger Logger) bool {
	if logger == nil {
		logger = defLogger{}
	}

	adminEmail := cfg.GetAdminEmail()
	adminPassword := cfg.GetAdminPassword()

	if adminEmail == "" || adminPassword == "" {
		logger.Error("admin credentials are not configured")
		return false
	}

	if !strings.EqualFold(strings.TrimSpace(email), adminEmail) {
		return false
	}

	if strings.HasPrefix(adminPassword, "$2") {
		return ComparePasswordAndHash(password, adminPassword) == nil
	}

	return subtle.ConstantTimeCompare([]byte(password), []byte(adminPassword)) == 1
}
