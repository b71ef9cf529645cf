// Package crypto implements server-side password hashing and verification.
package crypto

import (
	"crypto/rand"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the cost the stored hashes were produced with.
const bcryptCost = 10

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// HashPassword returns a bcrypt hash of the password. The hash embeds its
// own salt and cost, so verification needs only the two arguments.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPassword verifies password against a stored bcrypt hash.
// bcrypt's comparison is constant-time over the derived key.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
