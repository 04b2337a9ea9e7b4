// Package password covers credential hashing for staff accounts and the
// at-rest hashing of refresh tokens.
package password

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

const (
	// bcryptCost trades login latency for brute-force resistance
	bcryptCost = 12

	// MinLength is the minimum accepted staff password length
	MinLength = 8
)

// Hash hashes a staff password with bcrypt
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify reports whether password matches the stored bcrypt hash
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashToken hashes a refresh token with SHA-256. Tokens are stored hashed
// so a leaked table cannot be replayed.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// ValidatePassword reports whether a new password meets the office policy
func ValidatePassword(password string) bool {
	return len(password) >= MinLength
}
