package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Keeps a single hash under ~100ms on commodity hardware while staying
// expensive enough to resist offline brute force.
const passwordHashCost = 10

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), passwordHashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored hash. Any internal
// failure (malformed hash, unsupported cost) reads as a mismatch so callers
// never learn anything about the stored value.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
