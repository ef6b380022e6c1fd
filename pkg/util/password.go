package util

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MaxPasswordBytes is the largest input bcrypt will hash. Longer passwords are
	// truncated to this length before hashing and before verification.
	MaxPasswordBytes = 72
	// BCryptCost is the default cost factor for password hashing
	BCryptCost = bcrypt.DefaultCost
)

// ErrCredential is returned when a password cannot be hashed at all.
var ErrCredential = errors.New("credential error")

// PasswordHasher hashes and verifies administrator passwords with bcrypt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using the given bcrypt cost. Out of range
// costs fall back to BCryptCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = BCryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt digest of password. Inputs longer than
// MaxPasswordBytes are silently truncated.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncatePassword(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: failed to hash password: %v", ErrCredential, err)
	}
	return string(hash), nil
}

// Verify reports whether password matches digest. Malformed digests and
// mismatches are indistinguishable to the caller.
func (h *PasswordHasher) Verify(password, digest string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), truncatePassword(password)) == nil
}

// HashPassword hashes with the default cost.
func HashPassword(password string) (string, error) {
	return NewPasswordHasher(BCryptCost).Hash(password)
}

// VerifyPassword verifies with the default hasher.
func VerifyPassword(password, digest string) bool {
	return NewPasswordHasher(BCryptCost).Verify(password, digest)
}

func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) > MaxPasswordBytes {
		b = b[:MaxPasswordBytes]
	}
	return b
}
