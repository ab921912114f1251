package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordCost is the lowest bcrypt cost the hasher will use.
const MinPasswordCost = 10

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

// ErrInvalidInput is returned when a password cannot be hashed.
var ErrInvalidInput = errors.New("invalid password input")

// PasswordHasher hashes and verifies passwords with bcrypt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher, clamping cost to [MinPasswordCost, bcrypt.MaxCost].
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < MinPasswordCost {
		cost = MinPasswordCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &PasswordHasher{cost: cost}
}

// Cost returns the bcrypt cost in use.
func (h *PasswordHasher) Cost() int {
	return h.cost
}

// Hash returns a salted bcrypt hash of the plaintext.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	if strings.TrimSpace(plaintext) == "" || len(plaintext) > maxPasswordBytes {
		return "", ErrInvalidInput
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches hash. A malformed hash is a mismatch.
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
