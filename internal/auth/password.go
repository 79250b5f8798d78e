package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooLong is returned when a plaintext exceeds bcrypt's 72-byte
// input limit. We reject instead of letting bcrypt truncate silently.
var ErrPasswordTooLong = errors.New("auth: password must be 72 bytes or fewer")

// defaultCost is the bcrypt work factor — roughly 250ms per hash on current
// server hardware, which is the usual target.
const defaultCost = 12

// PasswordService provides bcrypt hashing and verification. It is a struct
// so tests can inject a lower cost and avoid the deliberate slowness.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest creates a PasswordService with a reduced cost.
// Tests use bcrypt.MinCost (4); never use that in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes the plaintext with bcrypt. The output embeds the salt and
// cost, so it can be stored as-is and verified later without extra columns.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify compares a stored hash with a candidate plaintext. Returns nil on
// match. bcrypt's comparison is constant-time over the hash.
func (p *PasswordService) Verify(hash, plaintext string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)); err != nil {
		return fmt.Errorf("auth: password mismatch: %w", err)
	}
	return nil
}
