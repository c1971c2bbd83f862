// Package auth implements the gateway's authentication collaborators:
// peppered bcrypt password hashing, the signed session token, and TOTP-based
// two-factor enrollment and verification.
package auth

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies passwords with bcrypt. The pepper is a
// server-side secret appended to the plaintext before hashing, so leaked
// hashes cannot be attacked without it.
type PasswordHasher struct {
	cost   int
	pepper string
}

// NewPasswordHasher creates a PasswordHasher. Costs outside bcrypt's valid
// range fall back to the library default.
func NewPasswordHasher(cost int, pepper string) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost, pepper: pepper}
}

// Hash returns the bcrypt hash of the peppered plaintext.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext+h.pepper), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare reports whether the peppered plaintext matches the stored hash.
func (h *PasswordHasher) Compare(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext+h.pepper)) == nil
}

// minPasswordLen is the complexity floor enforced at signup and password
// change.
const minPasswordLen = 8

// ValidPassword reports whether a password meets the complexity rules:
// at least minPasswordLen runes with an upper-case letter, a lower-case
// letter, and a digit.
func ValidPassword(pw string) bool {
	var upper, lower, digit bool
	runes := 0
	for _, r := range pw {
		runes++
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return runes >= minPasswordLen && upper && lower && digit
}
