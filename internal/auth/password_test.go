package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_roundtrip(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, "pepper")
	hash, err := h.Hash("Secret123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !h.Compare("Secret123", hash) {
		t.Error("Compare() rejected the original password")
	}
	if h.Compare("Secret124", hash) {
		t.Error("Compare() accepted a wrong password")
	}
}

func TestPasswordHasher_pepper_required(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, "pepper")
	hash, err := h.Hash("Secret123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	unpeppered := NewPasswordHasher(bcrypt.MinCost, "")
	if unpeppered.Compare("Secret123", hash) {
		t.Error("hash verified without the pepper")
	}
}

func TestNewPasswordHasher_clamps_cost(t *testing.T) {
	h := NewPasswordHasher(99, "")
	if h.cost != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want %d", h.cost, bcrypt.DefaultCost)
	}
	h = NewPasswordHasher(0, "")
	if h.cost != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want %d", h.cost, bcrypt.DefaultCost)
	}
}

func TestValidPassword(t *testing.T) {
	cases := []struct {
		name string
		pw   string
		want bool
	}{
		{"valid", "Secret123", true},
		{"too_short", "Ab1", false},
		{"no_upper", "secret123", false},
		{"no_lower", "SECRET123", false},
		{"no_digit", "SecretWord", false},
		{"empty", "", false},
		{"unicode_counts_runes", "Päss1234", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidPassword(tc.pw); got != tc.want {
				t.Errorf("ValidPassword(%q) = %v, want %v", tc.pw, got, tc.want)
			}
		})
	}
}
