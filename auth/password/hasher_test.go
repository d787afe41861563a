package password

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	hasher := NewBcryptHasher(WithCost(bcrypt.MinCost))

	hash, err := hasher.Hash("pw123456")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "pw123456" {
		t.Fatal("hash must not equal the plaintext")
	}
	if err := hasher.Verify("pw123456", hash); err != nil {
		t.Errorf("expected match, got %v", err)
	}
	if err := hasher.Verify("wrong-password", hash); !errors.Is(err, ErrMismatch) {
		t.Errorf("expected ErrMismatch, got %v", err)
	}
}

func TestBcryptHasher_Randomized(t *testing.T) {
	hasher := NewBcryptHasher(WithCost(bcrypt.MinCost))

	h1, err := hasher.Hash("pw123456")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	h2, err := hasher.Hash("pw123456")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password must differ (random salt)")
	}
}

func TestBcryptHasher_MalformedHashIsNonMatch(t *testing.T) {
	hasher := NewBcryptHasher(WithCost(bcrypt.MinCost))

	for _, malformed := range []string{"", "not-a-bcrypt-hash", "$2a$xx$garbage"} {
		if err := hasher.Verify("pw123456", malformed); !errors.Is(err, ErrMismatch) {
			t.Errorf("Verify with hash %q: expected ErrMismatch, got %v", malformed, err)
		}
	}
}

func TestBcryptHasher_TooLong(t *testing.T) {
	hasher := NewBcryptHasher(WithCost(bcrypt.MinCost))

	if _, err := hasher.Hash(strings.Repeat("x", MaxLength+1)); err == nil {
		t.Error("expected error for password over bcrypt limit")
	}
	if _, err := hasher.Hash(strings.Repeat("x", MaxLength)); err != nil {
		t.Errorf("password at limit should hash: %v", err)
	}
}

func TestWithCost_OutOfRangeIgnored(t *testing.T) {
	h := NewBcryptHasher(WithCost(99))
	if h.cost != 10 {
		t.Errorf("out-of-range cost should keep default 10, got %d", h.cost)
	}
}
