package auth

import (
	"strings"
	"testing"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword() returned empty hash")
	}
	if hash == "correct horse battery" {
		t.Fatal("HashPassword() returned the plaintext")
	}
	if !VerifyPassword("correct horse battery", hash) {
		t.Error("VerifyPassword() = false for the original password")
	}
}

func TestHashPassword_TooShort(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Error("HashPassword() expected error for password under minimum length, got nil")
	}
}

func TestHashPassword_ExactMinimumLength(t *testing.T) {
	pw := strings.Repeat("a", MinPasswordLength)
	if _, err := HashPassword(pw); err != nil {
		t.Errorf("HashPassword() unexpected error at minimum length: %v", err)
	}
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	hash, err := HashPassword("the-real-password")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if VerifyPassword("not-the-password", hash) {
		t.Error("VerifyPassword() = true for wrong password")
	}
}

func TestVerifyPassword_EmptyStoredHash(t *testing.T) {
	// External accounts have no stored hash and can never pass
	// password verification.
	if VerifyPassword("anything", "") {
		t.Error("VerifyPassword() = true with empty stored hash")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	if VerifyPassword("anything", "not-a-bcrypt-hash") {
		t.Error("VerifyPassword() = true with malformed hash")
	}
}
