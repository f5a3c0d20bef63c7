package security

import (
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("osu-worthy-password")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if hash == "osu-worthy-password" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !CheckPassword("osu-worthy-password", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("wrong-password", hash) {
		t.Error("wrong password accepted")
	}
}

func TestCSRFTokens(t *testing.T) {
	gen := NewCSRFGenerator("test-secret")

	token, err := gen.GenerateToken("session-1")
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	again, err := gen.GenerateToken("session-1")
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}
	if token != again {
		t.Error("tokens for the same session must be deterministic")
	}

	if !gen.ValidateToken("session-1", token) {
		t.Error("valid token rejected")
	}
	if gen.ValidateToken("session-2", token) {
		t.Error("token accepted for a different session")
	}
	if gen.ValidateToken("session-1", "") {
		t.Error("empty token accepted")
	}

	other := NewCSRFGenerator("different-secret")
	if other.ValidateToken("session-1", token) {
		t.Error("token accepted across secrets")
	}

	if _, err := gen.GenerateToken(""); err == nil {
		t.Error("empty session ID should error")
	}
}

func TestGenerateSessionIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateSessionID()
		if id == "" {
			t.Fatal("empty session id")
		}
		if seen[id] {
			t.Fatalf("duplicate session id %s", id)
		}
		seen[id] = true
	}
}
