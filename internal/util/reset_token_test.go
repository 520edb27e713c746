package util

import (
	"encoding/hex"
	"testing"
)

func TestGenerateResetToken(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		token, err := GenerateResetToken()
		if err != nil {
			t.Fatalf("GenerateResetToken returned error: %v", err)
		}
		if len(token) != ResetTokenBytes*2 {
			t.Fatalf("expected %d hex chars, got %d", ResetTokenBytes*2, len(token))
		}
		if _, err := hex.DecodeString(token); err != nil {
			t.Fatalf("expected hex token, got %q", token)
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("duplicate token generated")
		}
		seen[token] = struct{}{}
	}
}

func TestDigestResetToken(t *testing.T) {
	a := DigestResetToken("token-a")
	if a != DigestResetToken("token-a") {
		t.Fatalf("expected digest to be deterministic")
	}
	if a == DigestResetToken("token-b") {
		t.Fatalf("expected different tokens to produce different digests")
	}
	if a == "token-a" {
		t.Fatalf("expected digest to differ from the raw token")
	}
}
