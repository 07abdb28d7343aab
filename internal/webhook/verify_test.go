package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestSignChallenge(t *testing.T) {
	secret := "webhook-secret"
	challenge := "abc123"

	signature, body, err := signChallenge(secret, challenge)
	if err != nil {
		t.Fatalf("signChallenge() error = %v", err)
	}

	if string(body) != `{"response":"abc123"}` {
		t.Errorf("body = %s, want {\"response\":\"abc123\"}", body)
	}

	// The signature must be the HMAC of the exact body bytes.
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if signature != expected {
		t.Errorf("signature = %s, want %s", signature, expected)
	}
}

func TestSignChallenge_Deterministic(t *testing.T) {
	sig1, _, err := signChallenge("s", "c")
	if err != nil {
		t.Fatalf("signChallenge() error = %v", err)
	}
	sig2, _, err := signChallenge("s", "c")
	if err != nil {
		t.Fatalf("signChallenge() error = %v", err)
	}
	if sig1 != sig2 {
		t.Error("signature should be deterministic")
	}
	if len(sig1) != 64 { // SHA256 = 32 bytes = 64 hex chars
		t.Errorf("signature length = %d, want 64", len(sig1))
	}
}

func TestSignChallenge_SecretChangesSignature(t *testing.T) {
	sig1, _, _ := signChallenge("secret-a", "c")
	sig2, _, _ := signChallenge("secret-b", "c")
	if sig1 == sig2 {
		t.Error("different secrets should produce different signatures")
	}
}
