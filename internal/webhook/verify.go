package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// SignatureHeader carries the signed challenge back to the platform during
// webhook verification.
const SignatureHeader = "X-OUTBOUND-TOKEN"

// signChallenge builds the verification response body {"response":<challenge>}
// and its HMAC-SHA256 signature, keyed with the webhook secret and computed
// over the exact bytes of the body. The platform recomputes the same HMAC to
// confirm the endpoint holds the secret.
func signChallenge(secret, challenge string) (signature string, body []byte, err error) {
	body, err = json.Marshal(VerificationResponse{Response: challenge})
	if err != nil {
		return "", nil, fmt.Errorf("marshal verification response: %w", err)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil)), body, nil
}
