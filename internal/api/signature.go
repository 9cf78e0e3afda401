package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// signatureHeader carries the hex-encoded HMAC-SHA256 digest of the raw
// webhook body, keyed with the shared webhook secret.
const signatureHeader = "X-Webhook-Signature"

func verifySignature(body []byte, signature, secret string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
