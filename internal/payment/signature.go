package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signature computes the hex-encoded HMAC-SHA256 digest of body using the
// shared webhook secret. The gateway signs the exact raw request bytes, so
// callers must pass the body unmodified.
func Signature(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature matches the expected digest of
// body. Comparison is constant-time.
func VerifySignature(body []byte, signature, secret string) bool {
	expected := Signature(body, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
