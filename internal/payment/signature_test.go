package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1"}}}}`)
	secret := "whsec_test"

	sig := Signature(body, secret)

	tests := []struct {
		name      string
		body      []byte
		signature string
		secret    string
		valid     bool
	}{
		{"Valid signature", body, sig, secret, true},
		{"Wrong secret", body, sig, "other-secret", false},
		{"Tampered body", []byte(`{"event":"payment.captured","amount":1}`), sig, secret, false},
		{"Empty signature", body, "", secret, false},
		{"Garbage signature", body, "not-hex-at-all", secret, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, VerifySignature(tt.body, tt.signature, tt.secret))
		})
	}
}

func TestSignature_Deterministic(t *testing.T) {
	body := []byte("payload")
	assert.Equal(t, Signature(body, "s"), Signature(body, "s"))
	assert.NotEqual(t, Signature(body, "s"), Signature(body, "t"))
}
