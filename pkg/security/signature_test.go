package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"type":"payment.completed","payment_id":"abc"}`)

	sig := SignPayload(secret, body)
	assert.True(t, VerifySignature(secret, body, sig))

	// Wrong secret
	assert.False(t, VerifySignature("other", body, sig))

	// Tampered body
	assert.False(t, VerifySignature(secret, []byte(`{"type":"payment.failed"}`), sig))

	// Garbage signature
	assert.False(t, VerifySignature(secret, body, "deadbeef"))
	assert.False(t, VerifySignature(secret, body, ""))
}
