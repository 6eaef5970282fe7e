package midtrans

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	const (
		orderID     = "BOOKING-42-abc"
		statusCode  = "200"
		grossAmount = "1000.00"
		serverKey   = "SB-Mid-server-testkey"
	)
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	good := hex.EncodeToString(sum[:])

	assert.True(t, VerifySignature(orderID, statusCode, grossAmount, good, serverKey))
	assert.False(t, VerifySignature(orderID, statusCode, grossAmount, "deadbeef", serverKey))
	assert.False(t, VerifySignature(orderID, statusCode, grossAmount, good, "other-key"))
	assert.False(t, VerifySignature("BOOKING-43-abc", statusCode, grossAmount, good, serverKey))
	assert.False(t, VerifySignature(orderID, statusCode, grossAmount, "", serverKey))
}
