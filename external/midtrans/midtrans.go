package midtrans

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

func NewSnapClient(serverKey string) *snap.Client {
	var client snap.Client

	client.New(serverKey, midtrans.Sandbox)

	return &client
}

// VerifySignature checks the sha512 notification signature Midtrans sends
// with every payment webhook.
func VerifySignature(
	orderID string,
	statusCode string,
	grossAmount string,
	signature string,
	serverKey string,
) bool {

	raw := orderID + statusCode + grossAmount + serverKey
	hash := sha512.Sum512([]byte(raw))
	expected := hex.EncodeToString(hash[:])

	return hmac.Equal([]byte(expected), []byte(signature))
}
