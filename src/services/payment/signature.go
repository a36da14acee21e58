package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// ExpectedSignature is the hex HMAC-SHA256 of "<gatewayOrderID>|<gatewayPaymentID>".
func ExpectedSignature(secret, gatewayOrderID, gatewayPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares in constant time; a length mismatch is a plain mismatch.
func VerifySignature(secret, gatewayOrderID, gatewayPaymentID, signature string) bool {
	expected := ExpectedSignature(secret, gatewayOrderID, gatewayPaymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
