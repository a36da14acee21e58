package payment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// hex HMAC-SHA256("order_abc|pay_xyz") keyed with "s3cret"
const knownSignature = "69d2d55b3175eb1d5c503399ed52b90c1f0326286864d5042cdf2c46598162e7"

func TestExpectedSignature_KnownVector(t *testing.T) {
	assert.Equal(t, knownSignature, ExpectedSignature("s3cret", "order_abc", "pay_xyz"))
}

func TestExpectedSignature_Deterministic(t *testing.T) {
	first := ExpectedSignature(testSecret, "order_abc", "pay_xyz")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ExpectedSignature(testSecret, "order_abc", "pay_xyz"))
	}
	assert.NotEqual(t, first, ExpectedSignature("other", "order_abc", "pay_xyz"))
	assert.NotEqual(t, first, ExpectedSignature(testSecret, "order_abc", "pay_other"))
}

func TestVerifySignature(t *testing.T) {
	testCases := []struct {
		name      string
		signature string
		valid     bool
	}{
		{name: "matching signature", signature: knownSignature, valid: true},
		{name: "uppercase hex", signature: strings.ToUpper(knownSignature), valid: false},
		{name: "truncated", signature: knownSignature[:63], valid: false},
		{name: "longer than digest", signature: knownSignature + "00", valid: false},
		{name: "empty", signature: "", valid: false},
		{name: "arbitrary string", signature: "not-a-signature", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, VerifySignature("s3cret", "order_abc", "pay_xyz", tc.signature))
		})
	}
}
