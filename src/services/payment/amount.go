package payment

import (
	"math"

	"github.com/shopspring/decimal"
)

var subunitsPerUnit = decimal.NewFromInt(100)

// ToSubunits converts a major-unit amount (rupees) to the gateway's smallest
// unit (paise), rounding half away from zero.
func ToSubunits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(subunitsPerUnit).Round(0).IntPart()
}

func validAmount(amount float64) bool {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return false
	}
	return ToSubunits(amount) >= 1
}
