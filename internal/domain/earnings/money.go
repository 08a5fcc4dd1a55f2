package earnings

import (
	"math"

	"github.com/shopspring/decimal"
)

// FormatMoney renders a dollar amount rounded to cents. Rounding happens
// here and only here; the accumulators upstream carry exact decimals.
func FormatMoney(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "-"
	}
	return "$" + decimal.NewFromFloat(amount).StringFixed(2)
}
