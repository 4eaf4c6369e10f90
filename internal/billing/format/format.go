// Package format renders energy and money amounts for statements and reports.
package format

import (
	"math"

	"github.com/shopspring/decimal"
)

// Fixed2 renders v with two decimals, rounding half away from zero on the
// shortest decimal representation of v (0.125 renders as 0.13).
func Fixed2(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0.00"
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// KWh renders an energy amount with its unit.
func KWh(v float64) string { return Fixed2(v) + " kWh" }

// COP renders a money amount with its currency.
func COP(v float64) string { return Fixed2(v) + " COP" }

// Round2 rounds v to two decimals the way Fixed2 does.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return r
}
