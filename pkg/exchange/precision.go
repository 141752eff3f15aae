package exchange

import (
	"math"
	"strings"
)

// The exchange's own market metadata is the authority on precision.
// Amounts and prices are floored, never rounded up, so a submitted order
// can't exceed the caller's intent or the venue's step size.

// FloorToPrecision floors value to the given number of decimal digits.
func FloorToPrecision(value float64, digits int) float64 {
	if digits < 0 {
		digits = 0
	}
	scale := math.Pow10(digits)
	return math.Floor(value*scale) / scale
}

// AmountToContracts converts a base-currency amount into a whole number of
// contracts for the market, floored to the market's amount precision.
func AmountToContracts(amount float64, market *Market) float64 {
	size := market.ContractSize
	if size <= 0 {
		size = 1
	}
	return FloorToPrecision(amount/size, market.AmountPrecision)
}

// precisionFromStep derives decimal digits from a step size string like
// "0.001". Integer steps yield 0.
func precisionFromStep(step string) int {
	step = strings.TrimRight(step, "0")
	if idx := strings.Index(step, "."); idx >= 0 {
		return len(step) - idx - 1
	}
	return 0
}
