package tool

import "strings"

// Normalizers are pure and idempotent: applying one twice yields the same
// value, and they never reject input. Rejection is the validator's job.

// NormalizeSymbol canonicalizes a trading pair: trims whitespace and
// uppercases, so "btc/usdt " becomes "BTC/USDT".
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizeName canonicalizes an exchange or asset name: trims whitespace
// and lowercases, so " Binance" becomes "binance".
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeText trims free-form text such as search keywords, preserving
// its case.
func NormalizeText(s string) string {
	return strings.TrimSpace(s)
}
