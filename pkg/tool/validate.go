package tool

import (
	"fmt"
	"strings"
)

// Validators run on normalized values and report *InputError. They never
// touch the network.

// RequireString checks that value is non-empty after normalization.
func RequireString(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &InputError{Field: field, Reason: "must not be empty"}
	}
	return nil
}

// RequireRange checks that value lies in [min, max] inclusive.
func RequireRange(field string, value, min, max int) error {
	if value < min || value > max {
		return &InputError{Field: field, Reason: fmt.Sprintf("must be between %d and %d, got %d", min, max, value)}
	}
	return nil
}

// RequireSpotSymbol checks the BASE/QUOTE shape of a spot trading pair.
// The symbol must already be normalized.
func RequireSpotSymbol(symbol string) error {
	if err := RequireString("symbol", symbol); err != nil {
		return err
	}
	if !strings.Contains(symbol, "/") {
		return &InputError{Field: "symbol", Reason: "must use BASE/QUOTE format, e.g. BTC/USDT"}
	}
	return nil
}

// RequireContractSymbol checks the BASE/QUOTE:SETTLE shape of a perpetual
// contract symbol. The symbol must already be normalized.
func RequireContractSymbol(symbol string) error {
	if err := RequireSpotSymbol(symbol); err != nil {
		return err
	}
	if !strings.Contains(symbol, ":") {
		return &InputError{Field: "symbol", Reason: "must use BASE/QUOTE:SETTLE format, e.g. BTC/USDT:USDT"}
	}
	return nil
}

// RequireOrderSide checks a spot order side.
func RequireOrderSide(side string) error {
	switch side {
	case "buy", "sell":
		return nil
	}
	return &InputError{Field: "side", Reason: `must be "buy" or "sell"`}
}

// RequirePositionSide checks a futures order side.
func RequirePositionSide(side string) error {
	switch side {
	case "open_long", "open_short", "close_long", "close_short":
		return nil
	}
	return &InputError{Field: "side", Reason: `must be one of "open_long", "open_short", "close_long", "close_short"`}
}

// RequirePositive checks that value is strictly greater than zero.
func RequirePositive(field string, value float64) error {
	if value <= 0 {
		return &InputError{Field: field, Reason: fmt.Sprintf("must be greater than 0, got %v", value)}
	}
	return nil
}
