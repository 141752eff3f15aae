package exchange

import "strings"

// Unified symbols are BASE/QUOTE for spot and BASE/QUOTE:SETTLE for
// perpetuals. Venue adapters translate to their native instrument IDs.

func splitSymbol(symbol string) (base, quote, settle string) {
	pair := symbol
	if idx := strings.Index(symbol, ":"); idx >= 0 {
		settle = symbol[idx+1:]
		pair = symbol[:idx]
	}
	if idx := strings.Index(pair, "/"); idx >= 0 {
		base = pair[:idx]
		quote = pair[idx+1:]
	} else {
		base = pair
	}
	return base, quote, settle
}

func isContract(symbol string) bool {
	return strings.Contains(symbol, ":")
}

// unifySymbol rebuilds a unified symbol from its parts.
func unifySymbol(base, quote, settle string) string {
	symbol := base + "/" + quote
	if settle != "" {
		symbol += ":" + settle
	}
	return symbol
}
