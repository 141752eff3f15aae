package tool

import (
	"encoding/json"
	"math"
)

// Parameter extraction from the loosely typed maps JSON decoding produces.
// Numbers arrive as float64 (or json.Number when decoders are configured
// that way), so integer parameters tolerate both.

// StringParam returns the string value at key, or "" when absent or not a
// string.
func StringParam(params map[string]any, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

// FloatParam returns the numeric value at key and whether it was present.
func FloatParam(params map[string]any, key string) (float64, bool) {
	switch v := params[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f, true
		}
	}
	return 0, false
}

// IntParam returns the integer value at key and whether it was present as a
// whole number.
func IntParam(params map[string]any, key string) (int, bool) {
	f, ok := FloatParam(params, key)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// IntOrDefault returns the integer at key, or def when absent or malformed.
func IntOrDefault(params map[string]any, key string, def int) int {
	if v, ok := IntParam(params, key); ok {
		return v
	}
	return def
}

// StringSliceParam returns the string slice at key. JSON arrays decode to
// []any, so both shapes are accepted.
func StringSliceParam(params map[string]any, key string) []string {
	switch v := params[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
