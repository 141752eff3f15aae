package tool

import "testing"

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase pair", "btc/usdt", "BTC/USDT"},
		{"surrounding whitespace", "  eth/usdt  ", "ETH/USDT"},
		{"contract symbol", "btc/usdt:usdt", "BTC/USDT:USDT"},
		{"already canonical", "BTC/USDT", "BTC/USDT"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSymbol(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeSymbol(%q) = %q, want %q", tt.input, got, tt.want)
			}
			// Idempotence: a second pass must not change the value.
			if again := NormalizeSymbol(got); again != got {
				t.Errorf("NormalizeSymbol not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"mixed case exchange", "Binance", "binance"},
		{"whitespace", " OKX ", "okx"},
		{"asset name", "Bitcoin", "bitcoin"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeName(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := NormalizeName(got); again != got {
				t.Errorf("NormalizeName not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalizeText(t *testing.T) {
	got := NormalizeText("  Fed rate Decision  ")
	if got != "Fed rate Decision" {
		t.Errorf("NormalizeText preserved case/trim incorrectly: %q", got)
	}
	if again := NormalizeText(got); again != got {
		t.Errorf("NormalizeText not idempotent: %q -> %q", got, again)
	}
}
