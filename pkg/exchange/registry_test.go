package exchange

import (
	"errors"
	"testing"

	"github.com/tickr-ai/tickr/pkg/config"
	"github.com/tickr-ai/tickr/pkg/tool"
)

func testConfig(env map[string]string) *config.Config {
	cfg := config.Default()
	cfg.Env = func(key string) string { return env[key] }
	return cfg
}

func TestSupported(t *testing.T) {
	names := Supported()
	if len(names) != 2 || names[0] != "binance" || names[1] != "okx" {
		t.Errorf("Supported() = %v", names)
	}
}

func TestCapabilities(t *testing.T) {
	caps := Capabilities()
	for _, name := range Supported() {
		c, ok := caps[name]
		if !ok {
			t.Fatalf("no capability entry for %s", name)
		}
		if !c.FetchTicker || !c.Trading {
			t.Errorf("%s capability incomplete: %+v", name, c)
		}
		if c.RateLimit <= 0 {
			t.Errorf("%s rate limit should be positive", name)
		}
	}
}

func TestNewUnsupportedExchange(t *testing.T) {
	_, err := New("coinbase", testConfig(nil))
	if err == nil {
		t.Fatal("expected error for unsupported exchange")
	}
	var cfgErr *tool.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected *tool.ConfigError, got %T", err)
	}
}

func TestNewPrivateRequiresCredentials(t *testing.T) {
	_, err := NewPrivate("binance", testConfig(nil))
	if err == nil {
		t.Fatal("expected error without credentials")
	}
	var cfgErr *tool.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *tool.ConfigError, got %T", err)
	}

	cfg := testConfig(map[string]string{
		"BINANCE_API_KEY": "k",
		"BINANCE_SECRET":  "s",
	})
	ex, err := NewPrivate("binance", cfg)
	if err != nil {
		t.Fatalf("unexpected error with credentials: %v", err)
	}
	if ex.Name() != "binance" {
		t.Errorf("Name() = %q", ex.Name())
	}
}

func TestNewPublicNeedsNoCredentials(t *testing.T) {
	ex, err := New("okx", testConfig(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ex.Name() != "okx" {
		t.Errorf("Name() = %q", ex.Name())
	}
}
