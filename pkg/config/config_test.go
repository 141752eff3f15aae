package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeEnv(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout())
	assert.True(t, cfg.Browser.Headless)
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("llm:\n  model: gpt-4.1\nhttp:\n  timeout_seconds: 15\n")
	require.NoError(t, os.WriteFile(path, content, 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4.1", cfg.LLM.Model)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout())
}

func TestHTTPTimeoutClamped(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    time.Duration
	}{
		{"below window", 2, MinHTTPTimeout},
		{"lower bound", 10, 10 * time.Second},
		{"default", 30, 30 * time.Second},
		{"upper bound", 60, 60 * time.Second},
		{"above window", 300, MaxHTTPTimeout},
		{"zero", 0, MinHTTPTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.HTTP.TimeoutSeconds = tt.seconds
			assert.Equal(t, tt.want, cfg.HTTPTimeout())
		})
	}
}

func TestCredentialsReadFreshFromEnv(t *testing.T) {
	values := map[string]string{
		"BINANCE_API_KEY": "key-1",
		"BINANCE_SECRET":  "sec-1",
	}
	cfg := Default()
	cfg.Env = fakeEnv(values)

	creds := cfg.Credentials("binance")
	assert.Equal(t, "key-1", creds.APIKey)
	assert.Equal(t, "sec-1", creds.Secret)
	assert.Empty(t, creds.Password)
	assert.True(t, creds.Complete())

	// Rotation is visible on the next call without reloading config.
	values["BINANCE_API_KEY"] = "key-2"
	assert.Equal(t, "key-2", cfg.Credentials("binance").APIKey)
}

func TestCredentialsNormalizesExchangeName(t *testing.T) {
	cfg := Default()
	cfg.Env = fakeEnv(map[string]string{
		"OKX_API_KEY":  "k",
		"OKX_SECRET":   "s",
		"OKX_PASSWORD": "p",
	})

	creds := cfg.Credentials(" okx ")
	assert.Equal(t, "p", creds.Password)
	assert.True(t, creds.Complete())
}

func TestCredentialsIncomplete(t *testing.T) {
	cfg := Default()
	cfg.Env = fakeEnv(map[string]string{"OKX_API_KEY": "k"})
	assert.False(t, cfg.Credentials("okx").Complete())
}

func TestProxyURLPrecedence(t *testing.T) {
	cfg := Default()
	cfg.Env = fakeEnv(map[string]string{
		"http_proxy":  "http://plain:8080",
		"https_proxy": "http://secure:8080",
	})
	assert.Equal(t, "http://secure:8080", cfg.ProxyURL())

	cfg.Env = fakeEnv(map[string]string{"HTTP_PROXY": "http://upper:8080"})
	assert.Equal(t, "http://upper:8080", cfg.ProxyURL())

	cfg.Env = fakeEnv(nil)
	assert.Empty(t, cfg.ProxyURL())
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := Default()
	cfg.Env = fakeEnv(map[string]string{
		"OPENAI_API_KEY": "sk-env",
		"TICKR_MODEL":    "gpt-4.1-mini",
	})
	cfg.applyEnv()

	assert.Equal(t, "sk-env", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-4.1-mini", cfg.LLM.Model)
}
