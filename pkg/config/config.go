// Package config holds the runtime configuration for tickr.
//
// Configuration is an explicit value threaded through constructors. Nothing
// in the tool packages reads the environment directly; everything that is
// environment-derived (exchange credentials, proxies, LLM settings) goes
// through a Config, which makes tests trivial to isolate.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultHTTPTimeout is the timeout applied to exchange and news HTTP
	// calls when none is configured.
	DefaultHTTPTimeout = 30 * time.Second

	// MinHTTPTimeout and MaxHTTPTimeout bound the configurable HTTP
	// timeout window.
	MinHTTPTimeout = 10 * time.Second
	MaxHTTPTimeout = 60 * time.Second

	// DefaultBrowserTimeout is the per-task budget for browser automation,
	// covering launch, navigation and extraction.
	DefaultBrowserTimeout = 60 * time.Second
)

// Config is the full runtime configuration.
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	HTTP    HTTPConfig    `yaml:"http"`
	Browser BrowserConfig `yaml:"browser"`

	// Env is the environment lookup used for credentials and proxies.
	// Defaults to os.Getenv; tests substitute their own.
	Env func(string) string `yaml:"-"`
}

// LLMConfig configures the model used to drive agents.
type LLMConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`

	// MaxIterations bounds the tool-calling loop per user turn.
	MaxIterations int `yaml:"max_iterations"`
}

// HTTPConfig configures outbound HTTP calls to exchanges and news feeds.
type HTTPConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// BrowserConfig configures browser automation.
type BrowserConfig struct {
	Headless       bool   `yaml:"headless"`
	UserAgent      string `yaml:"user_agent"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Default returns a Config with all defaults applied.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:         "gpt-4o",
			MaxIterations: 25,
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: int(DefaultHTTPTimeout / time.Second),
		},
		Browser: BrowserConfig{
			Headless:       true,
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			TimeoutSeconds: int(DefaultBrowserTimeout / time.Second),
		},
		Env: os.Getenv,
	}
}

// DefaultPath returns the default config file location, ~/.tickr/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".tickr", "config.yaml"), nil
}

// Load reads a YAML config from path, layered over defaults. A missing file
// is not an error; defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Env == nil {
		cfg.Env = os.Getenv
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv layers environment overrides over the loaded values. Only LLM
// settings come from the environment here; exchange credentials are always
// resolved per call via Credentials.
func (c *Config) applyEnv() {
	if v := c.Env("OPENAI_API_KEY"); v != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = v
	}
	if v := c.Env("OPENAI_BASE_URL"); v != "" && c.LLM.BaseURL == "" {
		c.LLM.BaseURL = v
	}
	if v := c.Env("TICKR_MODEL"); v != "" {
		c.LLM.Model = v
	}
}

// HTTPTimeout returns the configured HTTP timeout clamped to the
// [MinHTTPTimeout, MaxHTTPTimeout] window.
func (c *Config) HTTPTimeout() time.Duration {
	d := time.Duration(c.HTTP.TimeoutSeconds) * time.Second
	if d < MinHTTPTimeout {
		return MinHTTPTimeout
	}
	if d > MaxHTTPTimeout {
		return MaxHTTPTimeout
	}
	return d
}

// BrowserTimeout returns the per-task browser budget.
func (c *Config) BrowserTimeout() time.Duration {
	if c.Browser.TimeoutSeconds <= 0 {
		return DefaultBrowserTimeout
	}
	return time.Duration(c.Browser.TimeoutSeconds) * time.Second
}

// ProxyURL returns the proxy configured via the conventional environment
// variables, preferring https_proxy over http_proxy. Empty when none is
// set.
func (c *Config) ProxyURL() string {
	for _, key := range []string{"https_proxy", "HTTPS_PROXY", "http_proxy", "HTTP_PROXY"} {
		if v := c.Env(key); v != "" {
			return v
		}
	}
	return ""
}
