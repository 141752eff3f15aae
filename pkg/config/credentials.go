package config

import "strings"

// Credentials holds one exchange's API access keys. Password is the OKX
// passphrase; it stays empty for exchanges that do not use one.
type Credentials struct {
	APIKey   string
	Secret   string
	Password string
}

// Complete reports whether the key and secret are both present.
func (c Credentials) Complete() bool {
	return c.APIKey != "" && c.Secret != ""
}

// Credentials resolves API credentials for the named exchange from the
// environment: <EXCHANGE>_API_KEY, <EXCHANGE>_SECRET and
// <EXCHANGE>_PASSWORD. The lookup happens on every call, so rotated keys
// take effect without a restart.
func (c *Config) Credentials(exchange string) Credentials {
	prefix := strings.ToUpper(strings.TrimSpace(exchange))
	return Credentials{
		APIKey:   c.Env(prefix + "_API_KEY"),
		Secret:   c.Env(prefix + "_SECRET"),
		Password: c.Env(prefix + "_PASSWORD"),
	}
}
