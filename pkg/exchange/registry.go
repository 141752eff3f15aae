package exchange

import (
	"fmt"
	"sort"

	"github.com/tickr-ai/tickr/pkg/config"
	"github.com/tickr-ai/tickr/pkg/tool"
)

// entry is one row of the venue table: a constructor plus the static
// capability description. Adding a venue means adding a row here, not
// another branch in call sites.
type entry struct {
	build      func(cfg *config.Config, creds config.Credentials) Exchange
	capability Capability
}

var registry = map[string]entry{
	"binance": {
		build: func(cfg *config.Config, creds config.Credentials) Exchange {
			return newBinance(cfg, creds)
		},
		capability: Capability{
			FetchTicker:       true,
			FetchOrderBook:    true,
			FetchTrades:       true,
			FetchOHLCV:        true,
			FetchFundingRate:  true,
			FetchOpenInterest: true,
			Trading:           true,
			Savings:           true,
			RateLimit:         50,
		},
	},
	"okx": {
		build: func(cfg *config.Config, creds config.Credentials) Exchange {
			return newOKX(cfg, creds)
		},
		capability: Capability{
			FetchTicker:       true,
			FetchOrderBook:    true,
			FetchTrades:       true,
			FetchOHLCV:        true,
			FetchFundingRate:  true,
			FetchOpenInterest: true,
			Trading:           true,
			Savings:           true,
			RateLimit:         100,
		},
	},
}

// Supported returns the registered venue names, sorted.
func Supported() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Capabilities returns the capability table keyed by venue name.
func Capabilities() map[string]Capability {
	out := make(map[string]Capability, len(registry))
	for name, e := range registry {
		out[name] = e.capability
	}
	return out
}

// New builds a public-data handle for the named venue. The name must
// already be normalized. Unsupported venues fail before any network call.
func New(name string, cfg *config.Config) (Exchange, error) {
	e, ok := registry[name]
	if !ok {
		return nil, &tool.ConfigError{Reason: fmt.Sprintf("exchange %q is not supported (supported: %v)", name, Supported())}
	}
	return e.build(cfg, config.Credentials{}), nil
}

// NewPrivate builds an authenticated handle, resolving credentials from
// the environment on this call. Missing credentials fail before any
// network call.
func NewPrivate(name string, cfg *config.Config) (Exchange, error) {
	e, ok := registry[name]
	if !ok {
		return nil, &tool.ConfigError{Reason: fmt.Sprintf("exchange %q is not supported (supported: %v)", name, Supported())}
	}
	creds := cfg.Credentials(name)
	if !creds.Complete() {
		return nil, &tool.ConfigError{Reason: fmt.Sprintf("missing API credentials for %s: set %s_API_KEY and %s_SECRET", name, upper(name), upper(name))}
	}
	return e.build(cfg, creds), nil
}
