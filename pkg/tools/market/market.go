// Package market provides read-only crypto market data tools: tickers,
// order books, trades, klines, funding rates, open interest and coin
// research lookups.
//
// Every tool resolves a fresh exchange handle per call and reports through
// the shared invocation envelope.
package market

import (
	"github.com/tickr-ai/tickr/pkg/config"
	"github.com/tickr-ai/tickr/pkg/exchange"
	"github.com/tickr-ai/tickr/pkg/tool"
)

// DefaultExchange is used when the caller does not name a venue.
const DefaultExchange = "binance"

// Dialer builds an exchange handle by name. Tests substitute fakes.
type Dialer func(name string, cfg *config.Config) (exchange.Exchange, error)

type deps struct {
	cfg  *config.Config
	dial Dialer
}

// resolveExchange normalizes the exchange parameter, applying the default
// venue when absent.
func resolveExchange(params map[string]any) string {
	name := tool.NormalizeName(tool.StringParam(params, "exchange"))
	if name == "" {
		name = DefaultExchange
	}
	return name
}

// NewRegistry builds the market data tool set backed by real exchanges.
func NewRegistry(cfg *config.Config) *tool.Registry {
	return newRegistry(cfg, exchange.New)
}

func newRegistry(cfg *config.Config, dial Dialer) *tool.Registry {
	d := deps{cfg: cfg, dial: dial}
	return tool.NewRegistry(
		&tickerTool{d},
		&orderBookTool{d},
		&tradesTool{d},
		&overviewTool{d},
		&supportedExchangesTool{},
		&symbolInfoTool{d},
		&klineTool{d},
		&fundingRateTool{d},
		&openInterestTool{d},
		newWhitepaperTool(cfg),
		newCoinIntroTool(cfg),
	)
}
