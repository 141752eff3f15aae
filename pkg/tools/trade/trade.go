// Package trade provides authenticated trading tools: balances, spot and
// futures order management, positions and flexible savings.
//
// Write operations (placing and cancelling orders, savings subscriptions
// and redemptions) are at-most-once; they are never retried, a failed
// attempt is reported back to the caller.
package trade

import (
	"github.com/tickr-ai/tickr/pkg/config"
	"github.com/tickr-ai/tickr/pkg/exchange"
	"github.com/tickr-ai/tickr/pkg/tool"
)

// DefaultExchange is used when the caller does not name a venue.
const DefaultExchange = "binance"

// Dialer builds an authenticated exchange handle by name. Tests substitute
// fakes.
type Dialer func(name string, cfg *config.Config) (exchange.Exchange, error)

type deps struct {
	cfg  *config.Config
	dial Dialer
}

func resolveExchange(params map[string]any) string {
	name := tool.NormalizeName(tool.StringParam(params, "exchange"))
	if name == "" {
		name = DefaultExchange
	}
	return name
}

// NewRegistry builds the trading tool set backed by real exchanges with
// credentials taken from the environment.
func NewRegistry(cfg *config.Config) *tool.Registry {
	return newRegistry(cfg, exchange.NewPrivate)
}

func newRegistry(cfg *config.Config, dial Dialer) *tool.Registry {
	d := deps{cfg: cfg, dial: dial}
	return tool.NewRegistry(
		&balanceTool{deps: d, market: exchange.MarketSpot},
		&balanceTool{deps: d, market: exchange.MarketFutures},
		&placeSpotOrderTool{d},
		&placeFuturesOrderTool{d},
		&listOrdersTool{deps: d, market: exchange.MarketSpot, mode: modeAll},
		&listOrdersTool{deps: d, market: exchange.MarketSpot, mode: modeOpen},
		&listOrdersTool{deps: d, market: exchange.MarketSpot, mode: modeClosed},
		&listOrdersTool{deps: d, market: exchange.MarketFutures, mode: modeAll},
		&listOrdersTool{deps: d, market: exchange.MarketFutures, mode: modeOpen},
		&listOrdersTool{deps: d, market: exchange.MarketFutures, mode: modeClosed},
		&cancelOrderTool{deps: d, market: exchange.MarketSpot},
		&cancelOrderTool{deps: d, market: exchange.MarketFutures},
		&orderDetailTool{deps: d, market: exchange.MarketSpot},
		&orderDetailTool{deps: d, market: exchange.MarketFutures},
		&positionsTool{d},
		&savingsProductsTool{d},
		&savingsYieldTool{d},
		&savingsTransferTool{deps: d},
		&savingsTransferTool{deps: d, redeem: true},
		&savingsBalanceTool{d},
	)
}

// requireSymbolFor checks that a symbol matches the market type's shape:
// BASE/QUOTE for spot, BASE/QUOTE:SETTLE for futures.
func requireSymbolFor(market exchange.MarketType, symbol string) error {
	if market == exchange.MarketFutures {
		return tool.RequireContractSymbol(symbol)
	}
	return tool.RequireSpotSymbol(symbol)
}

// marketLabel names the market type in tool names and messages.
func marketLabel(market exchange.MarketType) string {
	if market == exchange.MarketFutures {
		return "futures"
	}
	return "spot"
}
