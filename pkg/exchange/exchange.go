// Package exchange adapts crypto exchange REST APIs behind one unified
// interface. Binance and OKX are implemented; new venues register in the
// capability table in registry.go.
//
// Handles are cheap and short-lived: tools construct a fresh Exchange for
// every call, so credential rotation and proxy changes apply immediately
// and no connection state is shared between invocations.
package exchange

import "context"

// Exchange is a unified handle to one venue. Public market data methods
// work without credentials; trading and account methods require them.
type Exchange interface {
	// Name returns the registry name of the venue, e.g. "binance".
	Name() string

	// FetchTicker returns the 24h snapshot for one symbol.
	FetchTicker(ctx context.Context, symbol string) (*Ticker, error)

	// FetchTickers returns 24h snapshots for all spot symbols.
	FetchTickers(ctx context.Context) (map[string]*Ticker, error)

	// FetchOrderBook returns up to limit levels per side.
	FetchOrderBook(ctx context.Context, symbol string, limit int) (*OrderBook, error)

	// FetchTrades returns the most recent public trades, oldest first.
	FetchTrades(ctx context.Context, symbol string, limit int) ([]Trade, error)

	// FetchMarkets returns all listed instruments keyed by unified symbol.
	FetchMarkets(ctx context.Context) (map[string]*Market, error)

	// FetchOHLCV returns up to limit candles for the timeframe, oldest
	// first. Timeframes use the common notation: 1m, 5m, 15m, 1h, 4h, 1d.
	FetchOHLCV(ctx context.Context, symbol, timeframe string, limit int) ([]Candle, error)

	// FetchFundingRateHistory returns historical funding rates for a
	// perpetual, oldest first.
	FetchFundingRateHistory(ctx context.Context, symbol string, limit int) ([]FundingRate, error)

	// FetchOpenInterestHistory returns historical open interest points
	// for a perpetual, oldest first.
	FetchOpenInterestHistory(ctx context.Context, symbol, timeframe string, limit int) ([]OpenInterest, error)

	// FetchBalance returns account balances for the given market type.
	FetchBalance(ctx context.Context, market MarketType) (Balance, error)

	// FetchPositions returns open perpetual positions.
	FetchPositions(ctx context.Context) ([]Position, error)

	// CreateOrder places an order. Never retried: order placement is
	// at-most-once.
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)

	// FetchOrders returns recent orders for a symbol in any state.
	FetchOrders(ctx context.Context, market MarketType, symbol string) ([]Order, error)

	// FetchOpenOrders returns open orders. Empty symbol means all symbols
	// where the venue supports it.
	FetchOpenOrders(ctx context.Context, market MarketType, symbol string) ([]Order, error)

	// FetchOrder returns one order by ID.
	FetchOrder(ctx context.Context, market MarketType, id, symbol string) (*Order, error)

	// CancelOrder cancels one order by ID. Never retried.
	CancelOrder(ctx context.Context, market MarketType, id, symbol string) (*Order, error)

	// FetchSavingsProducts returns the venue's flexible savings offerings.
	// Rows keep the venue's native field names; Binance exposes
	// asset/latestAnnualPercentageRate, OKX exposes ccy/preRate.
	FetchSavingsProducts(ctx context.Context) ([]map[string]any, error)

	// PurchaseSavings subscribes an amount of one asset into flexible
	// savings and returns the venue's acknowledgement in its native field
	// names. Never retried: subscriptions are at-most-once, like orders.
	PurchaseSavings(ctx context.Context, asset string, amount float64) (map[string]any, error)

	// RedeemSavings redeems an amount of one asset from flexible savings.
	// Never retried.
	RedeemSavings(ctx context.Context, asset string, amount float64) (map[string]any, error)

	// FetchSavingsBalance returns current flexible savings holdings.
	FetchSavingsBalance(ctx context.Context) ([]SavingsPosition, error)
}

// Capability describes what one venue supports, surfaced to agents through
// the supported-exchanges tool.
type Capability struct {
	FetchTicker       bool `json:"has_fetch_ticker"`
	FetchOrderBook    bool `json:"has_fetch_order_book"`
	FetchTrades       bool `json:"has_fetch_trades"`
	FetchOHLCV        bool `json:"has_fetch_ohlcv"`
	FetchFundingRate  bool `json:"has_fetch_funding_rate"`
	FetchOpenInterest bool `json:"has_fetch_open_interest"`
	Trading           bool `json:"has_trading"`
	Savings           bool `json:"has_savings"`

	// RateLimit is the venue's request interval in milliseconds.
	RateLimit int `json:"rate_limit"`
}
