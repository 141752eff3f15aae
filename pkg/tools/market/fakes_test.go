package market

import (
	"context"
	"errors"

	"github.com/tickr-ai/tickr/pkg/config"
	"github.com/tickr-ai/tickr/pkg/exchange"
)

// fakeExchange records calls and returns canned data.
type fakeExchange struct {
	name string

	ticker   *exchange.Ticker
	tickers  map[string]*exchange.Ticker
	book     *exchange.OrderBook
	trades   []exchange.Trade
	markets  map[string]*exchange.Market
	candles  []exchange.Candle
	rates    []exchange.FundingRate
	points   []exchange.OpenInterest
	balance  exchange.Balance
	position []exchange.Position
	order    *exchange.Order
	orders   []exchange.Order
	savings  []map[string]any

	err error

	calls         []string
	lastSymbol    string
	lastLimit     int
	lastTimeframe string
	lastRequest   exchange.OrderRequest
}

func (f *fakeExchange) record(call, symbol string) {
	f.calls = append(f.calls, call)
	f.lastSymbol = symbol
}

func (f *fakeExchange) Name() string { return f.name }

func (f *fakeExchange) FetchTicker(ctx context.Context, symbol string) (*exchange.Ticker, error) {
	f.record("FetchTicker", symbol)
	return f.ticker, f.err
}

func (f *fakeExchange) FetchTickers(ctx context.Context) (map[string]*exchange.Ticker, error) {
	f.record("FetchTickers", "")
	return f.tickers, f.err
}

func (f *fakeExchange) FetchOrderBook(ctx context.Context, symbol string, limit int) (*exchange.OrderBook, error) {
	f.record("FetchOrderBook", symbol)
	f.lastLimit = limit
	return f.book, f.err
}

func (f *fakeExchange) FetchTrades(ctx context.Context, symbol string, limit int) ([]exchange.Trade, error) {
	f.record("FetchTrades", symbol)
	f.lastLimit = limit
	return f.trades, f.err
}

func (f *fakeExchange) FetchMarkets(ctx context.Context) (map[string]*exchange.Market, error) {
	f.record("FetchMarkets", "")
	return f.markets, f.err
}

func (f *fakeExchange) FetchOHLCV(ctx context.Context, symbol, timeframe string, limit int) ([]exchange.Candle, error) {
	f.record("FetchOHLCV", symbol)
	f.lastTimeframe = timeframe
	f.lastLimit = limit
	return f.candles, f.err
}

func (f *fakeExchange) FetchFundingRateHistory(ctx context.Context, symbol string, limit int) ([]exchange.FundingRate, error) {
	f.record("FetchFundingRateHistory", symbol)
	f.lastLimit = limit
	return f.rates, f.err
}

func (f *fakeExchange) FetchOpenInterestHistory(ctx context.Context, symbol, timeframe string, limit int) ([]exchange.OpenInterest, error) {
	f.record("FetchOpenInterestHistory", symbol)
	f.lastTimeframe = timeframe
	return f.points, f.err
}

func (f *fakeExchange) FetchBalance(ctx context.Context, market exchange.MarketType) (exchange.Balance, error) {
	f.record("FetchBalance", string(market))
	return f.balance, f.err
}

func (f *fakeExchange) FetchPositions(ctx context.Context) ([]exchange.Position, error) {
	f.record("FetchPositions", "")
	return f.position, f.err
}

func (f *fakeExchange) CreateOrder(ctx context.Context, req exchange.OrderRequest) (*exchange.Order, error) {
	f.record("CreateOrder", req.Symbol)
	f.lastRequest = req
	return f.order, f.err
}

func (f *fakeExchange) FetchOrders(ctx context.Context, market exchange.MarketType, symbol string) ([]exchange.Order, error) {
	f.record("FetchOrders", symbol)
	return f.orders, f.err
}

func (f *fakeExchange) FetchOpenOrders(ctx context.Context, market exchange.MarketType, symbol string) ([]exchange.Order, error) {
	f.record("FetchOpenOrders", symbol)
	return f.orders, f.err
}

func (f *fakeExchange) FetchOrder(ctx context.Context, market exchange.MarketType, id, symbol string) (*exchange.Order, error) {
	f.record("FetchOrder", symbol)
	return f.order, f.err
}

func (f *fakeExchange) CancelOrder(ctx context.Context, market exchange.MarketType, id, symbol string) (*exchange.Order, error) {
	f.record("CancelOrder", symbol)
	return f.order, f.err
}

func (f *fakeExchange) FetchSavingsProducts(ctx context.Context) ([]map[string]any, error) {
	f.record("FetchSavingsProducts", "")
	return f.savings, f.err
}

func (f *fakeExchange) PurchaseSavings(ctx context.Context, asset string, amount float64) (map[string]any, error) {
	f.record("PurchaseSavings", "")
	return nil, f.err
}

func (f *fakeExchange) RedeemSavings(ctx context.Context, asset string, amount float64) (map[string]any, error) {
	f.record("RedeemSavings", "")
	return nil, f.err
}

func (f *fakeExchange) FetchSavingsBalance(ctx context.Context) ([]exchange.SavingsPosition, error) {
	f.record("FetchSavingsBalance", "")
	return nil, f.err
}

// fakeDialer counts dials and hands out the fake.
type fakeDialer struct {
	ex    *fakeExchange
	dials int
}

func (d *fakeDialer) dial(name string, cfg *config.Config) (exchange.Exchange, error) {
	d.dials++
	if d.ex == nil {
		return nil, errors.New("no exchange configured")
	}
	d.ex.name = name
	return d.ex, nil
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Env = func(string) string { return "" }
	return cfg
}
