package trade

import (
	"context"
	"errors"

	"github.com/tickr-ai/tickr/pkg/config"
	"github.com/tickr-ai/tickr/pkg/exchange"
)

// fakeExchange records calls and returns canned data.
type fakeExchange struct {
	name string

	balance    exchange.Balance
	markets    map[string]*exchange.Market
	position   []exchange.Position
	order      *exchange.Order
	orders     []exchange.Order
	savings    []map[string]any
	savingsAck map[string]any
	savingsPos []exchange.SavingsPosition

	err        error
	orderErr   error
	savingsErr error

	calls       []string
	lastSymbol  string
	lastMarket  exchange.MarketType
	lastID      string
	lastRequest exchange.OrderRequest
	lastAsset   string
	lastAmount  float64
}

func (f *fakeExchange) record(call, symbol string) {
	f.calls = append(f.calls, call)
	f.lastSymbol = symbol
}

func (f *fakeExchange) count(call string) int {
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeExchange) Name() string { return f.name }

func (f *fakeExchange) FetchTicker(ctx context.Context, symbol string) (*exchange.Ticker, error) {
	f.record("FetchTicker", symbol)
	return nil, f.err
}

func (f *fakeExchange) FetchTickers(ctx context.Context) (map[string]*exchange.Ticker, error) {
	f.record("FetchTickers", "")
	return nil, f.err
}

func (f *fakeExchange) FetchOrderBook(ctx context.Context, symbol string, limit int) (*exchange.OrderBook, error) {
	f.record("FetchOrderBook", symbol)
	return nil, f.err
}

func (f *fakeExchange) FetchTrades(ctx context.Context, symbol string, limit int) ([]exchange.Trade, error) {
	f.record("FetchTrades", symbol)
	return nil, f.err
}

func (f *fakeExchange) FetchMarkets(ctx context.Context) (map[string]*exchange.Market, error) {
	f.record("FetchMarkets", "")
	return f.markets, f.err
}

func (f *fakeExchange) FetchOHLCV(ctx context.Context, symbol, timeframe string, limit int) ([]exchange.Candle, error) {
	f.record("FetchOHLCV", symbol)
	return nil, f.err
}

func (f *fakeExchange) FetchFundingRateHistory(ctx context.Context, symbol string, limit int) ([]exchange.FundingRate, error) {
	f.record("FetchFundingRateHistory", symbol)
	return nil, f.err
}

func (f *fakeExchange) FetchOpenInterestHistory(ctx context.Context, symbol, timeframe string, limit int) ([]exchange.OpenInterest, error) {
	f.record("FetchOpenInterestHistory", symbol)
	return nil, f.err
}

func (f *fakeExchange) FetchBalance(ctx context.Context, market exchange.MarketType) (exchange.Balance, error) {
	f.record("FetchBalance", "")
	f.lastMarket = market
	return f.balance, f.err
}

func (f *fakeExchange) FetchPositions(ctx context.Context) ([]exchange.Position, error) {
	f.record("FetchPositions", "")
	return f.position, f.err
}

func (f *fakeExchange) CreateOrder(ctx context.Context, req exchange.OrderRequest) (*exchange.Order, error) {
	f.record("CreateOrder", req.Symbol)
	f.lastRequest = req
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	return f.order, f.err
}

func (f *fakeExchange) FetchOrders(ctx context.Context, market exchange.MarketType, symbol string) ([]exchange.Order, error) {
	f.record("FetchOrders", symbol)
	f.lastMarket = market
	return f.orders, f.err
}

func (f *fakeExchange) FetchOpenOrders(ctx context.Context, market exchange.MarketType, symbol string) ([]exchange.Order, error) {
	f.record("FetchOpenOrders", symbol)
	f.lastMarket = market
	return f.orders, f.err
}

func (f *fakeExchange) FetchOrder(ctx context.Context, market exchange.MarketType, id, symbol string) (*exchange.Order, error) {
	f.record("FetchOrder", symbol)
	f.lastMarket = market
	f.lastID = id
	return f.order, f.err
}

func (f *fakeExchange) CancelOrder(ctx context.Context, market exchange.MarketType, id, symbol string) (*exchange.Order, error) {
	f.record("CancelOrder", symbol)
	f.lastMarket = market
	f.lastID = id
	return f.order, f.err
}

func (f *fakeExchange) FetchSavingsProducts(ctx context.Context) ([]map[string]any, error) {
	f.record("FetchSavingsProducts", "")
	return f.savings, f.err
}

func (f *fakeExchange) PurchaseSavings(ctx context.Context, asset string, amount float64) (map[string]any, error) {
	f.record("PurchaseSavings", "")
	f.lastAsset, f.lastAmount = asset, amount
	if f.savingsErr != nil {
		return nil, f.savingsErr
	}
	return f.savingsAck, f.err
}

func (f *fakeExchange) RedeemSavings(ctx context.Context, asset string, amount float64) (map[string]any, error) {
	f.record("RedeemSavings", "")
	f.lastAsset, f.lastAmount = asset, amount
	if f.savingsErr != nil {
		return nil, f.savingsErr
	}
	return f.savingsAck, f.err
}

func (f *fakeExchange) FetchSavingsBalance(ctx context.Context) ([]exchange.SavingsPosition, error) {
	f.record("FetchSavingsBalance", "")
	return f.savingsPos, f.err
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
