package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tickr-ai/tickr/pkg/config"
	"github.com/tickr-ai/tickr/pkg/tool"
)

const (
	binanceAPI  = "https://api.binance.com"
	binanceFAPI = "https://fapi.binance.com"
	binancePAPI = "https://papi.binance.com"

	binanceRecvWindow = "5000"
)

// binance adapts the Binance spot, USD-M futures and portfolio margin
// APIs. Futures account state and orders go through the portfolio margin
// (papi) endpoints; public futures data through fapi.
type binance struct {
	cfg   *config.Config
	creds config.Credentials
	rest  *restClient

	api  string
	fapi string
	papi string
}

func newBinance(cfg *config.Config, creds config.Credentials) *binance {
	return &binance{
		cfg:   cfg,
		creds: creds,
		rest:  newRESTClient(cfg, "binance"),
		api:   binanceAPI,
		fapi:  binanceFAPI,
		papi:  binancePAPI,
	}
}

func (b *binance) Name() string { return "binance" }

// marketID translates a unified symbol to Binance's joined form,
// BTC/USDT:USDT -> BTCUSDT.
func (b *binance) marketID(symbol string) string {
	base, quote, _ := splitSymbol(symbol)
	return base + quote
}

func (b *binance) publicBase(symbol string) string {
	if isContract(symbol) {
		return b.fapi
	}
	return b.api
}

func (b *binance) publicPath(symbol, spotPath, futuresPath string) string {
	if isContract(symbol) {
		return futuresPath
	}
	return spotPath
}

// signedCall signs params with HMAC-SHA256 over the query string and sends
// the request with the API key header.
func (b *binance) signedCall(ctx context.Context, method, base, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	params.Set("recvWindow", binanceRecvWindow)

	query := params.Encode()
	mac := hmac.New(sha256.New, []byte(b.creds.Secret))
	mac.Write([]byte(query))
	signed := query + "&signature=" + hex.EncodeToString(mac.Sum(nil))

	headers := map[string]string{"X-MBX-APIKEY": b.creds.APIKey}
	data, err := b.rest.do(ctx, method, base+path+"?"+signed, headers, nil)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode binance response: %w", err)
	}
	return nil
}

type binanceTicker struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	BidPrice           string `json:"bidPrice"`
	AskPrice           string `json:"askPrice"`
	HighPrice          string `json:"highPrice"`
	LowPrice           string `json:"lowPrice"`
	OpenPrice          string `json:"openPrice"`
	Volume             string `json:"volume"`
	QuoteVolume        string `json:"quoteVolume"`
	PriceChange        string `json:"priceChange"`
	PriceChangePercent string `json:"priceChangePercent"`
	CloseTime          int64  `json:"closeTime"`
}

func (t *binanceTicker) unify(symbol string) *Ticker {
	return &Ticker{
		Symbol:      symbol,
		Last:        parseFloat(t.LastPrice),
		Bid:         parseFloat(t.BidPrice),
		Ask:         parseFloat(t.AskPrice),
		High:        parseFloat(t.HighPrice),
		Low:         parseFloat(t.LowPrice),
		Open:        parseFloat(t.OpenPrice),
		BaseVolume:  parseFloat(t.Volume),
		QuoteVolume: parseFloat(t.QuoteVolume),
		Change:      parseFloat(t.PriceChange),
		Percentage:  parseFloat(t.PriceChangePercent),
		Timestamp:   t.CloseTime,
	}
}

func (b *binance) FetchTicker(ctx context.Context, symbol string) (*Ticker, error) {
	path := b.publicPath(symbol, "/api/v3/ticker/24hr", "/fapi/v1/ticker/24hr")
	rawURL := fmt.Sprintf("%s%s?symbol=%s", b.publicBase(symbol), path, b.marketID(symbol))

	var raw binanceTicker
	if err := b.rest.getJSON(ctx, rawURL, nil, &raw); err != nil {
		return nil, err
	}
	return raw.unify(symbol), nil
}

// binanceQuotes are the quote currencies recognized when rebuilding
// unified symbols from Binance's joined form. Longest match first.
var binanceQuotes = []string{"FDUSD", "USDT", "USDC", "TUSD", "BUSD", "BTC", "ETH", "BNB", "EUR", "TRY"}

func splitBinanceSymbol(joined string) (base, quote string, ok bool) {
	for _, q := range binanceQuotes {
		if strings.HasSuffix(joined, q) && len(joined) > len(q) {
			return joined[:len(joined)-len(q)], q, true
		}
	}
	return "", "", false
}

func (b *binance) FetchTickers(ctx context.Context) (map[string]*Ticker, error) {
	var raw []binanceTicker
	if err := b.rest.getJSON(ctx, b.api+"/api/v3/ticker/24hr", nil, &raw); err != nil {
		return nil, err
	}

	tickers := make(map[string]*Ticker, len(raw))
	for i := range raw {
		base, quote, ok := splitBinanceSymbol(raw[i].Symbol)
		if !ok {
			continue
		}
		symbol := unifySymbol(base, quote, "")
		tickers[symbol] = raw[i].unify(symbol)
	}
	return tickers, nil
}

func (b *binance) FetchOrderBook(ctx context.Context, symbol string, limit int) (*OrderBook, error) {
	path := b.publicPath(symbol, "/api/v3/depth", "/fapi/v1/depth")
	rawURL := fmt.Sprintf("%s%s?symbol=%s&limit=%d", b.publicBase(symbol), path, b.marketID(symbol), limit)

	var raw struct {
		Bids [][]string `json:"bids"`
		Asks [][]string `json:"asks"`
	}
	if err := b.rest.getJSON(ctx, rawURL, nil, &raw); err != nil {
		return nil, err
	}

	book := &OrderBook{Symbol: symbol, Timestamp: time.Now().UnixMilli()}
	for _, level := range raw.Bids {
		if len(level) >= 2 {
			book.Bids = append(book.Bids, BookLevel{Price: parseFloat(level[0]), Amount: parseFloat(level[1])})
		}
	}
	for _, level := range raw.Asks {
		if len(level) >= 2 {
			book.Asks = append(book.Asks, BookLevel{Price: parseFloat(level[0]), Amount: parseFloat(level[1])})
		}
	}
	return book, nil
}

func (b *binance) FetchTrades(ctx context.Context, symbol string, limit int) ([]Trade, error) {
	path := b.publicPath(symbol, "/api/v3/trades", "/fapi/v1/trades")
	rawURL := fmt.Sprintf("%s%s?symbol=%s&limit=%d", b.publicBase(symbol), path, b.marketID(symbol), limit)

	var raw []struct {
		ID           int64  `json:"id"`
		Price        string `json:"price"`
		Qty          string `json:"qty"`
		QuoteQty     string `json:"quoteQty"`
		Time         int64  `json:"time"`
		IsBuyerMaker bool   `json:"isBuyerMaker"`
	}
	if err := b.rest.getJSON(ctx, rawURL, nil, &raw); err != nil {
		return nil, err
	}

	trades := make([]Trade, 0, len(raw))
	for _, t := range raw {
		side := "buy"
		if t.IsBuyerMaker {
			side = "sell"
		}
		trades = append(trades, Trade{
			ID:        strconv.FormatInt(t.ID, 10),
			Symbol:    symbol,
			Side:      side,
			Price:     parseFloat(t.Price),
			Amount:    parseFloat(t.Qty),
			Cost:      parseFloat(t.QuoteQty),
			Timestamp: t.Time,
		})
	}
	return trades, nil
}

type binanceFilter struct {
	FilterType  string `json:"filterType"`
	StepSize    string `json:"stepSize"`
	TickSize    string `json:"tickSize"`
	MinQty      string `json:"minQty"`
	MinNotional string `json:"minNotional"`
	Notional    string `json:"notional"`
}

func applyBinanceFilters(m *Market, filters []binanceFilter) {
	for _, f := range filters {
		switch f.FilterType {
		case "LOT_SIZE", "MARKET_LOT_SIZE":
			if f.StepSize != "" {
				m.AmountPrecision = precisionFromStep(f.StepSize)
			}
			if f.MinQty != "" {
				m.MinAmount = parseFloat(f.MinQty)
			}
		case "PRICE_FILTER":
			if f.TickSize != "" {
				m.PricePrecision = precisionFromStep(f.TickSize)
			}
		case "NOTIONAL", "MIN_NOTIONAL":
			if f.MinNotional != "" {
				m.MinCost = parseFloat(f.MinNotional)
			} else if f.Notional != "" {
				m.MinCost = parseFloat(f.Notional)
			}
		}
	}
}

func (b *binance) FetchMarkets(ctx context.Context) (map[string]*Market, error) {
	markets := make(map[string]*Market)

	var spot struct {
		Symbols []struct {
			Symbol     string          `json:"symbol"`
			Status     string          `json:"status"`
			BaseAsset  string          `json:"baseAsset"`
			QuoteAsset string          `json:"quoteAsset"`
			Filters    []binanceFilter `json:"filters"`
		} `json:"symbols"`
	}
	if err := b.rest.getJSON(ctx, b.api+"/api/v3/exchangeInfo", nil, &spot); err != nil {
		return nil, err
	}
	for _, s := range spot.Symbols {
		m := &Market{
			Symbol:   unifySymbol(s.BaseAsset, s.QuoteAsset, ""),
			Base:     s.BaseAsset,
			Quote:    s.QuoteAsset,
			Active:   s.Status == "TRADING",
			TakerFee: 0.001,
			MakerFee: 0.001,
		}
		applyBinanceFilters(m, s.Filters)
		markets[m.Symbol] = m
	}

	var futures struct {
		Symbols []struct {
			Symbol       string          `json:"symbol"`
			ContractType string          `json:"contractType"`
			Status       string          `json:"status"`
			BaseAsset    string          `json:"baseAsset"`
			QuoteAsset   string          `json:"quoteAsset"`
			MarginAsset  string          `json:"marginAsset"`
			Filters      []binanceFilter `json:"filters"`
		} `json:"symbols"`
	}
	if err := b.rest.getJSON(ctx, b.fapi+"/fapi/v1/exchangeInfo", nil, &futures); err != nil {
		return nil, err
	}
	for _, s := range futures.Symbols {
		if s.ContractType != "PERPETUAL" {
			continue
		}
		m := &Market{
			Symbol:       unifySymbol(s.BaseAsset, s.QuoteAsset, s.MarginAsset),
			Base:         s.BaseAsset,
			Quote:        s.QuoteAsset,
			Settle:       s.MarginAsset,
			Contract:     true,
			ContractSize: 1,
			Active:       s.Status == "TRADING",
			TakerFee:     0.0005,
			MakerFee:     0.0002,
		}
		applyBinanceFilters(m, s.Filters)
		markets[m.Symbol] = m
	}

	return markets, nil
}

func (b *binance) FetchOHLCV(ctx context.Context, symbol, timeframe string, limit int) ([]Candle, error) {
	path := b.publicPath(symbol, "/api/v3/klines", "/fapi/v1/klines")
	rawURL := fmt.Sprintf("%s%s?symbol=%s&interval=%s&limit=%d", b.publicBase(symbol), path, b.marketID(symbol), timeframe, limit)

	var raw [][]any
	if err := b.rest.getJSON(ctx, rawURL, nil, &raw); err != nil {
		return nil, err
	}

	candles := make([]Candle, 0, len(raw))
	for _, k := range raw {
		if len(k) < 6 {
			continue
		}
		candles = append(candles, Candle{
			Timestamp: int64(toFloat(k[0])),
			Open:      toFloat(k[1]),
			High:      toFloat(k[2]),
			Low:       toFloat(k[3]),
			Close:     toFloat(k[4]),
			Volume:    toFloat(k[5]),
		})
	}
	return candles, nil
}

func (b *binance) FetchFundingRateHistory(ctx context.Context, symbol string, limit int) ([]FundingRate, error) {
	rawURL := fmt.Sprintf("%s/fapi/v1/fundingRate?symbol=%s&limit=%d", b.fapi, b.marketID(symbol), limit)

	var raw []struct {
		FundingRate string `json:"fundingRate"`
		FundingTime int64  `json:"fundingTime"`
	}
	if err := b.rest.getJSON(ctx, rawURL, nil, &raw); err != nil {
		return nil, err
	}

	rates := make([]FundingRate, 0, len(raw))
	for _, r := range raw {
		rates = append(rates, FundingRate{Symbol: symbol, Rate: parseFloat(r.FundingRate), Timestamp: r.FundingTime})
	}
	return rates, nil
}

func (b *binance) FetchOpenInterestHistory(ctx context.Context, symbol, timeframe string, limit int) ([]OpenInterest, error) {
	rawURL := fmt.Sprintf("%s/futures/data/openInterestHist?symbol=%s&period=%s&limit=%d", b.fapi, b.marketID(symbol), timeframe, limit)

	var raw []struct {
		SumOpenInterest      string `json:"sumOpenInterest"`
		SumOpenInterestValue string `json:"sumOpenInterestValue"`
		Timestamp            int64  `json:"timestamp"`
	}
	if err := b.rest.getJSON(ctx, rawURL, nil, &raw); err != nil {
		return nil, err
	}

	points := make([]OpenInterest, 0, len(raw))
	for _, p := range raw {
		points = append(points, OpenInterest{
			Symbol:    symbol,
			Amount:    parseFloat(p.SumOpenInterest),
			Value:     parseFloat(p.SumOpenInterestValue),
			Timestamp: p.Timestamp,
		})
	}
	return points, nil
}

func (b *binance) FetchBalance(ctx context.Context, market MarketType) (Balance, error) {
	if market == MarketFutures {
		var raw []struct {
			Asset              string `json:"asset"`
			TotalWalletBalance string `json:"totalWalletBalance"`
			CrossMarginFree    string `json:"crossMarginFree"`
		}
		if err := b.signedCall(ctx, http.MethodGet, b.papi, "/papi/v1/balance", nil, &raw); err != nil {
			return nil, err
		}
		balance := make(Balance)
		for _, a := range raw {
			total := parseFloat(a.TotalWalletBalance)
			free := parseFloat(a.CrossMarginFree)
			balance[a.Asset] = AssetBalance{Free: free, Used: total - free, Total: total}
		}
		return balance, nil
	}

	var raw struct {
		Balances []struct {
			Asset  string `json:"asset"`
			Free   string `json:"free"`
			Locked string `json:"locked"`
		} `json:"balances"`
	}
	if err := b.signedCall(ctx, http.MethodGet, b.api, "/api/v3/account", nil, &raw); err != nil {
		return nil, err
	}
	balance := make(Balance)
	for _, a := range raw.Balances {
		free := parseFloat(a.Free)
		used := parseFloat(a.Locked)
		balance[a.Asset] = AssetBalance{Free: free, Used: used, Total: free + used}
	}
	return balance, nil
}

func (b *binance) FetchPositions(ctx context.Context) ([]Position, error) {
	var raw []struct {
		Symbol           string `json:"symbol"`
		PositionAmt      string `json:"positionAmt"`
		EntryPrice       string `json:"entryPrice"`
		MarkPrice        string `json:"markPrice"`
		UnrealizedProfit string `json:"unRealizedProfit"`
		Leverage         string `json:"leverage"`
		PositionSide     string `json:"positionSide"`
	}
	if err := b.signedCall(ctx, http.MethodGet, b.papi, "/papi/v1/um/positionRisk", nil, &raw); err != nil {
		return nil, err
	}

	positions := make([]Position, 0, len(raw))
	for _, p := range raw {
		amt := parseFloat(p.PositionAmt)
		if amt == 0 {
			continue
		}
		base, quote, ok := splitBinanceSymbol(p.Symbol)
		if !ok {
			continue
		}
		side := strings.ToLower(p.PositionSide)
		if side != "long" && side != "short" {
			if amt > 0 {
				side = "long"
			} else {
				side = "short"
			}
		}
		contracts := amt
		if contracts < 0 {
			contracts = -contracts
		}
		entry := parseFloat(p.EntryPrice)
		mark := parseFloat(p.MarkPrice)
		pnl := parseFloat(p.UnrealizedProfit)
		leverage := parseFloat(p.Leverage)

		var percentage float64
		if initial := contracts * entry; initial > 0 {
			if leverage > 0 {
				initial /= leverage
			}
			percentage = pnl / initial * 100
		}

		positions = append(positions, Position{
			Symbol:        unifySymbol(base, quote, quote),
			Side:          side,
			Contracts:     contracts,
			Notional:      contracts * mark,
			UnrealizedPnL: pnl,
			Percentage:    percentage,
			EntryPrice:    entry,
			MarkPrice:     mark,
			Leverage:      leverage,
		})
	}
	return positions, nil
}

type binanceOrder struct {
	OrderID             int64  `json:"orderId"`
	Symbol              string `json:"symbol"`
	Status              string `json:"status"`
	Type                string `json:"type"`
	Side                string `json:"side"`
	Price               string `json:"price"`
	AvgPrice            string `json:"avgPrice"`
	OrigQty             string `json:"origQty"`
	ExecutedQty         string `json:"executedQty"`
	CummulativeQuoteQty string `json:"cummulativeQuoteQty"`
	Time                int64  `json:"time"`
	TransactTime        int64  `json:"transactTime"`
	UpdateTime          int64  `json:"updateTime"`
}

var binanceStatuses = map[string]string{
	"NEW":              "open",
	"PARTIALLY_FILLED": "open",
	"FILLED":           "closed",
	"CANCELED":         "canceled",
	"PENDING_CANCEL":   "canceled",
	"REJECTED":         "rejected",
	"EXPIRED":          "expired",
}

func (o *binanceOrder) unify(symbol string) Order {
	status, ok := binanceStatuses[o.Status]
	if !ok {
		status = strings.ToLower(o.Status)
	}
	amount := parseFloat(o.OrigQty)
	filled := parseFloat(o.ExecutedQty)
	average := parseFloat(o.AvgPrice)
	cost := parseFloat(o.CummulativeQuoteQty)
	if average == 0 && filled > 0 {
		average = cost / filled
	}
	ts := o.Time
	if ts == 0 {
		ts = o.TransactTime
	}
	return Order{
		ID:                 strconv.FormatInt(o.OrderID, 10),
		Symbol:             symbol,
		Type:               strings.ToLower(o.Type),
		Side:               strings.ToLower(o.Side),
		Price:              parseFloat(o.Price),
		Amount:             amount,
		Filled:             filled,
		Remaining:          amount - filled,
		Average:            average,
		Cost:               cost,
		Status:             status,
		Timestamp:          ts,
		LastTradeTimestamp: o.UpdateTime,
	}
}

// orderBase routes order calls: spot through the exchange API, futures
// through the portfolio margin UM endpoints like the rest of the futures
// account state.
func (b *binance) orderBase(market MarketType) (string, string) {
	if market == MarketFutures {
		return b.papi, "/papi/v1/um"
	}
	return b.api, "/api/v3"
}

func (b *binance) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	params := url.Values{}
	params.Set("symbol", b.marketID(req.Symbol))
	params.Set("side", upper(req.Side))
	params.Set("type", upper(req.Type))
	params.Set("quantity", strconv.FormatFloat(req.Amount, 'f', -1, 64))
	if req.Type == "limit" {
		params.Set("price", strconv.FormatFloat(req.Price, 'f', -1, 64))
		params.Set("timeInForce", "GTC")
	}
	if req.Market == MarketFutures {
		if req.PositionSide != "" {
			params.Set("positionSide", upper(req.PositionSide))
		} else if req.ReduceOnly {
			params.Set("reduceOnly", "true")
		}
	}

	base, prefix := b.orderBase(req.Market)
	var raw binanceOrder
	if err := b.signedCall(ctx, http.MethodPost, base, prefix+"/order", params, &raw); err != nil {
		return nil, err
	}
	order := raw.unify(req.Symbol)
	return &order, nil
}

func (b *binance) FetchOrders(ctx context.Context, market MarketType, symbol string) ([]Order, error) {
	if symbol == "" {
		return nil, &tool.InputError{Field: "symbol", Reason: "is required to list binance order history"}
	}
	params := url.Values{}
	params.Set("symbol", b.marketID(symbol))

	base, prefix := b.orderBase(market)
	var raw []binanceOrder
	if err := b.signedCall(ctx, http.MethodGet, base, prefix+"/allOrders", params, &raw); err != nil {
		return nil, err
	}
	return b.unifyOrders(raw, symbol), nil
}

func (b *binance) FetchOpenOrders(ctx context.Context, market MarketType, symbol string) ([]Order, error) {
	params := url.Values{}
	if symbol != "" {
		params.Set("symbol", b.marketID(symbol))
	}

	base, prefix := b.orderBase(market)
	var raw []binanceOrder
	if err := b.signedCall(ctx, http.MethodGet, base, prefix+"/openOrders", params, &raw); err != nil {
		return nil, err
	}
	return b.unifyOrders(raw, symbol), nil
}

func (b *binance) unifyOrders(raw []binanceOrder, symbol string) []Order {
	orders := make([]Order, 0, len(raw))
	for i := range raw {
		unified := symbol
		if unified == "" {
			base, quote, ok := splitBinanceSymbol(raw[i].Symbol)
			if !ok {
				continue
			}
			unified = unifySymbol(base, quote, "")
		}
		orders = append(orders, raw[i].unify(unified))
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].Timestamp < orders[j].Timestamp })
	return orders
}

func (b *binance) FetchOrder(ctx context.Context, market MarketType, id, symbol string) (*Order, error) {
	params := url.Values{}
	params.Set("symbol", b.marketID(symbol))
	params.Set("orderId", id)

	base, prefix := b.orderBase(market)
	var raw binanceOrder
	if err := b.signedCall(ctx, http.MethodGet, base, prefix+"/order", params, &raw); err != nil {
		return nil, err
	}
	order := raw.unify(symbol)
	return &order, nil
}

func (b *binance) CancelOrder(ctx context.Context, market MarketType, id, symbol string) (*Order, error) {
	params := url.Values{}
	params.Set("symbol", b.marketID(symbol))
	params.Set("orderId", id)

	base, prefix := b.orderBase(market)
	var raw binanceOrder
	if err := b.signedCall(ctx, http.MethodDelete, base, prefix+"/order", params, &raw); err != nil {
		return nil, err
	}
	order := raw.unify(symbol)
	return &order, nil
}

func (b *binance) FetchSavingsProducts(ctx context.Context) ([]map[string]any, error) {
	params := url.Values{}
	params.Set("size", "100")

	var raw struct {
		Rows []map[string]any `json:"rows"`
	}
	if err := b.signedCall(ctx, http.MethodGet, b.api, "/sapi/v1/simple-earn/flexible/list", params, &raw); err != nil {
		return nil, err
	}
	return raw.Rows, nil
}

// savingsParams builds the simple-earn request body. The flexible product
// ID is the asset code itself.
func savingsParams(asset string, amount float64) url.Values {
	params := url.Values{}
	params.Set("productId", asset)
	params.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))
	params.Set("autoSubscribe", "false")
	return params
}

func (b *binance) PurchaseSavings(ctx context.Context, asset string, amount float64) (map[string]any, error) {
	var raw struct {
		PurchaseID int64 `json:"purchaseId"`
		Success    bool  `json:"success"`
	}
	if err := b.signedCall(ctx, http.MethodPost, b.api, "/sapi/v1/simple-earn/flexible/subscribe", savingsParams(asset, amount), &raw); err != nil {
		return nil, err
	}
	return map[string]any{
		"asset":      asset,
		"amount":     amount,
		"purchaseId": raw.PurchaseID,
		"success":    raw.Success,
	}, nil
}

func (b *binance) RedeemSavings(ctx context.Context, asset string, amount float64) (map[string]any, error) {
	var raw struct {
		RedeemID int64 `json:"redeemId"`
		Success  bool  `json:"success"`
	}
	if err := b.signedCall(ctx, http.MethodPost, b.api, "/sapi/v1/simple-earn/flexible/redeem", savingsParams(asset, amount), &raw); err != nil {
		return nil, err
	}
	return map[string]any{
		"asset":    asset,
		"amount":   amount,
		"redeemId": raw.RedeemID,
		"success":  raw.Success,
	}, nil
}

func (b *binance) FetchSavingsBalance(ctx context.Context) ([]SavingsPosition, error) {
	params := url.Values{}
	params.Set("size", "100")

	var raw struct {
		Rows []struct {
			Asset       string `json:"asset"`
			TotalAmount string `json:"totalAmount"`
		} `json:"rows"`
	}
	if err := b.signedCall(ctx, http.MethodGet, b.api, "/sapi/v1/simple-earn/flexible/position", params, &raw); err != nil {
		return nil, err
	}

	positions := make([]SavingsPosition, 0, len(raw.Rows))
	for _, r := range raw.Rows {
		positions = append(positions, SavingsPosition{Asset: r.Asset, Amount: parseFloat(r.TotalAmount)})
	}
	return positions, nil
}
