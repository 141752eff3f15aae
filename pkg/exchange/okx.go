package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tickr-ai/tickr/pkg/config"
	"github.com/tickr-ai/tickr/pkg/tool"
)

const okxAPI = "https://www.okx.com"

// okx adapts the OKX v5 API. Spot and perpetuals share the unified
// trading account; perpetual instruments use the -SWAP suffix.
type okx struct {
	cfg   *config.Config
	creds config.Credentials
	rest  *restClient

	api string
}

func newOKX(cfg *config.Config, creds config.Credentials) *okx {
	return &okx{
		cfg:   cfg,
		creds: creds,
		rest:  newRESTClient(cfg, "okx"),
		api:   okxAPI,
	}
}

func (o *okx) Name() string { return "okx" }

// instID translates a unified symbol to OKX's dashed form:
// BTC/USDT -> BTC-USDT, BTC/USDT:USDT -> BTC-USDT-SWAP.
func (o *okx) instID(symbol string) string {
	base, quote, _ := splitSymbol(symbol)
	id := base + "-" + quote
	if isContract(symbol) {
		id += "-SWAP"
	}
	return id
}

func instType(market MarketType) string {
	if market == MarketFutures {
		return "SWAP"
	}
	return "SPOT"
}

// okxBars maps common timeframe notation to OKX bar values.
var okxBars = map[string]string{
	"1m": "1m", "3m": "3m", "5m": "5m", "15m": "15m", "30m": "30m",
	"1h": "1H", "2h": "2H", "4h": "4H", "6h": "6H", "12h": "12H",
	"1d": "1D", "1w": "1W",
}

func okxBar(timeframe string) string {
	if bar, ok := okxBars[timeframe]; ok {
		return bar
	}
	return timeframe
}

type okxResponse struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// call sends one request and unwraps OKX's code/msg/data envelope.
// Private calls sign timestamp+method+path+body with HMAC-SHA256/base64
// and attach the passphrase header.
func (o *okx) call(ctx context.Context, method, path string, body any, private bool, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode okx request: %w", err)
		}
	}

	headers := map[string]string{"Content-Type": "application/json"}
	if private {
		timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
		prehash := timestamp + method + path + string(payload)
		mac := hmac.New(sha256.New, []byte(o.creds.Secret))
		mac.Write([]byte(prehash))

		headers["OK-ACCESS-KEY"] = o.creds.APIKey
		headers["OK-ACCESS-SIGN"] = base64.StdEncoding.EncodeToString(mac.Sum(nil))
		headers["OK-ACCESS-TIMESTAMP"] = timestamp
		headers["OK-ACCESS-PASSPHRASE"] = o.creds.Password
	}

	data, err := o.rest.do(ctx, method, o.api+path, headers, payload)
	if err != nil {
		return err
	}

	var resp okxResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("failed to decode okx response: %w", err)
	}
	if resp.Code != "0" {
		return &tool.UpstreamError{Service: "okx", Status: http.StatusOK, Body: fmt.Sprintf("code %s: %s", resp.Code, resp.Msg)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to decode okx data: %w", err)
	}
	return nil
}

type okxTicker struct {
	InstID    string `json:"instId"`
	Last      string `json:"last"`
	BidPx     string `json:"bidPx"`
	AskPx     string `json:"askPx"`
	High24h   string `json:"high24h"`
	Low24h    string `json:"low24h"`
	Open24h   string `json:"open24h"`
	Vol24h    string `json:"vol24h"`
	VolCcy24h string `json:"volCcy24h"`
	TS        string `json:"ts"`
}

func (t *okxTicker) unify(symbol string) *Ticker {
	last := parseFloat(t.Last)
	open := parseFloat(t.Open24h)
	change := last - open
	var percentage float64
	if open != 0 {
		percentage = change / open * 100
	}
	return &Ticker{
		Symbol:      symbol,
		Last:        last,
		Bid:         parseFloat(t.BidPx),
		Ask:         parseFloat(t.AskPx),
		High:        parseFloat(t.High24h),
		Low:         parseFloat(t.Low24h),
		Open:        open,
		BaseVolume:  parseFloat(t.Vol24h),
		QuoteVolume: parseFloat(t.VolCcy24h),
		Change:      change,
		Percentage:  percentage,
		Timestamp:   parseInt(t.TS),
	}
}

func okxSymbolFromInstID(instID string) string {
	parts := strings.Split(instID, "-")
	if len(parts) < 2 {
		return ""
	}
	settle := ""
	if len(parts) >= 3 && parts[2] == "SWAP" {
		settle = parts[1]
	}
	return unifySymbol(parts[0], parts[1], settle)
}

func (o *okx) FetchTicker(ctx context.Context, symbol string) (*Ticker, error) {
	var raw []okxTicker
	path := "/api/v5/market/ticker?instId=" + o.instID(symbol)
	if err := o.call(ctx, http.MethodGet, path, nil, false, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, &tool.UpstreamError{Service: "okx", Status: http.StatusOK, Body: "empty ticker response for " + symbol}
	}
	return raw[0].unify(symbol), nil
}

func (o *okx) FetchTickers(ctx context.Context) (map[string]*Ticker, error) {
	var raw []okxTicker
	if err := o.call(ctx, http.MethodGet, "/api/v5/market/tickers?instType=SPOT", nil, false, &raw); err != nil {
		return nil, err
	}

	tickers := make(map[string]*Ticker, len(raw))
	for i := range raw {
		symbol := okxSymbolFromInstID(raw[i].InstID)
		if symbol == "" {
			continue
		}
		tickers[symbol] = raw[i].unify(symbol)
	}
	return tickers, nil
}

func (o *okx) FetchOrderBook(ctx context.Context, symbol string, limit int) (*OrderBook, error) {
	var raw []struct {
		Asks [][]string `json:"asks"`
		Bids [][]string `json:"bids"`
		TS   string     `json:"ts"`
	}
	path := fmt.Sprintf("/api/v5/market/books?instId=%s&sz=%d", o.instID(symbol), limit)
	if err := o.call(ctx, http.MethodGet, path, nil, false, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, &tool.UpstreamError{Service: "okx", Status: http.StatusOK, Body: "empty order book response for " + symbol}
	}

	book := &OrderBook{Symbol: symbol, Timestamp: parseInt(raw[0].TS)}
	for _, level := range raw[0].Bids {
		if len(level) >= 2 {
			book.Bids = append(book.Bids, BookLevel{Price: parseFloat(level[0]), Amount: parseFloat(level[1])})
		}
	}
	for _, level := range raw[0].Asks {
		if len(level) >= 2 {
			book.Asks = append(book.Asks, BookLevel{Price: parseFloat(level[0]), Amount: parseFloat(level[1])})
		}
	}
	return book, nil
}

func (o *okx) FetchTrades(ctx context.Context, symbol string, limit int) ([]Trade, error) {
	var raw []struct {
		TradeID string `json:"tradeId"`
		Px      string `json:"px"`
		Sz      string `json:"sz"`
		Side    string `json:"side"`
		TS      string `json:"ts"`
	}
	path := fmt.Sprintf("/api/v5/market/trades?instId=%s&limit=%d", o.instID(symbol), limit)
	if err := o.call(ctx, http.MethodGet, path, nil, false, &raw); err != nil {
		return nil, err
	}

	trades := make([]Trade, 0, len(raw))
	for _, t := range raw {
		price := parseFloat(t.Px)
		amount := parseFloat(t.Sz)
		trades = append(trades, Trade{
			ID:        t.TradeID,
			Symbol:    symbol,
			Side:      t.Side,
			Price:     price,
			Amount:    amount,
			Cost:      price * amount,
			Timestamp: parseInt(t.TS),
		})
	}
	// OKX returns newest first; callers expect oldest first.
	sort.Slice(trades, func(i, j int) bool { return trades[i].Timestamp < trades[j].Timestamp })
	return trades, nil
}

func (o *okx) FetchMarkets(ctx context.Context) (map[string]*Market, error) {
	markets := make(map[string]*Market)

	for _, it := range []string{"SPOT", "SWAP"} {
		var raw []struct {
			InstID    string `json:"instId"`
			BaseCcy   string `json:"baseCcy"`
			QuoteCcy  string `json:"quoteCcy"`
			SettleCcy string `json:"settleCcy"`
			Uly       string `json:"uly"`
			CtVal     string `json:"ctVal"`
			LotSz     string `json:"lotSz"`
			TickSz    string `json:"tickSz"`
			MinSz     string `json:"minSz"`
			State     string `json:"state"`
		}
		if err := o.call(ctx, http.MethodGet, "/api/v5/public/instruments?instType="+it, nil, false, &raw); err != nil {
			return nil, err
		}

		for _, inst := range raw {
			m := &Market{
				Active:          inst.State == "live",
				AmountPrecision: precisionFromStep(inst.LotSz),
				PricePrecision:  precisionFromStep(inst.TickSz),
				MinAmount:       parseFloat(inst.MinSz),
				TakerFee:        0.001,
				MakerFee:        0.0008,
			}
			if it == "SWAP" {
				parts := strings.Split(inst.Uly, "-")
				if len(parts) < 2 {
					continue
				}
				m.Base = parts[0]
				m.Quote = parts[1]
				m.Settle = inst.SettleCcy
				m.Contract = true
				m.ContractSize = parseFloat(inst.CtVal)
				m.TakerFee = 0.0005
				m.MakerFee = 0.0002
			} else {
				m.Base = inst.BaseCcy
				m.Quote = inst.QuoteCcy
			}
			m.Symbol = unifySymbol(m.Base, m.Quote, m.Settle)
			markets[m.Symbol] = m
		}
	}
	return markets, nil
}

func (o *okx) FetchOHLCV(ctx context.Context, symbol, timeframe string, limit int) ([]Candle, error) {
	var raw [][]string
	path := fmt.Sprintf("/api/v5/market/candles?instId=%s&bar=%s&limit=%d", o.instID(symbol), okxBar(timeframe), limit)
	if err := o.call(ctx, http.MethodGet, path, nil, false, &raw); err != nil {
		return nil, err
	}

	candles := make([]Candle, 0, len(raw))
	for _, k := range raw {
		if len(k) < 6 {
			continue
		}
		candles = append(candles, Candle{
			Timestamp: parseInt(k[0]),
			Open:      parseFloat(k[1]),
			High:      parseFloat(k[2]),
			Low:       parseFloat(k[3]),
			Close:     parseFloat(k[4]),
			Volume:    parseFloat(k[5]),
		})
	}
	// Newest first from the API; return oldest first.
	sort.Slice(candles, func(i, j int) bool { return candles[i].Timestamp < candles[j].Timestamp })
	return candles, nil
}

func (o *okx) FetchFundingRateHistory(ctx context.Context, symbol string, limit int) ([]FundingRate, error) {
	var raw []struct {
		FundingRate string `json:"fundingRate"`
		FundingTime string `json:"fundingTime"`
	}
	path := fmt.Sprintf("/api/v5/public/funding-rate-history?instId=%s&limit=%d", o.instID(symbol), limit)
	if err := o.call(ctx, http.MethodGet, path, nil, false, &raw); err != nil {
		return nil, err
	}

	rates := make([]FundingRate, 0, len(raw))
	for _, r := range raw {
		rates = append(rates, FundingRate{Symbol: symbol, Rate: parseFloat(r.FundingRate), Timestamp: parseInt(r.FundingTime)})
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].Timestamp < rates[j].Timestamp })
	return rates, nil
}

func (o *okx) FetchOpenInterestHistory(ctx context.Context, symbol, timeframe string, limit int) ([]OpenInterest, error) {
	base, _, _ := splitSymbol(symbol)
	var raw [][]string
	path := fmt.Sprintf("/api/v5/rubik/stat/contracts/open-interest-volume?ccy=%s&period=%s", base, okxBar(timeframe))
	if err := o.call(ctx, http.MethodGet, path, nil, false, &raw); err != nil {
		return nil, err
	}

	points := make([]OpenInterest, 0, len(raw))
	for _, p := range raw {
		if len(p) < 2 {
			continue
		}
		oi := parseFloat(p[1])
		points = append(points, OpenInterest{Symbol: symbol, Amount: oi, Value: oi, Timestamp: parseInt(p[0])})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Timestamp < points[j].Timestamp })
	if limit > 0 && len(points) > limit {
		points = points[len(points)-limit:]
	}
	return points, nil
}

func (o *okx) FetchBalance(ctx context.Context, market MarketType) (Balance, error) {
	// Spot and perpetuals share OKX's unified trading account.
	var raw []struct {
		Details []struct {
			Ccy       string `json:"ccy"`
			AvailBal  string `json:"availBal"`
			FrozenBal string `json:"frozenBal"`
			Eq        string `json:"eq"`
		} `json:"details"`
	}
	if err := o.call(ctx, http.MethodGet, "/api/v5/account/balance", nil, true, &raw); err != nil {
		return nil, err
	}

	balance := make(Balance)
	for _, account := range raw {
		for _, d := range account.Details {
			balance[d.Ccy] = AssetBalance{
				Free:  parseFloat(d.AvailBal),
				Used:  parseFloat(d.FrozenBal),
				Total: parseFloat(d.Eq),
			}
		}
	}
	return balance, nil
}

func (o *okx) FetchPositions(ctx context.Context) ([]Position, error) {
	var raw []struct {
		InstID      string `json:"instId"`
		PosSide     string `json:"posSide"`
		Pos         string `json:"pos"`
		AvgPx       string `json:"avgPx"`
		MarkPx      string `json:"markPx"`
		Upl         string `json:"upl"`
		UplRatio    string `json:"uplRatio"`
		Lever       string `json:"lever"`
		NotionalUsd string `json:"notionalUsd"`
	}
	if err := o.call(ctx, http.MethodGet, "/api/v5/account/positions?instType=SWAP", nil, true, &raw); err != nil {
		return nil, err
	}

	positions := make([]Position, 0, len(raw))
	for _, p := range raw {
		contracts := parseFloat(p.Pos)
		if contracts == 0 {
			continue
		}
		side := p.PosSide
		if side != "long" && side != "short" {
			if contracts > 0 {
				side = "long"
			} else {
				side = "short"
			}
		}
		if contracts < 0 {
			contracts = -contracts
		}
		positions = append(positions, Position{
			Symbol:        okxSymbolFromInstID(p.InstID),
			Side:          side,
			Contracts:     contracts,
			Notional:      parseFloat(p.NotionalUsd),
			UnrealizedPnL: parseFloat(p.Upl),
			Percentage:    parseFloat(p.UplRatio) * 100,
			EntryPrice:    parseFloat(p.AvgPx),
			MarkPrice:     parseFloat(p.MarkPx),
			Leverage:      parseFloat(p.Lever),
		})
	}
	return positions, nil
}

type okxOrder struct {
	OrdID     string `json:"ordId"`
	InstID    string `json:"instId"`
	Px        string `json:"px"`
	Sz        string `json:"sz"`
	AccFillSz string `json:"accFillSz"`
	AvgPx     string `json:"avgPx"`
	State     string `json:"state"`
	Side      string `json:"side"`
	OrdType   string `json:"ordType"`
	Fee       string `json:"fee"`
	FeeCcy    string `json:"feeCcy"`
	CTime     string `json:"cTime"`
	FillTime  string `json:"fillTime"`
}

var okxStates = map[string]string{
	"live":             "open",
	"partially_filled": "open",
	"filled":           "closed",
	"canceled":         "canceled",
	"mmp_canceled":     "canceled",
}

func (ord *okxOrder) unify() Order {
	status, ok := okxStates[ord.State]
	if !ok {
		status = ord.State
	}
	amount := parseFloat(ord.Sz)
	filled := parseFloat(ord.AccFillSz)
	average := parseFloat(ord.AvgPx)
	fee := parseFloat(ord.Fee)
	if fee < 0 {
		fee = -fee
	}
	return Order{
		ID:                 ord.OrdID,
		Symbol:             okxSymbolFromInstID(ord.InstID),
		Type:               ord.OrdType,
		Side:               ord.Side,
		Price:              parseFloat(ord.Px),
		Amount:             amount,
		Filled:             filled,
		Remaining:          amount - filled,
		Average:            average,
		Cost:               average * filled,
		Status:             status,
		FeeCost:            fee,
		FeeCurrency:        ord.FeeCcy,
		Timestamp:          parseInt(ord.CTime),
		LastTradeTimestamp: parseInt(ord.FillTime),
	}
}

func (o *okx) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	tdMode := "cash"
	if req.Market == MarketFutures {
		tdMode = "cross"
	}
	body := map[string]any{
		"instId":  o.instID(req.Symbol),
		"tdMode":  tdMode,
		"side":    req.Side,
		"ordType": req.Type,
		"sz":      strconv.FormatFloat(req.Amount, 'f', -1, 64),
	}
	if req.Type == "limit" {
		body["px"] = strconv.FormatFloat(req.Price, 'f', -1, 64)
	}
	if req.Market == MarketFutures {
		if req.PositionSide != "" {
			body["posSide"] = req.PositionSide
		} else if req.ReduceOnly {
			// Only valid for net-mode accounts; hedge mode closes through
			// posSide.
			body["reduceOnly"] = true
		}
	}

	var raw []struct {
		OrdID string `json:"ordId"`
		SCode string `json:"sCode"`
		SMsg  string `json:"sMsg"`
	}
	if err := o.call(ctx, http.MethodPost, "/api/v5/trade/order", body, true, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, &tool.UpstreamError{Service: "okx", Status: http.StatusOK, Body: "empty order response"}
	}
	if raw[0].SCode != "0" && raw[0].SCode != "" {
		return nil, &tool.UpstreamError{Service: "okx", Status: http.StatusOK, Body: fmt.Sprintf("order rejected, code %s: %s", raw[0].SCode, raw[0].SMsg)}
	}

	return o.FetchOrder(ctx, req.Market, raw[0].OrdID, req.Symbol)
}

func (o *okx) FetchOrders(ctx context.Context, market MarketType, symbol string) ([]Order, error) {
	path := "/api/v5/trade/orders-history?instType=" + instType(market)
	if symbol != "" {
		path += "&instId=" + o.instID(symbol)
	}
	return o.fetchOrderList(ctx, path)
}

func (o *okx) FetchOpenOrders(ctx context.Context, market MarketType, symbol string) ([]Order, error) {
	path := "/api/v5/trade/orders-pending?instType=" + instType(market)
	if symbol != "" {
		path += "&instId=" + o.instID(symbol)
	}
	return o.fetchOrderList(ctx, path)
}

func (o *okx) fetchOrderList(ctx context.Context, path string) ([]Order, error) {
	var raw []okxOrder
	if err := o.call(ctx, http.MethodGet, path, nil, true, &raw); err != nil {
		return nil, err
	}
	orders := make([]Order, 0, len(raw))
	for i := range raw {
		orders = append(orders, raw[i].unify())
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].Timestamp < orders[j].Timestamp })
	return orders, nil
}

func (o *okx) FetchOrder(ctx context.Context, market MarketType, id, symbol string) (*Order, error) {
	path := fmt.Sprintf("/api/v5/trade/order?instId=%s&ordId=%s", o.instID(symbol), id)
	var raw []okxOrder
	if err := o.call(ctx, http.MethodGet, path, nil, true, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, &tool.UpstreamError{Service: "okx", Status: http.StatusOK, Body: "order " + id + " not found"}
	}
	order := raw[0].unify()
	return &order, nil
}

func (o *okx) CancelOrder(ctx context.Context, market MarketType, id, symbol string) (*Order, error) {
	body := map[string]any{
		"instId": o.instID(symbol),
		"ordId":  id,
	}
	var raw []struct {
		OrdID string `json:"ordId"`
		SCode string `json:"sCode"`
		SMsg  string `json:"sMsg"`
	}
	if err := o.call(ctx, http.MethodPost, "/api/v5/trade/cancel-order", body, true, &raw); err != nil {
		return nil, err
	}
	if len(raw) > 0 && raw[0].SCode != "0" && raw[0].SCode != "" {
		return nil, &tool.UpstreamError{Service: "okx", Status: http.StatusOK, Body: fmt.Sprintf("cancel rejected, code %s: %s", raw[0].SCode, raw[0].SMsg)}
	}
	return &Order{ID: id, Symbol: symbol, Status: "canceled"}, nil
}

func (o *okx) FetchSavingsProducts(ctx context.Context) ([]map[string]any, error) {
	var raw []map[string]any
	if err := o.call(ctx, http.MethodGet, "/api/v5/finance/savings/lending-rate-summary", nil, false, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// savingsTransfer handles both directions of the purchase-redempt endpoint.
func (o *okx) savingsTransfer(ctx context.Context, asset string, amount float64, side string) (map[string]any, error) {
	body := map[string]any{
		"ccy":  asset,
		"amt":  strconv.FormatFloat(amount, 'f', -1, 64),
		"side": side,
	}
	var raw []map[string]any
	if err := o.call(ctx, http.MethodPost, "/api/v5/finance/savings/purchase-redempt", body, true, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, &tool.UpstreamError{Service: "okx", Status: http.StatusOK, Body: "empty savings response"}
	}
	return raw[0], nil
}

func (o *okx) PurchaseSavings(ctx context.Context, asset string, amount float64) (map[string]any, error) {
	return o.savingsTransfer(ctx, asset, amount, "purchase")
}

func (o *okx) RedeemSavings(ctx context.Context, asset string, amount float64) (map[string]any, error) {
	return o.savingsTransfer(ctx, asset, amount, "redempt")
}

func (o *okx) FetchSavingsBalance(ctx context.Context) ([]SavingsPosition, error) {
	var raw []struct {
		Ccy      string `json:"ccy"`
		Amt      string `json:"amt"`
		Earnings string `json:"earnings"`
		Rate     string `json:"rate"`
	}
	if err := o.call(ctx, http.MethodGet, "/api/v5/finance/savings/balance", nil, true, &raw); err != nil {
		return nil, err
	}

	positions := make([]SavingsPosition, 0, len(raw))
	for _, r := range raw {
		positions = append(positions, SavingsPosition{
			Asset:     r.Ccy,
			Amount:    parseFloat(r.Amt),
			TotalEarn: parseFloat(r.Earnings),
			Rate:      parseFloat(r.Rate),
		})
	}
	return positions, nil
}
