package exchange

// Unified market data and trading types. Field meanings follow the common
// exchange vocabulary: amounts are in base currency, costs in quote
// currency, contract sizes in base units per contract.

// Ticker is a 24h market snapshot for one symbol.
type Ticker struct {
	Symbol      string  `json:"symbol"`
	Last        float64 `json:"last"`
	Bid         float64 `json:"bid"`
	Ask         float64 `json:"ask"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	Open        float64 `json:"open"`
	BaseVolume  float64 `json:"base_volume"`
	QuoteVolume float64 `json:"quote_volume"`
	Change      float64 `json:"change"`
	Percentage  float64 `json:"percentage"`
	Timestamp   int64   `json:"timestamp"`
}

// BookLevel is one price level of an order book.
type BookLevel struct {
	Price  float64 `json:"price"`
	Amount float64 `json:"amount"`
}

// OrderBook holds bid and ask ladders, best first.
type OrderBook struct {
	Symbol    string      `json:"symbol"`
	Bids      []BookLevel `json:"bids"`
	Asks      []BookLevel `json:"asks"`
	Timestamp int64       `json:"timestamp"`
}

// Trade is a single public trade.
type Trade struct {
	ID        string  `json:"id"`
	Symbol    string  `json:"symbol"`
	Side      string  `json:"side"`
	Price     float64 `json:"price"`
	Amount    float64 `json:"amount"`
	Cost      float64 `json:"cost"`
	Timestamp int64   `json:"timestamp"`
}

// Candle is one OHLCV bar.
type Candle struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// FundingRate is one historical funding rate point for a perpetual.
type FundingRate struct {
	Symbol    string  `json:"symbol"`
	Rate      float64 `json:"rate"`
	Timestamp int64   `json:"timestamp"`
}

// OpenInterest is one historical open interest point for a perpetual.
type OpenInterest struct {
	Symbol    string  `json:"symbol"`
	Amount    float64 `json:"amount"`
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"`
}

// Market describes one listed instrument and its trading rules.
type Market struct {
	Symbol       string  `json:"symbol"`
	Base         string  `json:"base"`
	Quote        string  `json:"quote"`
	Settle       string  `json:"settle,omitempty"`
	Contract     bool    `json:"contract"`
	ContractSize float64 `json:"contract_size,omitempty"`
	Active       bool    `json:"active"`

	// Precision values are decimal digits. Order amounts and prices are
	// floored to these before submission; the exchange's own metadata is
	// authoritative and queried at call time.
	AmountPrecision int `json:"amount_precision"`
	PricePrecision  int `json:"price_precision"`

	MinAmount float64 `json:"min_amount,omitempty"`
	MinCost   float64 `json:"min_cost,omitempty"`
	TakerFee  float64 `json:"taker_fee,omitempty"`
	MakerFee  float64 `json:"maker_fee,omitempty"`
}

// AssetBalance is the balance of a single currency.
type AssetBalance struct {
	Free  float64 `json:"free"`
	Used  float64 `json:"used"`
	Total float64 `json:"total"`
}

// Balance maps currency codes to balances.
type Balance map[string]AssetBalance

// MarketType selects spot or perpetual futures endpoints.
type MarketType string

const (
	MarketSpot    MarketType = "spot"
	MarketFutures MarketType = "futures"
)

// OrderRequest describes an order to place.
type OrderRequest struct {
	Symbol string
	Market MarketType
	Type   string
	Side   string

	// PositionSide is "long" or "short" for futures orders on exchanges
	// running in hedge mode. Empty for spot.
	PositionSide string

	// ReduceOnly marks a futures order as closing an existing position.
	// Forwarded only when PositionSide is empty; hedge-mode venues express
	// closing through the position side instead.
	ReduceOnly bool

	// Amount is base quantity for spot, contract count for futures.
	Amount float64
	Price  float64
}

// Order is a unified view of an order in any state.
type Order struct {
	ID                 string  `json:"id"`
	Symbol             string  `json:"symbol"`
	Type               string  `json:"type"`
	Side               string  `json:"side"`
	Price              float64 `json:"price"`
	Amount             float64 `json:"amount"`
	Filled             float64 `json:"filled"`
	Remaining          float64 `json:"remaining"`
	Average            float64 `json:"average,omitempty"`
	Cost               float64 `json:"cost,omitempty"`
	Status             string  `json:"status"`
	FeeCost            float64 `json:"fee_cost,omitempty"`
	FeeCurrency        string  `json:"fee_currency,omitempty"`
	Timestamp          int64   `json:"timestamp"`
	LastTradeTimestamp int64   `json:"last_trade_timestamp,omitempty"`
}

// SavingsPosition is one flexible savings holding. Earnings and rate are
// only reported by venues that expose them.
type SavingsPosition struct {
	Asset     string  `json:"asset"`
	Amount    float64 `json:"amount"`
	TotalEarn float64 `json:"total_earn,omitempty"`
	Rate      float64 `json:"rate,omitempty"`
}

// Position is an open futures position.
type Position struct {
	Symbol        string  `json:"symbol"`
	Side          string  `json:"side"`
	Contracts     float64 `json:"contracts"`
	Notional      float64 `json:"notional"`
	UnrealizedPnL float64 `json:"unrealized_pnl"`
	Percentage    float64 `json:"percentage"`
	EntryPrice    float64 `json:"entry_price"`
	MarkPrice     float64 `json:"mark_price"`
	Leverage      float64 `json:"leverage,omitempty"`
}
