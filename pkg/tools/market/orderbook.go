package market

import (
	"context"

	"github.com/tickr-ai/tickr/pkg/tool"
)

const (
	defaultDepth = 20
	maxDepth     = 100
)

type orderBookTool struct {
	deps
}

func (t *orderBookTool) Name() string {
	return "get_orderbook_data"
}

func (t *orderBookTool) Description() string {
	return "Get order book depth for a trading pair, with summed bid/ask volume and the bid-ask spread."
}

func (t *orderBookTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"symbol":   tool.StringProperty("Trading pair in BASE/QUOTE format, e.g. BTC/USDT."),
		"exchange": tool.StringProperty("Exchange name. Defaults to binance."),
		"limit":    tool.IntegerProperty("Number of levels per side, 1-100. Defaults to 20."),
	}, []string{"symbol"})
}

func (t *orderBookTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	symbol := tool.NormalizeSymbol(tool.StringParam(params, "symbol"))
	name := resolveExchange(params)
	limit := tool.IntOrDefault(params, "limit", defaultDepth)
	meta := tool.Meta("exchange", name, "symbol", symbol, "limit", limit)

	return tool.Guard(meta, func() tool.Result {
		if err := tool.RequireSpotSymbol(symbol); err != nil {
			return tool.Failure(err, meta)
		}
		if err := tool.RequireRange("limit", limit, 1, maxDepth); err != nil {
			return tool.Failure(err, meta)
		}

		ex, err := t.dial(name, t.cfg)
		if err != nil {
			return tool.Failure(err, meta)
		}

		book, err := ex.FetchOrderBook(ctx, symbol, limit)
		if err != nil {
			return tool.Failure(err, meta)
		}

		var sumBid, sumAsk float64
		for _, level := range book.Bids {
			sumBid += level.Amount
		}
		for _, level := range book.Asks {
			sumAsk += level.Amount
		}
		var spread float64
		if len(book.Bids) > 0 && len(book.Asks) > 0 {
			spread = book.Asks[0].Price - book.Bids[0].Price
		}

		data := tool.AsMap(book)
		data["summary"] = map[string]any{
			"sum_bid": sumBid,
			"sum_ask": sumAsk,
			"spread":  spread,
		}
		return tool.Success(data, meta)
	})
}
