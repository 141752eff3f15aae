package market

import (
	"context"

	"github.com/tickr-ai/tickr/pkg/tool"
)

const defaultTradeLimit = 50

type tradesTool struct {
	deps
}

func (t *tradesTool) Name() string {
	return "get_trades_data"
}

func (t *tradesTool) Description() string {
	return "Get recent public trades for a trading pair, with buy/sell volume totals and the latest trade."
}

func (t *tradesTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"symbol":   tool.StringProperty("Trading pair in BASE/QUOTE format, e.g. BTC/USDT."),
		"exchange": tool.StringProperty("Exchange name. Defaults to binance."),
		"limit":    tool.IntegerProperty("Number of trades, 1-100. Defaults to 50."),
	}, []string{"symbol"})
}

func (t *tradesTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	symbol := tool.NormalizeSymbol(tool.StringParam(params, "symbol"))
	name := resolveExchange(params)
	limit := tool.IntOrDefault(params, "limit", defaultTradeLimit)
	meta := tool.Meta("exchange", name, "symbol", symbol, "limit", limit)

	return tool.Guard(meta, func() tool.Result {
		if err := tool.RequireSpotSymbol(symbol); err != nil {
			return tool.Failure(err, meta)
		}
		if err := tool.RequireRange("limit", limit, 1, 100); err != nil {
			return tool.Failure(err, meta)
		}

		ex, err := t.dial(name, t.cfg)
		if err != nil {
			return tool.Failure(err, meta)
		}

		trades, err := ex.FetchTrades(ctx, symbol, limit)
		if err != nil {
			return tool.Failure(err, meta)
		}

		summary := map[string]any{
			"latest_price": 0.0,
			"latest_side":  "",
			"sum_buy":      0.0,
			"sum_sell":     0.0,
			"sum_volume":   0.0,
		}
		var sumBuy, sumSell, sumVolume float64
		for _, trade := range trades {
			if trade.Side == "buy" {
				sumBuy += trade.Amount
			} else {
				sumSell += trade.Amount
			}
			sumVolume += trade.Amount
		}
		if len(trades) > 0 {
			latest := trades[len(trades)-1]
			summary["latest_price"] = latest.Price
			summary["latest_side"] = latest.Side
		}
		summary["sum_buy"] = sumBuy
		summary["sum_sell"] = sumSell
		summary["sum_volume"] = sumVolume

		data := map[string]any{
			"trades":  tool.AsMapSlice(trades),
			"count":   len(trades),
			"summary": summary,
		}
		return tool.Success(data, meta)
	})
}
