package market

import (
	"context"

	"github.com/tickr-ai/tickr/pkg/tool"
)

type tickerTool struct {
	deps
}

func (t *tickerTool) Name() string {
	return "get_ticker_data"
}

func (t *tickerTool) Description() string {
	return "Get the 24h ticker for a trading pair: last price, bid/ask, high/low, volume and price change."
}

func (t *tickerTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"symbol":   tool.StringProperty("Trading pair in BASE/QUOTE format, e.g. BTC/USDT. Append :SETTLE for perpetuals, e.g. BTC/USDT:USDT."),
		"exchange": tool.StringProperty("Exchange name, e.g. binance or okx. Defaults to binance."),
	}, []string{"symbol"})
}

func (t *tickerTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	symbol := tool.NormalizeSymbol(tool.StringParam(params, "symbol"))
	name := resolveExchange(params)
	meta := tool.Meta("exchange", name, "symbol", symbol)

	return tool.Guard(meta, func() tool.Result {
		if err := tool.RequireSpotSymbol(symbol); err != nil {
			return tool.Failure(err, meta)
		}

		ex, err := t.dial(name, t.cfg)
		if err != nil {
			return tool.Failure(err, meta)
		}

		ticker, err := ex.FetchTicker(ctx, symbol)
		if err != nil {
			return tool.Failure(err, meta)
		}

		return tool.Success(tool.AsMap(ticker), meta)
	})
}
