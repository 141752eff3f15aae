package market

import (
	"context"
	"sort"
	"strings"

	"github.com/tickr-ai/tickr/pkg/tool"
)

const overviewTopN = 10

type overviewTool struct {
	deps
}

func (t *overviewTool) Name() string {
	return "get_market_overview"
}

func (t *overviewTool) Description() string {
	return "Get a market overview: the 10 most traded USDT pairs by quote volume, with total pair count."
}

func (t *overviewTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"exchange": tool.StringProperty("Exchange name. Defaults to binance."),
	}, nil)
}

func (t *overviewTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	name := resolveExchange(params)
	meta := tool.Meta("exchange", name)

	return tool.Guard(meta, func() tool.Result {
		ex, err := t.dial(name, t.cfg)
		if err != nil {
			return tool.Failure(err, meta)
		}

		tickers, err := ex.FetchTickers(ctx)
		if err != nil {
			return tool.Failure(err, meta)
		}

		type pair struct {
			symbol string
			last   float64
			volume float64
			change float64
		}
		var pairs []pair
		var totalVolume float64
		for symbol, ticker := range tickers {
			if !strings.HasSuffix(symbol, "/USDT") {
				continue
			}
			pairs = append(pairs, pair{
				symbol: symbol,
				last:   ticker.Last,
				volume: ticker.QuoteVolume,
				change: ticker.Percentage,
			})
			totalVolume += ticker.QuoteVolume
		}
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].volume > pairs[j].volume })

		top := pairs
		if len(top) > overviewTopN {
			top = top[:overviewTopN]
		}
		topPairs := make([]map[string]any, 0, len(top))
		for _, p := range top {
			topPairs = append(topPairs, map[string]any{
				"symbol":               p.symbol,
				"last_price":           p.last,
				"quote_volume":         p.volume,
				"price_change_percent": p.change,
			})
		}

		data := map[string]any{
			"top_pairs":          topPairs,
			"total_pairs":        len(pairs),
			"total_quote_volume": totalVolume,
		}
		return tool.Success(data, meta)
	})
}
