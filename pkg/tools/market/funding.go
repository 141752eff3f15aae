package market

import (
	"context"

	"github.com/tickr-ai/tickr/pkg/tool"
)

const defaultFundingLimit = 100

type fundingRateTool struct {
	deps
}

func (t *fundingRateTool) Name() string {
	return "get_funding_rate"
}

func (t *fundingRateTool) Description() string {
	return "Get funding rate history for a perpetual contract, with current, average and extreme rates."
}

func (t *fundingRateTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"symbol":   tool.StringProperty("Perpetual contract in BASE/QUOTE:SETTLE format, e.g. BTC/USDT:USDT."),
		"exchange": tool.StringProperty("Exchange name. Defaults to binance."),
		"limit":    tool.IntegerProperty("Number of rate points, 1-100. Defaults to 100."),
	}, []string{"symbol"})
}

func (t *fundingRateTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	symbol := tool.NormalizeSymbol(tool.StringParam(params, "symbol"))
	name := resolveExchange(params)
	limit := tool.IntOrDefault(params, "limit", defaultFundingLimit)
	meta := tool.Meta("exchange", name, "symbol", symbol, "limit", limit)

	return tool.Guard(meta, func() tool.Result {
		if err := tool.RequireContractSymbol(symbol); err != nil {
			return tool.Failure(err, meta)
		}
		if err := tool.RequireRange("limit", limit, 1, 100); err != nil {
			return tool.Failure(err, meta)
		}

		ex, err := t.dial(name, t.cfg)
		if err != nil {
			return tool.Failure(err, meta)
		}

		rates, err := ex.FetchFundingRateHistory(ctx, symbol, limit)
		if err != nil {
			return tool.Failure(err, meta)
		}

		summary := map[string]any{
			"current_rate":   0.0,
			"average_rate":   0.0,
			"max_rate":       0.0,
			"min_rate":       0.0,
			"positive_count": 0,
			"negative_count": 0,
			"zero_count":     0,
		}
		if len(rates) > 0 {
			var sum float64
			maxRate := rates[0].Rate
			minRate := rates[0].Rate
			var positive, negative, zero int
			for _, r := range rates {
				sum += r.Rate
				if r.Rate > maxRate {
					maxRate = r.Rate
				}
				if r.Rate < minRate {
					minRate = r.Rate
				}
				switch {
				case r.Rate > 0:
					positive++
				case r.Rate < 0:
					negative++
				default:
					zero++
				}
			}
			summary["current_rate"] = rates[len(rates)-1].Rate
			summary["average_rate"] = sum / float64(len(rates))
			summary["max_rate"] = maxRate
			summary["min_rate"] = minRate
			summary["positive_count"] = positive
			summary["negative_count"] = negative
			summary["zero_count"] = zero
		}

		data := map[string]any{
			"funding_rates": tool.AsMapSlice(rates),
			"count":         len(rates),
			"summary":       summary,
		}
		return tool.Success(data, meta)
	})
}
