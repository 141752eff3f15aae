package market

import (
	"context"

	"github.com/tickr-ai/tickr/pkg/tool"
)

const openInterestLimit = 100

type openInterestTool struct {
	deps
}

func (t *openInterestTool) Name() string {
	return "get_open_interest_data"
}

func (t *openInterestTool) Description() string {
	return "Get open interest history for a perpetual contract, with current value and change over the window."
}

func (t *openInterestTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"symbol":    tool.StringProperty("Perpetual contract in BASE/QUOTE:SETTLE format, e.g. BTC/USDT:USDT."),
		"exchange":  tool.StringProperty("Exchange name. Defaults to binance."),
		"timeframe": tool.StringProperty("Sampling period: 5m, 15m, 30m, 1h, 4h, 1d. Defaults to 1h."),
	}, []string{"symbol"})
}

func (t *openInterestTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	symbol := tool.NormalizeSymbol(tool.StringParam(params, "symbol"))
	timeframe := tool.NormalizeName(tool.StringParam(params, "timeframe"))
	if timeframe == "" {
		timeframe = "1h"
	}
	name := resolveExchange(params)
	meta := tool.Meta("exchange", name, "symbol", symbol, "timeframe", timeframe)

	return tool.Guard(meta, func() tool.Result {
		if err := tool.RequireContractSymbol(symbol); err != nil {
			return tool.Failure(err, meta)
		}

		ex, err := t.dial(name, t.cfg)
		if err != nil {
			return tool.Failure(err, meta)
		}

		points, err := ex.FetchOpenInterestHistory(ctx, symbol, timeframe, openInterestLimit)
		if err != nil {
			return tool.Failure(err, meta)
		}

		summary := map[string]any{
			"current_oi":           0.0,
			"oi_change":            0.0,
			"oi_change_percentage": 0.0,
			"max_oi":               0.0,
			"min_oi":               0.0,
			"avg_oi":               0.0,
		}
		if len(points) > 0 {
			first := points[0].Amount
			current := points[len(points)-1].Amount
			maxOI := first
			minOI := first
			var sum float64
			for _, p := range points {
				if p.Amount > maxOI {
					maxOI = p.Amount
				}
				if p.Amount < minOI {
					minOI = p.Amount
				}
				sum += p.Amount
			}

			change := current - first
			var changePercent float64
			if first != 0 {
				changePercent = change / first * 100
			}

			summary["current_oi"] = current
			summary["oi_change"] = change
			summary["oi_change_percentage"] = changePercent
			summary["max_oi"] = maxOI
			summary["min_oi"] = minOI
			summary["avg_oi"] = sum / float64(len(points))
		}

		data := map[string]any{
			"open_interest": tool.AsMapSlice(points),
			"count":         len(points),
			"summary":       summary,
		}
		return tool.Success(data, meta)
	})
}
