package market

import (
	"context"

	"github.com/tickr-ai/tickr/pkg/tool"
)

const klineLimit = 100

type klineTool struct {
	deps
}

func (t *klineTool) Name() string {
	return "get_kline_data"
}

func (t *klineTool) Description() string {
	return "Get up to 100 OHLCV candles for a trading pair, with a price change summary over the window."
}

func (t *klineTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"symbol":    tool.StringProperty("Trading pair in BASE/QUOTE format, e.g. BTC/USDT."),
		"timeframe": tool.StringProperty("Candle timeframe: 1m, 5m, 15m, 30m, 1h, 4h, 1d. Defaults to 1h."),
		"exchange":  tool.StringProperty("Exchange name. Defaults to binance."),
	}, []string{"symbol"})
}

func (t *klineTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	symbol := tool.NormalizeSymbol(tool.StringParam(params, "symbol"))
	timeframe := tool.NormalizeName(tool.StringParam(params, "timeframe"))
	if timeframe == "" {
		timeframe = "1h"
	}
	name := resolveExchange(params)
	meta := tool.Meta("exchange", name, "symbol", symbol, "timeframe", timeframe)

	return tool.Guard(meta, func() tool.Result {
		if err := tool.RequireSpotSymbol(symbol); err != nil {
			return tool.Failure(err, meta)
		}

		ex, err := t.dial(name, t.cfg)
		if err != nil {
			return tool.Failure(err, meta)
		}

		candles, err := ex.FetchOHLCV(ctx, symbol, timeframe, klineLimit)
		if err != nil {
			return tool.Failure(err, meta)
		}

		summary := map[string]any{
			"latest_price":         0.0,
			"price_change":         0.0,
			"price_change_percent": 0.0,
			"highest_price":        0.0,
			"lowest_price":         0.0,
			"total_volume":         0.0,
		}
		if len(candles) > 0 {
			first := candles[0]
			last := candles[len(candles)-1]

			highest := first.High
			lowest := first.Low
			var totalVolume float64
			for _, c := range candles {
				if c.High > highest {
					highest = c.High
				}
				if c.Low < lowest {
					lowest = c.Low
				}
				totalVolume += c.Volume
			}

			change := last.Close - first.Open
			var changePercent float64
			if first.Open != 0 {
				changePercent = change / first.Open * 100
			}

			summary["latest_price"] = last.Close
			summary["price_change"] = change
			summary["price_change_percent"] = changePercent
			summary["highest_price"] = highest
			summary["lowest_price"] = lowest
			summary["total_volume"] = totalVolume
			summary["period_start"] = first.Timestamp
			summary["period_end"] = last.Timestamp
		}

		data := map[string]any{
			"klines":  tool.AsMapSlice(candles),
			"count":   len(candles),
			"summary": summary,
		}
		return tool.Success(data, meta)
	})
}
