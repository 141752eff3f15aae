package trade

import (
	"context"

	"github.com/tickr-ai/tickr/pkg/tool"
)

type positionsTool struct {
	deps
}

func (t *positionsTool) Name() string {
	return "get_futures_positions"
}

func (t *positionsTool) Description() string {
	return "Get open perpetual positions: side, size, notional, unrealized PnL, entry and mark price."
}

func (t *positionsTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"exchange": tool.StringProperty("Exchange name. Defaults to binance."),
	}, nil)
}

func (t *positionsTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	name := resolveExchange(params)
	meta := tool.Meta("exchange", name)

	return tool.Guard(meta, func() tool.Result {
		ex, err := t.dial(name, t.cfg)
		if err != nil {
			return tool.Failure(err, meta)
		}

		positions, err := ex.FetchPositions(ctx)
		if err != nil {
			return tool.Failure(err, meta)
		}

		data := map[string]any{
			"positions": tool.AsMapSlice(positions),
			"count":     len(positions),
		}
		return tool.Success(data, meta)
	})
}
