package market

import (
	"context"
	"fmt"

	"github.com/tickr-ai/tickr/pkg/tool"
)

type symbolInfoTool struct {
	deps
}

func (t *symbolInfoTool) Name() string {
	return "get_symbol_info"
}

func (t *symbolInfoTool) Description() string {
	return "Get trading rules for a symbol: precision, minimum order sizes and fees."
}

func (t *symbolInfoTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"symbol":   tool.StringProperty("Trading pair in BASE/QUOTE format, e.g. BTC/USDT."),
		"exchange": tool.StringProperty("Exchange name. Defaults to binance."),
	}, []string{"symbol"})
}

func (t *symbolInfoTool) Execute(ctx context.Context, params map[string]any) tool.Result {
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

		markets, err := ex.FetchMarkets(ctx)
		if err != nil {
			return tool.Failure(err, meta)
		}

		info, ok := markets[symbol]
		if !ok {
			return tool.Fail(fmt.Sprintf("symbol %s not found on %s", symbol, name), meta)
		}

		return tool.Success(tool.AsMap(info), meta)
	})
}
