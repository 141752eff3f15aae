package trade

import (
	"context"
	"fmt"

	"github.com/tickr-ai/tickr/pkg/exchange"
	"github.com/tickr-ai/tickr/pkg/tool"
)

type balanceTool struct {
	deps
	market exchange.MarketType
}

func (t *balanceTool) Name() string {
	return fmt.Sprintf("get_%s_balance", marketLabel(t.market))
}

func (t *balanceTool) Description() string {
	if t.market == exchange.MarketFutures {
		return "Get the futures account balance. Only currencies with a non-zero balance are returned."
	}
	return "Get the spot account balance. Only currencies with a non-zero balance are returned."
}

func (t *balanceTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"exchange": tool.StringProperty("Exchange name, e.g. binance or okx. Defaults to binance."),
	}, nil)
}

func (t *balanceTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	name := resolveExchange(params)
	meta := tool.Meta("exchange", name, "market", string(t.market))

	return tool.Guard(meta, func() tool.Result {
		ex, err := t.dial(name, t.cfg)
		if err != nil {
			return tool.Failure(err, meta)
		}

		balance, err := ex.FetchBalance(ctx, t.market)
		if err != nil {
			return tool.Failure(err, meta)
		}

		balances := make(map[string]any)
		for currency, asset := range balance {
			if asset.Total == 0 {
				continue
			}
			balances[currency] = tool.AsMap(asset)
		}

		data := map[string]any{
			"balances":         balances,
			"total_currencies": len(balances),
		}
		return tool.Success(data, meta)
	})
}
