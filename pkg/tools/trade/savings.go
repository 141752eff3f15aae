package trade

import (
	"context"
	"fmt"
	"strings"

	"github.com/tickr-ai/tickr/pkg/tool"
)

type savingsProductsTool struct {
	deps
}

func (t *savingsProductsTool) Name() string {
	return "get_savings_products"
}

func (t *savingsProductsTool) Description() string {
	return "List flexible savings products with their current yields. Field names follow the exchange's native API."
}

func (t *savingsProductsTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"exchange": tool.StringProperty("Exchange name, e.g. binance or okx. Defaults to binance."),
	}, nil)
}

func (t *savingsProductsTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	name := resolveExchange(params)
	meta := tool.Meta("exchange", name)

	return tool.Guard(meta, func() tool.Result {
		ex, err := t.dial(name, t.cfg)
		if err != nil {
			return tool.Failure(err, meta)
		}

		products, err := ex.FetchSavingsProducts(ctx)
		if err != nil {
			return tool.Failure(err, meta)
		}

		data := map[string]any{
			"products": products,
			"count":    len(products),
		}
		return tool.Success(data, meta)
	})
}

type savingsYieldTool struct {
	deps
}

func (t *savingsYieldTool) Name() string {
	return "get_savings_yield_by_asset"
}

func (t *savingsYieldTool) Description() string {
	return "Get the flexible savings product for one asset, matched case-insensitively."
}

func (t *savingsYieldTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"asset":    tool.StringProperty("Asset code, e.g. USDT or BTC."),
		"exchange": tool.StringProperty("Exchange name. Defaults to binance."),
	}, []string{"asset"})
}

func (t *savingsYieldTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	asset := tool.NormalizeSymbol(tool.StringParam(params, "asset"))
	name := resolveExchange(params)
	meta := tool.Meta("exchange", name, "asset", asset)

	return tool.Guard(meta, func() tool.Result {
		if err := tool.RequireString("asset", asset); err != nil {
			return tool.Failure(err, meta)
		}

		ex, err := t.dial(name, t.cfg)
		if err != nil {
			return tool.Failure(err, meta)
		}

		products, err := ex.FetchSavingsProducts(ctx)
		if err != nil {
			return tool.Failure(err, meta)
		}

		for _, product := range products {
			if strings.EqualFold(productAsset(product), asset) {
				data := map[string]any{
					"asset":   asset,
					"product": product,
				}
				return tool.Success(data, meta)
			}
		}
		return tool.Fail(fmt.Sprintf("no savings product found for %s on %s", asset, name), meta)
	})
}

// savingsTransferTool subscribes into or redeems from flexible savings.
// Like order placement, both directions are at-most-once: a failed request
// is reported, never resubmitted.
type savingsTransferTool struct {
	deps
	redeem bool
}

func (t *savingsTransferTool) Name() string {
	if t.redeem {
		return "redeem_savings_product"
	}
	return "purchase_savings_product"
}

func (t *savingsTransferTool) Description() string {
	if t.redeem {
		return "Redeem an amount of one asset from flexible savings. A failed redemption is never retried."
	}
	return "Subscribe an amount of one asset into flexible savings. A failed subscription is never retried."
}

func (t *savingsTransferTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"asset":    tool.StringProperty("Asset code, e.g. USDT."),
		"amount":   tool.NumberProperty("Amount in the asset's own units."),
		"exchange": tool.StringProperty("Exchange name. Defaults to binance."),
	}, []string{"asset", "amount"})
}

func (t *savingsTransferTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	asset := tool.NormalizeSymbol(tool.StringParam(params, "asset"))
	name := resolveExchange(params)
	meta := tool.Meta("exchange", name, "asset", asset)

	return tool.Guard(meta, func() tool.Result {
		if err := tool.RequireString("asset", asset); err != nil {
			return tool.Failure(err, meta)
		}
		amount, _ := tool.FloatParam(params, "amount")
		if err := tool.RequirePositive("amount", amount); err != nil {
			return tool.Failure(err, meta)
		}

		ex, err := t.dial(name, t.cfg)
		if err != nil {
			return tool.Failure(err, meta)
		}

		transfer := ex.PurchaseSavings
		if t.redeem {
			transfer = ex.RedeemSavings
		}
		ack, err := transfer(ctx, asset, amount)
		if err != nil {
			return tool.Failure(err, meta)
		}
		return tool.Success(ack, meta)
	})
}

type savingsBalanceTool struct {
	deps
}

func (t *savingsBalanceTool) Name() string {
	return "get_savings_balance"
}

func (t *savingsBalanceTool) Description() string {
	return "Get current flexible savings holdings per asset."
}

func (t *savingsBalanceTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"exchange": tool.StringProperty("Exchange name. Defaults to binance."),
	}, nil)
}

func (t *savingsBalanceTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	name := resolveExchange(params)
	meta := tool.Meta("exchange", name)

	return tool.Guard(meta, func() tool.Result {
		ex, err := t.dial(name, t.cfg)
		if err != nil {
			return tool.Failure(err, meta)
		}

		positions, err := ex.FetchSavingsBalance(ctx)
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

// productAsset reads the asset code from a native product row. Binance rows
// carry "asset", OKX rows carry "ccy".
func productAsset(product map[string]any) string {
	if v, ok := product["asset"].(string); ok {
		return v
	}
	if v, ok := product["ccy"].(string); ok {
		return v
	}
	return ""
}
