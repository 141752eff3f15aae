package trade

import (
	"context"
	"fmt"

	"github.com/tickr-ai/tickr/pkg/exchange"
	"github.com/tickr-ai/tickr/pkg/tool"
)

type placeSpotOrderTool struct {
	deps
}

func (t *placeSpotOrderTool) Name() string {
	return "place_spot_order"
}

func (t *placeSpotOrderTool) Description() string {
	return "Place a spot limit order. Amount and price are floored to the exchange's precision before submission."
}

func (t *placeSpotOrderTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"symbol":   tool.StringProperty("Trading pair in BASE/QUOTE format, e.g. BTC/USDT."),
		"side":     tool.EnumProperty("Order side.", "buy", "sell"),
		"amount":   tool.NumberProperty("Order amount in base currency."),
		"price":    tool.NumberProperty("Limit price in quote currency."),
		"exchange": tool.StringProperty("Exchange name. Defaults to binance."),
	}, []string{"symbol", "side", "amount", "price"})
}

func (t *placeSpotOrderTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	symbol := tool.NormalizeSymbol(tool.StringParam(params, "symbol"))
	side := tool.NormalizeName(tool.StringParam(params, "side"))
	name := resolveExchange(params)
	meta := tool.Meta("exchange", name, "symbol", symbol, "side", side)

	return tool.Guard(meta, func() tool.Result {
		if err := tool.RequireSpotSymbol(symbol); err != nil {
			return tool.Failure(err, meta)
		}
		if err := tool.RequireOrderSide(side); err != nil {
			return tool.Failure(err, meta)
		}
		amount, _ := tool.FloatParam(params, "amount")
		if err := tool.RequirePositive("amount", amount); err != nil {
			return tool.Failure(err, meta)
		}
		price, _ := tool.FloatParam(params, "price")
		if err := tool.RequirePositive("price", price); err != nil {
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
		market, ok := markets[symbol]
		if !ok {
			return tool.Fail(fmt.Sprintf("symbol %s not found on %s", symbol, name), meta)
		}

		amount = exchange.FloorToPrecision(amount, market.AmountPrecision)
		price = exchange.FloorToPrecision(price, market.PricePrecision)
		if amount <= 0 {
			return tool.Fail(fmt.Sprintf("amount rounds to zero at %d decimal digits", market.AmountPrecision), meta)
		}

		order, err := ex.CreateOrder(ctx, exchange.OrderRequest{
			Symbol: symbol,
			Market: exchange.MarketSpot,
			Type:   "limit",
			Side:   side,
			Amount: amount,
			Price:  price,
		})
		if err != nil {
			return tool.Failure(err, meta)
		}

		data := tool.AsMap(order)
		data["submitted_amount"] = amount
		data["submitted_price"] = price
		return tool.Success(data, meta)
	})
}
