package trade

import (
	"context"
	"fmt"

	"github.com/tickr-ai/tickr/pkg/exchange"
	"github.com/tickr-ai/tickr/pkg/tool"
)

// positionSideMap translates the four-way position action into an order
// side, a hedge-mode position side and the reduce-only flag.
var positionSideMap = map[string]struct {
	side       string
	position   string
	reduceOnly bool
}{
	"open_long":   {side: "buy", position: "long"},
	"open_short":  {side: "sell", position: "short"},
	"close_long":  {side: "sell", position: "long", reduceOnly: true},
	"close_short": {side: "buy", position: "short", reduceOnly: true},
}

type placeFuturesOrderTool struct {
	deps
}

func (t *placeFuturesOrderTool) Name() string {
	return "place_futures_order"
}

func (t *placeFuturesOrderTool) Description() string {
	return "Place a perpetual futures limit order. The base-currency amount is converted to contracts and floored to the exchange's precision."
}

func (t *placeFuturesOrderTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"symbol":        tool.StringProperty("Perpetual contract in BASE/QUOTE:SETTLE format, e.g. BTC/USDT:USDT."),
		"position_side": tool.EnumProperty("Position action.", "open_long", "open_short", "close_long", "close_short"),
		"amount":        tool.NumberProperty("Order amount in base currency, converted to contracts."),
		"price":         tool.NumberProperty("Limit price in quote currency."),
		"exchange":      tool.StringProperty("Exchange name. Defaults to binance."),
	}, []string{"symbol", "position_side", "amount", "price"})
}

func (t *placeFuturesOrderTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	symbol := tool.NormalizeSymbol(tool.StringParam(params, "symbol"))
	action := tool.NormalizeName(tool.StringParam(params, "position_side"))
	name := resolveExchange(params)
	meta := tool.Meta("exchange", name, "symbol", symbol, "position_side", action)

	return tool.Guard(meta, func() tool.Result {
		if err := tool.RequireContractSymbol(symbol); err != nil {
			return tool.Failure(err, meta)
		}
		if err := tool.RequirePositionSide(action); err != nil {
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

		contracts := exchange.AmountToContracts(amount, market)
		if contracts <= 0 {
			return tool.Fail(fmt.Sprintf("amount %v is below one contract step for %s", amount, symbol), meta)
		}
		price = exchange.FloorToPrecision(price, market.PricePrecision)

		mapping := positionSideMap[action]
		order, err := ex.CreateOrder(ctx, exchange.OrderRequest{
			Symbol:       symbol,
			Market:       exchange.MarketFutures,
			Type:         "limit",
			Side:         mapping.side,
			PositionSide: mapping.position,
			ReduceOnly:   mapping.reduceOnly,
			Amount:       contracts,
			Price:        price,
		})
		if err != nil {
			return tool.Failure(err, meta)
		}

		data := tool.AsMap(order)
		data["contracts"] = contracts
		data["submitted_price"] = price
		return tool.Success(data, meta)
	})
}
