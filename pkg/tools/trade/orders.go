package trade

import (
	"context"
	"fmt"

	"github.com/tickr-ai/tickr/pkg/exchange"
	"github.com/tickr-ai/tickr/pkg/tool"
)

type orderMode int

const (
	modeAll orderMode = iota
	modeOpen
	modeClosed
)

func (m orderMode) label() string {
	switch m {
	case modeOpen:
		return "open_orders"
	case modeClosed:
		return "closed_orders"
	default:
		return "orders"
	}
}

// listOrdersTool lists orders for one market type, optionally restricted to
// open or closed state.
type listOrdersTool struct {
	deps
	market exchange.MarketType
	mode   orderMode
}

func (t *listOrdersTool) Name() string {
	return fmt.Sprintf("get_%s_%s", marketLabel(t.market), t.mode.label())
}

func (t *listOrdersTool) Description() string {
	label := marketLabel(t.market)
	switch t.mode {
	case modeOpen:
		return fmt.Sprintf("Get open %s orders. An empty symbol lists all symbols where the exchange supports it.", label)
	case modeClosed:
		return fmt.Sprintf("Get filled %s orders with cost and fees.", label)
	default:
		return fmt.Sprintf("Get recent %s orders in any state.", label)
	}
}

func (t *listOrdersTool) Schema() map[string]interface{} {
	shape := "BASE/QUOTE"
	if t.market == exchange.MarketFutures {
		shape = "BASE/QUOTE:SETTLE"
	}
	return tool.ObjectSchema(map[string]interface{}{
		"symbol":   tool.StringProperty(fmt.Sprintf("Trading pair in %s format. Optional for open orders.", shape)),
		"exchange": tool.StringProperty("Exchange name. Defaults to binance."),
	}, nil)
}

func (t *listOrdersTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	symbol := tool.NormalizeSymbol(tool.StringParam(params, "symbol"))
	name := resolveExchange(params)
	meta := tool.Meta("exchange", name, "symbol", symbol, "market", string(t.market))

	return tool.Guard(meta, func() tool.Result {
		if symbol != "" {
			if err := requireSymbolFor(t.market, symbol); err != nil {
				return tool.Failure(err, meta)
			}
		}

		ex, err := t.dial(name, t.cfg)
		if err != nil {
			return tool.Failure(err, meta)
		}

		var orders []exchange.Order
		if t.mode == modeOpen {
			orders, err = ex.FetchOpenOrders(ctx, t.market, symbol)
		} else {
			orders, err = ex.FetchOrders(ctx, t.market, symbol)
		}
		if err != nil {
			return tool.Failure(err, meta)
		}

		if t.mode == modeClosed {
			closed := orders[:0:0]
			for _, order := range orders {
				if order.Status == "closed" {
					closed = append(closed, order)
				}
			}
			orders = closed
		}

		data := map[string]any{
			"orders": tool.AsMapSlice(orders),
			"count":  len(orders),
		}
		return tool.Success(data, meta)
	})
}

type cancelOrderTool struct {
	deps
	market exchange.MarketType
}

func (t *cancelOrderTool) Name() string {
	return fmt.Sprintf("cancel_%s_order", marketLabel(t.market))
}

func (t *cancelOrderTool) Description() string {
	return fmt.Sprintf("Cancel a %s order by ID. Cancellation is attempted once and never retried.", marketLabel(t.market))
}

func (t *cancelOrderTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"order_id": tool.StringProperty("Exchange order ID."),
		"symbol":   tool.StringProperty("Trading pair the order belongs to."),
		"exchange": tool.StringProperty("Exchange name. Defaults to binance."),
	}, []string{"order_id", "symbol"})
}

func (t *cancelOrderTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	id := tool.NormalizeText(tool.StringParam(params, "order_id"))
	symbol := tool.NormalizeSymbol(tool.StringParam(params, "symbol"))
	name := resolveExchange(params)
	meta := tool.Meta("exchange", name, "symbol", symbol, "order_id", id)

	return tool.Guard(meta, func() tool.Result {
		if err := tool.RequireString("order_id", id); err != nil {
			return tool.Failure(err, meta)
		}
		if err := requireSymbolFor(t.market, symbol); err != nil {
			return tool.Failure(err, meta)
		}

		ex, err := t.dial(name, t.cfg)
		if err != nil {
			return tool.Failure(err, meta)
		}

		order, err := ex.CancelOrder(ctx, t.market, id, symbol)
		if err != nil {
			return tool.Failure(err, meta)
		}
		return tool.Success(tool.AsMap(order), meta)
	})
}

type orderDetailTool struct {
	deps
	market exchange.MarketType
}

func (t *orderDetailTool) Name() string {
	return fmt.Sprintf("get_%s_order_detail", marketLabel(t.market))
}

func (t *orderDetailTool) Description() string {
	return fmt.Sprintf("Get one %s order by ID: state, fills, average price and fees.", marketLabel(t.market))
}

func (t *orderDetailTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"order_id": tool.StringProperty("Exchange order ID."),
		"symbol":   tool.StringProperty("Trading pair the order belongs to."),
		"exchange": tool.StringProperty("Exchange name. Defaults to binance."),
	}, []string{"order_id", "symbol"})
}

func (t *orderDetailTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	id := tool.NormalizeText(tool.StringParam(params, "order_id"))
	symbol := tool.NormalizeSymbol(tool.StringParam(params, "symbol"))
	name := resolveExchange(params)
	meta := tool.Meta("exchange", name, "symbol", symbol, "order_id", id)

	return tool.Guard(meta, func() tool.Result {
		if err := tool.RequireString("order_id", id); err != nil {
			return tool.Failure(err, meta)
		}
		if err := requireSymbolFor(t.market, symbol); err != nil {
			return tool.Failure(err, meta)
		}

		ex, err := t.dial(name, t.cfg)
		if err != nil {
			return tool.Failure(err, meta)
		}

		order, err := ex.FetchOrder(ctx, t.market, id, symbol)
		if err != nil {
			return tool.Failure(err, meta)
		}
		return tool.Success(tool.AsMap(order), meta)
	})
}
