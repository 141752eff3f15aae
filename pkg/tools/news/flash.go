package news

import (
	"context"

	"github.com/tickr-ai/tickr/pkg/tool"
)

// marketDataTool exposes the raw newsflash feed, unshaped. Pagination uses
// the last seen row ID.
type marketDataTool struct {
	feed *feedClient
}

func (t *marketDataTool) Name() string {
	return "get_market_data"
}

func (t *marketDataTool) Description() string {
	return "Get the raw market newsflash feed. Pass the last seen news ID to page through older entries."
}

func (t *marketDataTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"last_id": tool.StringProperty("ID of the last item from the previous page. Empty for the newest entries."),
	}, nil)
}

func (t *marketDataTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	lastID := tool.NormalizeText(tool.StringParam(params, "last_id"))
	meta := tool.Meta("source", "aicoin", "last_id", lastID)

	return tool.Guard(meta, func() tool.Result {
		items, err := t.feed.fetchFlashList(ctx, lastID)
		if err != nil {
			return tool.Failure(err, meta)
		}

		data := map[string]any{
			"items": items,
			"count": len(items),
		}
		return tool.Success(data, meta)
	})
}

type latestNewsTool struct {
	feed *feedClient
}

func (t *latestNewsTool) Name() string {
	return "get_latest_market_news"
}

func (t *latestNewsTool) Description() string {
	return "Get the latest market newsflash items: title, content, time and source."
}

func (t *latestNewsTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"limit": tool.IntegerProperty("Number of news items to return, 1-1000."),
	}, []string{"limit"})
}

func (t *latestNewsTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	limit := tool.IntOrDefault(params, "limit", 0)
	meta := tool.Meta("source", "aicoin", "requested_limit", limit)

	return tool.Guard(meta, func() tool.Result {
		if err := tool.RequireRange("limit", limit, 1, 1000); err != nil {
			return tool.Failure(err, meta)
		}

		items, err := t.feed.fetchFlashList(ctx, "")
		if err != nil {
			return tool.Failure(err, meta)
		}

		limited := items
		if len(limited) > limit {
			limited = limited[:limit]
		}
		news := make([]map[string]any, 0, len(limited))
		for _, item := range limited {
			news = append(news, cleanFlashItem(item))
		}

		data := map[string]any{
			"news": news,
			"count_info": map[string]any{
				"total_available": len(items),
				"requested_limit": limit,
				"actual_returned": len(news),
			},
		}
		return tool.Success(data, meta)
	})
}
