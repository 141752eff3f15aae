package news

import (
	"context"

	"github.com/tickr-ai/tickr/pkg/tool"
)

const defaultMacroLimit = 50

type macroTool struct {
	feed *feedClient
}

func (t *macroTool) Name() string {
	return "get_macro_data"
}

func (t *macroTool) Description() string {
	return "Get macroeconomic flash headlines from the last hour."
}

func (t *macroTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"limit": tool.IntegerProperty("Number of headlines to return, 1-100. Defaults to 50."),
	}, nil)
}

func (t *macroTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	limit := tool.IntOrDefault(params, "limit", defaultMacroLimit)
	if limit < 1 || limit > 100 {
		limit = defaultMacroLimit
	}
	meta := tool.Meta("source", "jin10", "requested_limit", limit)

	return tool.Guard(meta, func() tool.Result {
		items, maxTime, err := t.feed.fetchMacroFlash(ctx)
		meta["max_time"] = maxTime
		if err != nil {
			return tool.Failure(err, meta)
		}

		limited := items
		if len(limited) > limit {
			limited = limited[:limit]
		}
		headlines := make([]map[string]any, 0, len(limited))
		for _, item := range limited {
			entry := map[string]any{
				"time":    stringField(item, "time"),
				"content": "",
			}
			if inner, ok := item["data"].(map[string]any); ok {
				entry["content"] = stringField(inner, "content")
			}
			headlines = append(headlines, entry)
		}

		data := map[string]any{
			"macro_data": headlines,
			"count_info": map[string]any{
				"total_available": len(items),
				"requested_limit": limit,
				"actual_returned": len(headlines),
			},
		}
		return tool.Success(data, meta)
	})
}
