package news

import (
	"context"
	"fmt"
	"time"

	"github.com/tickr-ai/tickr/pkg/tool"
)

type searchNewsTool struct {
	feed *feedClient
}

func (t *searchNewsTool) Name() string {
	return "search_market_news"
}

func (t *searchNewsTool) Description() string {
	return "Search the market newsflash index for one keyword."
}

func (t *searchNewsTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"keyword":   tool.StringProperty("Search keyword, e.g. a coin name, company or event."),
		"page_size": tool.IntegerProperty("Number of news items to return, 1-100."),
	}, []string{"keyword", "page_size"})
}

func (t *searchNewsTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	keyword := tool.NormalizeText(tool.StringParam(params, "keyword"))
	pageSize := tool.IntOrDefault(params, "page_size", 0)
	meta := tool.Meta("source", "aicoin", "keyword", keyword, "page_size", pageSize)

	return tool.Guard(meta, func() tool.Result {
		if err := tool.RequireString("keyword", keyword); err != nil {
			return tool.Failure(err, meta)
		}
		if err := tool.RequireRange("page_size", pageSize, 1, 100); err != nil {
			return tool.Failure(err, meta)
		}

		resp, err := t.feed.searchFlash(ctx, keyword, pageSize)
		if err != nil {
			return tool.Failure(err, meta)
		}

		news := make([]map[string]any, 0, len(resp.Data.List))
		for _, item := range resp.Data.List {
			news = append(news, cleanSearchItem(item))
		}
		total := resp.Data.Count
		if total == 0 {
			total = len(news)
		}

		data := map[string]any{
			"keyword": keyword,
			"news":    news,
			"page_info": map[string]any{
				"current_page":   1,
				"page_size":      pageSize,
				"total_count":    total,
				"returned_count": len(news),
			},
		}
		return tool.Success(data, meta)
	})
}

// defaultBatchPageSize replaces an out-of-range per-keyword page size.
// Unlike the single search, batch searches clamp silently.
const defaultBatchPageSize = 10

type batchSearchTool struct {
	feed *feedClient
}

func (t *batchSearchTool) Name() string {
	return "batch_search_market_news"
}

func (t *batchSearchTool) Description() string {
	return "Search the market newsflash index for several keywords at once. Keywords are searched sequentially."
}

func (t *batchSearchTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"keywords":              tool.ArrayProperty("Search keywords.", tool.StringProperty("A keyword.")),
		"page_size_per_keyword": tool.IntegerProperty("News items per keyword, 1-100. Defaults to 10."),
	}, []string{"keywords"})
}

func (t *batchSearchTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	keywords := make([]string, 0)
	for _, keyword := range tool.StringSliceParam(params, "keywords") {
		if normalized := tool.NormalizeText(keyword); normalized != "" {
			keywords = append(keywords, normalized)
		}
	}

	pageSize := tool.IntOrDefault(params, "page_size_per_keyword", defaultBatchPageSize)
	if pageSize < 1 || pageSize > 100 {
		pageSize = defaultBatchPageSize
	}
	meta := tool.Meta("source", "aicoin", "keywords", keywords, "page_size_per_keyword", pageSize)

	return tool.Guard(meta, func() tool.Result {
		if len(keywords) == 0 {
			return tool.Failure(&tool.InputError{Field: "keywords", Reason: "at least one non-empty keyword is required"}, meta)
		}

		// Sequential on purpose: a fixed delay between searches keeps the
		// batch under the upstream rate limit.
		results := make([]map[string]any, 0, len(keywords))
		var succeeded, totalNews int
		for i, keyword := range keywords {
			if i > 0 {
				select {
				case <-ctx.Done():
					return tool.Failure(ctx.Err(), meta)
				case <-time.After(t.feed.batchDelay):
				}
			}

			resp, err := t.feed.searchFlash(ctx, keyword, pageSize)
			if err != nil {
				results = append(results, map[string]any{
					"keyword":       keyword,
					"status":        string(tool.StatusError),
					"news":          []map[string]any{},
					"news_count":    0,
					"error_message": tool.Classify(err),
				})
				continue
			}

			news := make([]map[string]any, 0, len(resp.Data.List))
			for _, item := range resp.Data.List {
				news = append(news, cleanSearchItem(item))
			}
			succeeded++
			totalNews += len(news)
			results = append(results, map[string]any{
				"keyword":    keyword,
				"status":     string(tool.StatusSuccess),
				"news":       news,
				"news_count": len(news),
			})
		}

		summary := map[string]any{
			"total_keywords":      len(keywords),
			"successful_searches": succeeded,
			"failed_searches":     len(keywords) - succeeded,
			"total_news_found":    totalNews,
			"success_rate":        fmt.Sprintf("%d/%d", succeeded, len(keywords)),
		}

		if succeeded == 0 {
			return tool.Fail(fmt.Sprintf("all %d keyword searches failed", len(keywords)), meta)
		}

		data := map[string]any{
			"results": results,
			"summary": summary,
		}
		if succeeded < len(keywords) {
			return tool.Partial(data, meta)
		}
		return tool.Success(data, meta)
	})
}
