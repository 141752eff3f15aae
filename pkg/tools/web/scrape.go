package web

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/gobwas/glob"
	"github.com/pkoukk/tiktoken-go"
	"github.com/tickr-ai/tickr/pkg/tool"
)

const (
	linkTextLimit = 100

	// defaultTokenBudget bounds the markdown content so a scrape result
	// fits in a model context alongside the conversation.
	defaultTokenBudget = 8000
	maxTokenBudget     = 32000

	tokenEncoding = "cl100k_base"
)

type scrapeTool struct {
	webDeps
}

func (t *scrapeTool) Name() string {
	return "scrape_webpage"
}

func (t *scrapeTool) Description() string {
	return "Scrape a webpage with a headless browser: title, text content as markdown, and links. Handles JavaScript-rendered pages."
}

func (t *scrapeTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"url":         tool.StringProperty("Page URL. The https scheme is assumed when missing."),
		"link_filter": tool.StringProperty("Optional glob filtering returned links by URL, e.g. *example.com*."),
		"max_tokens":  tool.IntegerProperty(fmt.Sprintf("Token budget for the markdown content. Defaults to %d.", defaultTokenBudget)),
	}, []string{"url"})
}

func (t *scrapeTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	rawURL := tool.NormalizeText(tool.StringParam(params, "url"))
	pageURL, err := normalizePageURL(rawURL)
	meta := tool.Meta("url", pageURL)

	return tool.Guard(meta, func() tool.Result {
		if err != nil {
			return tool.Failure(err, meta)
		}

		budget := tool.IntOrDefault(params, "max_tokens", defaultTokenBudget)
		if budget < 1 || budget > maxTokenBudget {
			budget = defaultTokenBudget
		}

		var filter glob.Glob
		if pattern := tool.NormalizeText(tool.StringParam(params, "link_filter")); pattern != "" {
			filter, err = glob.Compile(pattern)
			if err != nil {
				return tool.Failure(&tool.InputError{Field: "link_filter", Reason: fmt.Sprintf("invalid glob: %v", err)}, meta)
			}
		}

		snapshot, err := t.run.do(ctx, func(taskCtx context.Context) (*pageSnapshot, error) {
			return t.fetch(taskCtx, t.cfg, pageURL, "")
		})
		if err != nil {
			return tool.Failure(err, meta)
		}

		content, truncated := truncateToTokens(markdownFromHTML(snapshot.HTML, snapshot.BodyText), budget)
		links := shapeLinks(snapshot.Links, filter)

		data := map[string]any{
			"url":               snapshot.URL,
			"title":             snapshot.Title,
			"description":       metaDescription(snapshot.HTML),
			"content":           content,
			"content_truncated": truncated,
			"links":             links,
			"links_count":       len(links),
		}
		return tool.Success(data, meta)
	})
}

// normalizePageURL trims the input, assumes https when the scheme is
// missing and rejects URLs without a host.
func normalizePageURL(raw string) (string, error) {
	if raw == "" {
		return "", &tool.InputError{Field: "url", Reason: "is required"}
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return raw, &tool.InputError{Field: "url", Reason: fmt.Sprintf("%q is not a valid URL", raw)}
	}
	return raw, nil
}

// markdownFromHTML converts the page's main content to markdown, falling
// back to the rendered body text when no HTML is available.
func markdownFromHTML(rawHTML, bodyText string) string {
	if rawHTML == "" {
		return bodyText
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return bodyText
	}
	doc.Find("script, style, noscript, iframe, svg").Remove()

	selection := doc.Find("main").First()
	if selection.Length() == 0 {
		selection = doc.Find("article").First()
	}
	if selection.Length() == 0 {
		selection = doc.Find("body").First()
	}
	if selection.Length() == 0 {
		return bodyText
	}

	fragment, err := goquery.OuterHtml(selection)
	if err != nil {
		return bodyText
	}

	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(fragment)
	if err != nil {
		return bodyText
	}
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return bodyText
	}
	return markdown
}

// truncateToTokens cuts text to the token budget. When the encoding is
// unavailable it falls back to a rough four-characters-per-token cut.
func truncateToTokens(text string, budget int) (string, bool) {
	enc, err := tiktoken.GetEncoding(tokenEncoding)
	if err != nil {
		limit := budget * 4
		if len(text) <= limit {
			return text, false
		}
		return clampText(text, limit), true
	}

	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= budget {
		return text, false
	}
	return enc.Decode(tokens[:budget]), true
}

// shapeLinks truncates anchor text and applies the optional URL glob.
func shapeLinks(links []pageLink, filter glob.Glob) []map[string]any {
	shaped := make([]map[string]any, 0, len(links))
	for _, link := range links {
		if filter != nil && !filter.Match(link.URL) {
			continue
		}
		text := clampText(link.Text, linkTextLimit)
		shaped = append(shaped, map[string]any{
			"url":  link.URL,
			"text": text,
		})
	}
	return shaped
}
