package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/tickr-ai/tickr/pkg/config"
	"github.com/tickr-ai/tickr/pkg/tool"
)

const (
	defaultSearchNum  = 10
	maxSearchNum      = 100
	maxExtractNum     = 10
	defaultSearchLang = "en"

	// extractTextLimit bounds the text pulled from each result page by
	// search_and_extract.
	extractTextLimit = 5000
)

// searchResult is one organic hit parsed from a Google result page.
type searchResult struct {
	Position     int
	Title        string
	URL          string
	Description  string
	DisplayedURL string
}

type googleSearchTool struct {
	webDeps
}

func (t *googleSearchTool) Name() string {
	return "google_search"
}

func (t *googleSearchTool) Description() string {
	return "Search Google and return organic results: title, URL, description and displayed URL per hit."
}

func (t *googleSearchTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"query": tool.StringProperty("Search query."),
		"num":   tool.IntegerProperty(fmt.Sprintf("Number of results, 1-%d. Defaults to %d.", maxSearchNum, defaultSearchNum)),
		"lang":  tool.StringProperty("Interface language code, e.g. en or zh-CN. Defaults to en."),
	}, []string{"query"})
}

func (t *googleSearchTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	query := tool.NormalizeText(tool.StringParam(params, "query"))
	lang := searchLang(params)
	meta := tool.Meta("query", query, "lang", lang)

	return tool.Guard(meta, func() tool.Result {
		num := tool.IntOrDefault(params, "num", defaultSearchNum)
		if err := tool.RequireString("query", query); err != nil {
			return tool.Failure(err, meta)
		}
		if err := tool.RequireRange("num", num, 1, maxSearchNum); err != nil {
			return tool.Failure(err, meta)
		}

		results, stats, err := runSearch(ctx, t.webDeps, query, lang, num)
		if err != nil {
			return tool.Failure(err, meta)
		}
		return tool.Success(searchData(query, results, stats), meta)
	})
}

// runSearch renders the result page and parses it off the browser thread.
func runSearch(ctx context.Context, d webDeps, query, lang string, num int) ([]searchResult, string, error) {
	snapshot, err := d.run.do(ctx, func(taskCtx context.Context) (*pageSnapshot, error) {
		return d.fetch(taskCtx, d.cfg, googleSearchURL(query, lang, num), lang)
	})
	if err != nil {
		return nil, "", err
	}
	return parseSearchResults(snapshot.HTML, num)
}

func googleSearchURL(query, lang string, num int) string {
	values := url.Values{}
	values.Set("q", query)
	values.Set("hl", lang)
	values.Set("num", fmt.Sprintf("%d", num))
	return "https://www.google.com/search?" + values.Encode()
}

func searchLang(params map[string]any) string {
	if lang := tool.NormalizeText(tool.StringParam(params, "lang")); lang != "" {
		return lang
	}
	return defaultSearchLang
}

func searchData(query string, results []searchResult, stats string) map[string]any {
	shaped := make([]map[string]any, 0, len(results))
	for _, r := range results {
		shaped = append(shaped, map[string]any{
			"position":      r.Position,
			"title":         r.Title,
			"url":           r.URL,
			"description":   r.Description,
			"displayed_url": r.DisplayedURL,
		})
	}
	data := map[string]any{
		"query":         query,
		"results":       shaped,
		"results_count": len(shaped),
	}
	if stats != "" {
		data["result_stats"] = stats
	}
	return data
}

// parseSearchResults extracts organic hits from a rendered Google result
// page. Results are deduplicated by URL and capped at num.
func parseSearchResults(rawHTML string, num int) ([]searchResult, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse result page: %w", err)
	}

	if blocked(doc) {
		return nil, "", &tool.UpstreamError{
			Service: "google",
			Status:  http.StatusTooManyRequests,
			Body:    "unusual traffic detected, the search was blocked",
		}
	}

	seen := make(map[string]bool)
	var results []searchResult

	doc.Find("div[data-ved]").EachWithBreak(func(_ int, container *goquery.Selection) bool {
		title := tool.NormalizeText(container.Find("h3").First().Text())
		if title == "" {
			return true
		}

		href, ok := container.Find(`a[href^="http"]`).First().Attr("href")
		if !ok || href == "" || seen[href] {
			return true
		}
		if strings.Contains(href, "google.com/search") {
			return true
		}
		seen[href] = true

		results = append(results, searchResult{
			Position:     len(results) + 1,
			Title:        title,
			URL:          href,
			Description:  resultDescription(container),
			DisplayedURL: tool.NormalizeText(container.Find("cite").First().Text()),
		})
		return len(results) < num
	})

	stats := tool.NormalizeText(doc.Find("#result-stats").First().Text())
	return results, stats, nil
}

// blocked reports whether the page is Google's rate-limit interstitial
// rather than a result page. The notice is localized, so both the English
// and Chinese variants are checked.
func blocked(doc *goquery.Document) bool {
	body := doc.Find("body").Text()
	return strings.Contains(body, "unusual traffic") || strings.Contains(body, "检测到异常流量")
}

// resultDescription tries the snippet containers Google currently uses,
// most specific first.
func resultDescription(container *goquery.Selection) string {
	for _, selector := range []string{
		`div[data-sncf="1"]`,
		`[style*="-webkit-line-clamp"]`,
		".VwiC3b",
	} {
		if text := tool.NormalizeText(container.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

type searchExtractTool struct {
	webDeps
}

func (t *searchExtractTool) Name() string {
	return "search_and_extract"
}

func (t *searchExtractTool) Description() string {
	return "Search Google, then fetch each result page and extract its main text content."
}

func (t *searchExtractTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"query": tool.StringProperty("Search query."),
		"num":   tool.IntegerProperty(fmt.Sprintf("Number of results to extract, 1-%d. Defaults to 3.", maxExtractNum)),
		"lang":  tool.StringProperty("Interface language code. Defaults to en."),
	}, []string{"query"})
}

func (t *searchExtractTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	query := tool.NormalizeText(tool.StringParam(params, "query"))
	lang := searchLang(params)
	meta := tool.Meta("query", query, "lang", lang)

	return tool.Guard(meta, func() tool.Result {
		num := tool.IntOrDefault(params, "num", 3)
		if err := tool.RequireString("query", query); err != nil {
			return tool.Failure(err, meta)
		}
		if err := tool.RequireRange("num", num, 1, maxExtractNum); err != nil {
			return tool.Failure(err, meta)
		}

		results, stats, err := runSearch(ctx, t.webDeps, query, lang, num)
		if err != nil {
			return tool.Failure(err, meta)
		}

		client := &http.Client{Timeout: t.cfg.HTTPTimeout()}
		shaped := make([]map[string]any, 0, len(results))
		extracted := 0
		for _, r := range results {
			entry := map[string]any{
				"position":    r.Position,
				"title":       r.Title,
				"url":         r.URL,
				"description": r.Description,
			}
			content, err := fetchPageText(ctx, client, t.cfg, r.URL)
			if err != nil {
				entry["content_available"] = false
				entry["content_error"] = tool.Classify(err)
			} else {
				entry["content_available"] = true
				entry["content"] = content
				extracted++
			}
			shaped = append(shaped, entry)
		}

		data := map[string]any{
			"query":           query,
			"results":         shaped,
			"results_count":   len(shaped),
			"extracted_count": extracted,
		}
		if stats != "" {
			data["result_stats"] = stats
		}
		if len(shaped) > 0 && extracted == 0 {
			return tool.Partial(data, meta)
		}
		return tool.Success(data, meta)
	})
}

// fetchPageText fetches url directly, no browser, and extracts its main
// text. Result pages that render fine without JavaScript are the common
// case and a plain GET is far cheaper than a chromium session per hit.
func fetchPageText(ctx context.Context, client *http.Client, cfg *config.Config, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &tool.TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("User-Agent", cfg.Browser.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", &tool.TransportError{Op: "fetch page", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &tool.UpstreamError{Service: pageURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", &tool.TransportError{Op: "read page", Err: err}
	}

	text := extractMainText(string(body))
	if text == "" {
		return "", fmt.Errorf("no readable content found")
	}
	return text, nil
}

// extractMainText pulls the main content of a page: a main or article
// element when present, a content-ish container otherwise, and finally the
// concatenated paragraphs.
func extractMainText(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript").Remove()

	for _, selector := range []string{
		"main",
		"article",
		`div[class*="content"]`,
		`div[class*="main"]`,
		`div[class*="article"]`,
	} {
		if text := tool.NormalizeText(doc.Find(selector).First().Text()); text != "" {
			return clampText(text, extractTextLimit)
		}
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := tool.NormalizeText(p.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	return clampText(strings.Join(paragraphs, "\n"), extractTextLimit)
}

// clampText cuts text to at most limit bytes, backing up so a multi-byte
// rune is never split.
func clampText(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// quickSearchTool is google_search preset for Chinese-language market
// queries: ten results, zh-CN interface.
type quickSearchTool struct {
	webDeps
}

func (t *quickSearchTool) Name() string {
	return "quick_search"
}

func (t *quickSearchTool) Description() string {
	return "Quick Google search with fixed defaults: 10 results, Chinese interface. Takes only a query."
}

func (t *quickSearchTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"query": tool.StringProperty("Search query."),
	}, []string{"query"})
}

func (t *quickSearchTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	query := tool.NormalizeText(tool.StringParam(params, "query"))
	meta := tool.Meta("query", query, "search_type", "quick")

	return tool.Guard(meta, func() tool.Result {
		if err := tool.RequireString("query", query); err != nil {
			return tool.Failure(err, meta)
		}

		results, stats, err := runSearch(ctx, t.webDeps, query, "zh-CN", defaultSearchNum)
		if err != nil {
			return tool.Failure(err, meta)
		}
		return tool.Success(searchData(query, results, stats), meta)
	})
}
