package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tickr-ai/tickr/pkg/config"
	"github.com/tickr-ai/tickr/pkg/tool"
)

const (
	whitepaperBase = "https://s3.coinmarketcap.com/whitepaper/summaries"
	coinPageBase   = "https://coinmarketcap.com/currencies"
)

// whitepaperSections are the expert summary fields surfaced when present.
var whitepaperSections = []string{"tldr", "technology", "team", "tokenomics", "roadmap"}

func researchHTTPClient(cfg *config.Config) *http.Client {
	transport := &http.Transport{}
	if proxy := cfg.ProxyURL(); proxy != "" {
		if proxyURL, err := url.Parse(proxy); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}
	return &http.Client{Timeout: cfg.HTTPTimeout(), Transport: transport}
}

type whitepaperTool struct {
	cfg  *config.Config
	http *http.Client
	base string
}

func newWhitepaperTool(cfg *config.Config) *whitepaperTool {
	return &whitepaperTool{cfg: cfg, http: researchHTTPClient(cfg), base: whitepaperBase}
}

func (t *whitepaperTool) Name() string {
	return "get_coin_introduction_by_whitepaper"
}

func (t *whitepaperTool) Description() string {
	return "Get an expert whitepaper summary for a coin: tldr, technology, team, tokenomics and roadmap."
}

func (t *whitepaperTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"coin_name": tool.StringProperty("Coin name as used in its CoinMarketCap URL slug, e.g. bitcoin or ethereum."),
	}, []string{"coin_name"})
}

func (t *whitepaperTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	coin := tool.NormalizeName(tool.StringParam(params, "coin_name"))
	meta := tool.Meta("coin", coin)

	return tool.Guard(meta, func() tool.Result {
		if err := tool.RequireString("coin_name", coin); err != nil {
			return tool.Failure(err, meta)
		}

		rawURL := fmt.Sprintf("%s/%s/en.json", t.base, coin)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return tool.Failure(err, meta)
		}

		resp, err := t.http.Do(req)
		if err != nil {
			return tool.Failure(&tool.TransportError{Op: "fetch whitepaper summary", Err: err}, meta)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden {
			return tool.Fail(fmt.Sprintf("no whitepaper summary available for %q", coin), meta)
		}
		if resp.StatusCode != http.StatusOK {
			return tool.Failure(&tool.UpstreamError{Service: "coinmarketcap", Status: resp.StatusCode}, meta)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return tool.Failure(&tool.TransportError{Op: "read whitepaper summary", Err: err}, meta)
		}

		var summary map[string]any
		if err := json.Unmarshal(body, &summary); err != nil {
			return tool.Failure(fmt.Errorf("malformed whitepaper summary: %w", err), meta)
		}

		data := map[string]any{"coin": coin}
		for _, section := range whitepaperSections {
			if v, ok := summary[section]; ok {
				data[section] = v
			}
		}
		return tool.Success(data, meta)
	})
}

type coinIntroTool struct {
	cfg  *config.Config
	http *http.Client
	base string
}

func newCoinIntroTool(cfg *config.Config) *coinIntroTool {
	return &coinIntroTool{cfg: cfg, http: researchHTTPClient(cfg), base: coinPageBase}
}

func (t *coinIntroTool) Name() string {
	return "get_coin_introduction"
}

func (t *coinIntroTool) Description() string {
	return "Get the introductory FAQ description for a coin from its CoinMarketCap page."
}

func (t *coinIntroTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"coin_name": tool.StringProperty("Coin name as used in its CoinMarketCap URL slug, e.g. bitcoin or ethereum."),
	}, []string{"coin_name"})
}

func (t *coinIntroTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	coin := tool.NormalizeName(tool.StringParam(params, "coin_name"))
	meta := tool.Meta("coin", coin)

	return tool.Guard(meta, func() tool.Result {
		if err := tool.RequireString("coin_name", coin); err != nil {
			return tool.Failure(err, meta)
		}

		rawURL := fmt.Sprintf("%s/%s/", t.base, coin)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return tool.Failure(err, meta)
		}
		req.Header.Set("User-Agent", t.cfg.Browser.UserAgent)

		resp, err := t.http.Do(req)
		if err != nil {
			return tool.Failure(&tool.TransportError{Op: "fetch coin page", Err: err}, meta)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return tool.Fail(fmt.Sprintf("coin %q not found on coinmarketcap", coin), meta)
		}
		if resp.StatusCode != http.StatusOK {
			return tool.Failure(&tool.UpstreamError{Service: "coinmarketcap", Status: resp.StatusCode}, meta)
		}

		doc, err := goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return tool.Failure(fmt.Errorf("failed to parse coin page: %w", err), meta)
		}

		payload := strings.TrimSpace(doc.Find("script#__NEXT_DATA__").Text())
		if payload == "" {
			return tool.Fail(fmt.Sprintf("no introduction data found for %q", coin), meta)
		}

		var page map[string]any
		if err := json.Unmarshal([]byte(payload), &page); err != nil {
			return tool.Failure(fmt.Errorf("malformed coin page data: %w", err), meta)
		}

		description, ok := digString(page, "props", "pageProps", "cdpFaqData", "faqDescription")
		if !ok || description == "" {
			return tool.Fail(fmt.Sprintf("no introduction available for %q", coin), meta)
		}

		data := map[string]any{
			"coin":         coin,
			"introduction": description,
			"source":       rawURL,
		}
		return tool.Success(data, meta)
	})
}

// digString walks nested maps by key and returns the string at the end of
// the path.
func digString(m map[string]any, path ...string) (string, bool) {
	current := any(m)
	for _, key := range path {
		node, ok := current.(map[string]any)
		if !ok {
			return "", false
		}
		current, ok = node[key]
		if !ok {
			return "", false
		}
	}
	s, ok := current.(string)
	return s, ok
}
