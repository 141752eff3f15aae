package news

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tickr-ai/tickr/pkg/config"
	"github.com/tickr-ai/tickr/pkg/logging"
	"github.com/tickr-ai/tickr/pkg/tool"
)

const (
	flashURL  = "https://api-test.aicoin.com/v3/hotFlash/getNewsFlashList"
	searchURL = "https://www.aicoin.com/api/upgrade/search/newsflashByScore"
	jin10URL  = "https://flash-api.jin10.com/get_flash_list"

	flashUserAgent = "AICoin_Test/2.5.54 (android SDK 31; OnePlus/900 screenSize/1080x2208 density/3.0 isStoreRelease/false)"

	jin10AppID   = "bVBF4FyRTn5NJF5n"
	jin10Channel = "-8200"

	timeLayout = "2006-01-02 15:04:05"
)

// feedClient calls the newsflash endpoints. The feed is a non-critical read
// path: the raw flash poll retries on transport failure forever with a
// fixed backoff, preferring availability over timeliness. All other calls
// are single attempts.
type feedClient struct {
	cfg  *config.Config
	http *http.Client
	log  *logging.Logger

	flashURL  string
	searchURL string
	jin10URL  string

	retryBackoff time.Duration
	batchDelay   time.Duration
	now          func() time.Time
}

func newFeedClient(cfg *config.Config) *feedClient {
	transport := &http.Transport{}
	if proxy := cfg.ProxyURL(); proxy != "" {
		if proxyURL, err := url.Parse(proxy); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}
	log, _ := logging.NewLogger("news")
	return &feedClient{
		cfg:          cfg,
		http:         &http.Client{Timeout: cfg.HTTPTimeout(), Transport: transport},
		log:          log,
		flashURL:     flashURL,
		searchURL:    searchURL,
		jin10URL:     jin10URL,
		retryBackoff: 5 * time.Second,
		batchDelay:   500 * time.Millisecond,
		now:          time.Now,
	}
}

// fetchFlashList fetches the raw newsflash feed, retrying forever on
// failure until the context is cancelled.
func (c *feedClient) fetchFlashList(ctx context.Context, lastID string) ([]map[string]any, error) {
	payload := map[string]any{
		"type":     "1",
		"lan":      "cn",
		"userid":   "",
		"lastid":   lastID,
		"pagesize": 1000,
		"version":  "v1",
	}

	for {
		items, err := c.postFlash(ctx, payload)
		if err == nil {
			return items, nil
		}
		c.log.Warnf("newsflash fetch failed, retrying in %s: %v", c.retryBackoff, err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryBackoff):
		}
	}
}

func (c *feedClient) postFlash(ctx context.Context, payload map[string]any) ([]map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.flashURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", flashUserAgent)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &tool.TransportError{Op: "fetch newsflash list", Err: err}
	}
	defer resp.Body.Close()

	var decoded struct {
		Data struct {
			Tbody []map[string]any `json:"tbody"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("malformed newsflash response: %w", err)
	}
	return decoded.Data.Tbody, nil
}

// searchResponse is the newsflashByScore payload.
type searchResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Count int              `json:"count"`
		List  []map[string]any `json:"list"`
	} `json:"data"`
}

// searchFlash searches the newsflash index for one keyword. Single attempt,
// no retry.
func (c *feedClient) searchFlash(ctx context.Context, keyword string, pageSize int) (*searchResponse, error) {
	body, err := json.Marshal(map[string]any{
		"keyWord":  keyword,
		"page":     1,
		"pageSize": pageSize,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.searchURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &tool.TransportError{Op: "search newsflash", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &tool.UpstreamError{Service: "aicoin", Status: resp.StatusCode}
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("malformed search response: %w", err)
	}
	if !decoded.Success {
		message := decoded.Message
		if message == "" {
			message = "unknown error"
		}
		return nil, &tool.UpstreamError{Service: "aicoin", Status: resp.StatusCode, Body: message}
	}
	return &decoded, nil
}

// fetchMacroFlash fetches macroeconomic headlines from the last hour.
func (c *feedClient) fetchMacroFlash(ctx context.Context) ([]map[string]any, string, error) {
	maxTime := c.now().Add(-time.Hour).Format(timeLayout)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.jin10URL, nil)
	if err != nil {
		return nil, maxTime, err
	}
	query := req.URL.Query()
	query.Set("channel", jin10Channel)
	query.Set("vip", "1")
	query.Set("max_time", maxTime)
	req.URL.RawQuery = query.Encode()

	req.Header.Set("x-app-id", jin10AppID)
	req.Header.Set("x-version", "1.0.0")
	req.Header.Set("User-Agent", c.cfg.Browser.UserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Referer", "https://www.jin10.com/")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, maxTime, &tool.TransportError{Op: "fetch macro flash list", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return nil, maxTime, &tool.UpstreamError{Service: "jin10", Status: resp.StatusCode, Body: string(body)}
	}

	var decoded struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, maxTime, fmt.Errorf("malformed macro flash response: %w", err)
	}
	return decoded.Data, maxTime, nil
}

// cleanFlashItem shapes a raw feed row into title/content/time/source.
// Feed timestamps are unix seconds, as strings or numbers.
func cleanFlashItem(item map[string]any) map[string]any {
	return map[string]any{
		"title":   stringField(item, "title"),
		"content": stringField(item, "content"),
		"time":    formatUnix(item["time"]),
		"source":  stringField(item, "source"),
	}
}

// cleanSearchItem shapes a search hit, which carries createTime instead of
// time.
func cleanSearchItem(item map[string]any) map[string]any {
	return map[string]any{
		"title":   stringField(item, "title"),
		"content": stringField(item, "content"),
		"time":    formatUnix(item["createTime"]),
		"source":  stringField(item, "source"),
	}
}

func stringField(item map[string]any, key string) string {
	if v, ok := item[key].(string); ok {
		return v
	}
	return ""
}

func formatUnix(v any) string {
	var seconds int64
	switch t := v.(type) {
	case float64:
		seconds = int64(t)
	case string:
		var parsed float64
		if _, err := fmt.Sscanf(t, "%f", &parsed); err != nil {
			return ""
		}
		seconds = int64(parsed)
	default:
		return ""
	}
	if seconds <= 0 {
		return ""
	}
	return time.Unix(seconds, 0).Format(timeLayout)
}
