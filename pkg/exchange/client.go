package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tickr-ai/tickr/pkg/config"
	"github.com/tickr-ai/tickr/pkg/tool"
)

const maxErrorBody = 300

// restClient is the shared HTTP plumbing for venue adapters: per-handle
// client with the configured timeout and proxy, uniform transport and
// upstream error wrapping.
type restClient struct {
	http    *http.Client
	service string
}

func newRESTClient(cfg *config.Config, service string) *restClient {
	transport := &http.Transport{}
	if proxy := cfg.ProxyURL(); proxy != "" {
		if proxyURL, err := url.Parse(proxy); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}
	return &restClient{
		http: &http.Client{
			Timeout:   cfg.HTTPTimeout(),
			Transport: transport,
		},
		service: service,
	}
}

// do sends one request and returns the response body. Network failures
// wrap as transport errors, non-2xx responses as upstream errors carrying
// the status and a bounded excerpt of the body.
func (c *restClient) do(ctx context.Context, method, rawURL string, headers map[string]string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &tool.TransportError{Op: method + " " + req.URL.Host, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &tool.TransportError{Op: "read " + req.URL.Host, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &tool.UpstreamError{
			Service: c.service,
			Status:  resp.StatusCode,
			Body:    truncateBody(data),
		}
	}
	return data, nil
}

// getJSON fetches rawURL and decodes the response into out.
func (c *restClient) getJSON(ctx context.Context, rawURL string, headers map[string]string, out any) error {
	data, err := c.do(ctx, http.MethodGet, rawURL, headers, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", c.service, err)
	}
	return nil
}

func truncateBody(data []byte) string {
	body := strings.TrimSpace(string(data))
	if len(body) > maxErrorBody {
		return body[:maxErrorBody] + "..."
	}
	return body
}

func upper(s string) string { return strings.ToUpper(s) }

// toFloat parses venue numerics, which arrive as strings or numbers
// depending on the endpoint. Unparseable values yield 0.
func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	case json.Number:
		f, _ := n.Float64()
		return f
	}
	return 0
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseInt(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
