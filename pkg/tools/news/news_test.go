package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tickr-ai/tickr/pkg/config"
	"github.com/tickr-ai/tickr/pkg/tool"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Env = func(string) string { return "" }
	return cfg
}

func testFeed(server *httptest.Server) *feedClient {
	feed := newFeedClient(testConfig())
	feed.flashURL = server.URL + "/flash"
	feed.searchURL = server.URL + "/search"
	feed.jin10URL = server.URL + "/jin10"
	feed.retryBackoff = time.Millisecond
	feed.batchDelay = time.Millisecond
	return feed
}

func flashBody(items ...map[string]any) string {
	body, _ := json.Marshal(map[string]any{"data": map[string]any{"tbody": items}})
	return string(body)
}

func TestFetchFlashListRetriesUntilSuccess(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.Write([]byte("not json"))
			return
		}
		w.Write([]byte(flashBody(map[string]any{"title": "hello"})))
	}))
	defer server.Close()

	feed := testFeed(server)
	items, err := feed.fetchFlashList(context.Background(), "")
	if err != nil {
		t.Fatalf("fetchFlashList: %v", err)
	}
	if len(items) != 1 || items[0]["title"] != "hello" {
		t.Errorf("items = %v", items)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestFetchFlashListStopsOnCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	feed := testFeed(server)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := feed.fetchFlashList(ctx, "")
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLatestNewsShapesItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(flashBody(
			map[string]any{"title": "first", "content": "a", "time": "1700000000", "source": "aicoin"},
			map[string]any{"title": "second", "content": "b", "time": float64(1700000060), "source": "aicoin"},
			map[string]any{"title": "third", "content": "c", "time": "1700000120", "source": "aicoin"},
		)))
	}))
	defer server.Close()

	nt := &latestNewsTool{testFeed(server)}
	res := nt.Execute(context.Background(), map[string]any{"limit": float64(2)})
	if res.Status != tool.StatusSuccess {
		t.Fatalf("status = %q: %s", res.Status, res.ErrorMessage)
	}

	news := res.Data["news"].([]map[string]any)
	if len(news) != 2 {
		t.Fatalf("news = %v", news)
	}
	if news[0]["title"] != "first" || news[0]["source"] != "aicoin" {
		t.Errorf("item = %v", news[0])
	}
	if timeStr := news[0]["time"].(string); !strings.HasPrefix(timeStr, "2023-11-1") {
		t.Errorf("time not formatted from unix seconds: %q", timeStr)
	}

	countInfo := res.Data["count_info"].(map[string]any)
	if countInfo["total_available"] != 3 || countInfo["requested_limit"] != 2 || countInfo["actual_returned"] != 2 {
		t.Errorf("count_info = %v", countInfo)
	}
}

func TestLatestNewsLimitValidation(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(flashBody()))
	}))
	defer server.Close()

	nt := &latestNewsTool{testFeed(server)}
	for _, limit := range []float64{0, 1001} {
		res := nt.Execute(context.Background(), map[string]any{"limit": limit})
		if res.Status != tool.StatusError {
			t.Errorf("limit %v should be rejected", limit)
		}
		if res.Metadata == nil || res.Metadata["timestamp"] == nil {
			t.Error("metadata must be present on validation failure")
		}
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Error("validation failure must not reach the feed")
	}
}

func TestSearchNewsChecksSuccessFlag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "index unavailable"})
	}))
	defer server.Close()

	st := &searchNewsTool{testFeed(server)}
	res := st.Execute(context.Background(), map[string]any{"keyword": "bitcoin", "page_size": float64(10)})
	if res.Status != tool.StatusError {
		t.Fatalf("status = %q", res.Status)
	}
	if !strings.Contains(res.ErrorMessage, "index unavailable") {
		t.Errorf("error should carry the upstream message: %q", res.ErrorMessage)
	}
}

func TestSearchNewsShapesHits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		if req["keyWord"] != "bitcoin" || req["pageSize"] != float64(20) {
			t.Errorf("request = %v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"count": 57,
				"list": []map[string]any{
					{"title": "hit", "content": "body", "createTime": "1700000000", "source": "aicoin"},
				},
			},
		})
	}))
	defer server.Close()

	st := &searchNewsTool{testFeed(server)}
	res := st.Execute(context.Background(), map[string]any{"keyword": " bitcoin ", "page_size": float64(20)})
	if res.Status != tool.StatusSuccess {
		t.Fatalf("status = %q: %s", res.Status, res.ErrorMessage)
	}
	if res.Data["keyword"] != "bitcoin" {
		t.Errorf("keyword not normalized: %v", res.Data["keyword"])
	}

	pageInfo := res.Data["page_info"].(map[string]any)
	if pageInfo["total_count"] != 57 || pageInfo["returned_count"] != 1 || pageInfo["page_size"] != 20 {
		t.Errorf("page_info = %v", pageInfo)
	}
}

func TestSearchNewsValidation(t *testing.T) {
	st := &searchNewsTool{testFeed(httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("validation failure must not reach the feed")
	})))}

	res := st.Execute(context.Background(), map[string]any{"keyword": "  ", "page_size": float64(10)})
	if res.Status != tool.StatusError {
		t.Error("blank keyword must be rejected")
	}
	res = st.Execute(context.Background(), map[string]any{"keyword": "btc", "page_size": float64(101)})
	if res.Status != tool.StatusError {
		t.Error("page_size 101 must be rejected")
	}
}

func TestBatchSearchPartialSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		if req["keyWord"] == "broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"count": 1,
				"list":  []map[string]any{{"title": fmt.Sprint(req["keyWord"]), "createTime": "1700000000"}},
			},
		})
	}))
	defer server.Close()

	bt := &batchSearchTool{testFeed(server)}
	res := bt.Execute(context.Background(), map[string]any{
		"keywords": []any{"bitcoin", "broken"},
	})
	if res.Status != tool.StatusPartial {
		t.Fatalf("status = %q: %s", res.Status, res.ErrorMessage)
	}

	results := res.Data["results"].([]map[string]any)
	if len(results) != 2 {
		t.Fatalf("results = %v", results)
	}
	if results[0]["keyword"] != "bitcoin" || results[0]["status"] != "success" || results[0]["news_count"] != 1 {
		t.Errorf("first result = %v", results[0])
	}
	if results[1]["status"] != "error" || results[1]["error_message"] == "" {
		t.Errorf("second result = %v", results[1])
	}

	summary := res.Data["summary"].(map[string]any)
	if summary["success_rate"] != "1/2" || summary["failed_searches"] != 1 || summary["total_news_found"] != 1 {
		t.Errorf("summary = %v", summary)
	}
}

func TestBatchSearchAllFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	bt := &batchSearchTool{testFeed(server)}
	res := bt.Execute(context.Background(), map[string]any{"keywords": []any{"a", "b"}})
	if res.Status != tool.StatusError {
		t.Fatalf("status = %q", res.Status)
	}
	if res.Data != nil {
		t.Error("error results carry no data")
	}
}

func TestBatchSearchDefaultsInvalidPageSize(t *testing.T) {
	var pageSizes []float64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		pageSizes = append(pageSizes, req["pageSize"].(float64))
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"count": 0, "list": []map[string]any{}},
		})
	}))
	defer server.Close()

	bt := &batchSearchTool{testFeed(server)}
	res := bt.Execute(context.Background(), map[string]any{
		"keywords":              []any{"btc"},
		"page_size_per_keyword": float64(500),
	})
	if res.Status != tool.StatusSuccess {
		t.Fatalf("status = %q: %s", res.Status, res.ErrorMessage)
	}
	// An out-of-range batch page size is replaced, not rejected.
	if len(pageSizes) != 1 || pageSizes[0] != 10 {
		t.Errorf("pageSizes = %v", pageSizes)
	}
}

func TestBatchSearchRequiresKeywords(t *testing.T) {
	bt := &batchSearchTool{testFeed(httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})))}

	res := bt.Execute(context.Background(), map[string]any{"keywords": []any{"  ", ""}})
	if res.Status != tool.StatusError {
		t.Fatal("blank keywords must be rejected")
	}
}

func TestMacroDataRequestAndShape(t *testing.T) {
	fixed := time.Date(2026, 3, 10, 15, 30, 0, 0, time.Local)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("channel") != "-8200" || query.Get("vip") != "1" {
			t.Errorf("query = %v", query)
		}
		if query.Get("max_time") != "2026-03-10 14:30:00" {
			t.Errorf("max_time = %q, want one hour before now", query.Get("max_time"))
		}
		if r.Header.Get("x-app-id") == "" {
			t.Error("missing app id header")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"time": "2026-03-10 15:20:00", "data": map[string]any{"content": "CPI release"}},
				{"time": "2026-03-10 15:10:00", "data": map[string]any{"content": "rate decision"}},
			},
		})
	}))
	defer server.Close()

	feed := testFeed(server)
	feed.now = func() time.Time { return fixed }
	mt := &macroTool{feed}

	res := mt.Execute(context.Background(), map[string]any{"limit": float64(1)})
	if res.Status != tool.StatusSuccess {
		t.Fatalf("status = %q: %s", res.Status, res.ErrorMessage)
	}

	headlines := res.Data["macro_data"].([]map[string]any)
	if len(headlines) != 1 || headlines[0]["content"] != "CPI release" {
		t.Errorf("headlines = %v", headlines)
	}
	countInfo := res.Data["count_info"].(map[string]any)
	if countInfo["total_available"] != 2 || countInfo["actual_returned"] != 1 {
		t.Errorf("count_info = %v", countInfo)
	}
}

func TestMacroDataDefaultsOutOfRangeLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{}})
	}))
	defer server.Close()

	mt := &macroTool{testFeed(server)}
	res := mt.Execute(context.Background(), map[string]any{"limit": float64(500)})
	if res.Status != tool.StatusSuccess {
		t.Fatalf("status = %q", res.Status)
	}
	// Out-of-range limits fall back to the default instead of erroring.
	if res.Metadata["requested_limit"] != 50 {
		t.Errorf("metadata = %v", res.Metadata)
	}
}

func TestRegistryContainsAllNewsTools(t *testing.T) {
	registry := NewRegistry(testConfig())
	want := []string{
		"get_market_data", "get_latest_market_news", "search_market_news",
		"batch_search_market_news", "get_macro_data",
	}
	if len(registry.Tools()) != len(want) {
		t.Fatalf("registry has %d tools, want %d", len(registry.Tools()), len(want))
	}
	for _, name := range want {
		if _, err := registry.Get(name); err != nil {
			t.Errorf("missing tool %s", name)
		}
	}
}
