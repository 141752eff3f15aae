// Package web provides browser-backed search and scraping tools. Google
// result pages and scrape targets are rendered with headless chromium; the
// extracted HTML is parsed and shaped off the browser thread.
//
// All browser work runs on a single worker goroutine with a fixed per-task
// timeout. Each task opens a fresh one-shot browser session and tears it
// down on every exit path.
package web

import (
	"github.com/tickr-ai/tickr/pkg/config"
	"github.com/tickr-ai/tickr/pkg/tool"
)

// NewRegistry builds the web tool set backed by headless chromium.
func NewRegistry(cfg *config.Config) *tool.Registry {
	d := webDeps{
		cfg:   cfg,
		run:   newExecutor(cfg),
		fetch: browserFetch,
	}
	return tool.NewRegistry(
		&scrapeTool{d},
		&googleSearchTool{d},
		&searchExtractTool{d},
		&quickSearchTool{d},
	)
}

// webDeps carries the shared executor and the page fetcher. Tests
// substitute a fake fetcher; production uses browserFetch.
type webDeps struct {
	cfg   *config.Config
	run   *executor
	fetch pageFetcher
}
