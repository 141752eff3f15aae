package web

import (
	"context"
	"fmt"
	"io"

	"github.com/playwright-community/playwright-go"
	"github.com/tickr-ai/tickr/pkg/config"
	"github.com/tickr-ai/tickr/pkg/tool"
)

const (
	viewportWidth  = 1280
	viewportHeight = 720

	// Page-level playwright timeout in milliseconds. The executor's task
	// timeout is the outer bound.
	pageTimeoutMillis = 30000
)

// pageLink is one anchor extracted from a rendered page.
type pageLink struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// pageSnapshot is everything a tool needs from a rendered page. The
// browser session is already closed by the time a snapshot is returned.
type pageSnapshot struct {
	URL      string
	Title    string
	BodyText string
	HTML     string
	Links    []pageLink
}

// pageFetcher renders one page and returns its snapshot.
type pageFetcher func(ctx context.Context, cfg *config.Config, url, locale string) (*pageSnapshot, error)

// session is a one-shot headless browser. Sessions are never reused: each
// fetch launches chromium and closes it before returning.
type session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

func newSession(cfg *config.Config, locale string) (*session, error) {
	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}
	if err := playwright.Install(opts); err != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", err)
	}
	pw, err := playwright.Run(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	s := &session{pw: pw}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Browser.Headless),
	}
	if proxy := cfg.ProxyURL(); proxy != "" {
		launchOpts.Proxy = &playwright.Proxy{Server: proxy}
	}
	s.browser, err = pw.Chromium.Launch(launchOpts)
	if err != nil {
		s.close()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	contextOpts := playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(cfg.Browser.UserAgent),
		Viewport:  &playwright.Size{Width: viewportWidth, Height: viewportHeight},
	}
	if locale != "" {
		contextOpts.Locale = playwright.String(locale)
	}
	s.context, err = s.browser.NewContext(contextOpts)
	if err != nil {
		s.close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	s.page, err = s.context.NewPage()
	if err != nil {
		s.close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	s.page.SetDefaultTimeout(pageTimeoutMillis)

	return s, nil
}

// close tears the session down page-first. Safe on partially constructed
// sessions; errors are ignored, cleanup always runs to the end.
func (s *session) close() {
	if s.page != nil {
		_ = s.page.Close()
	}
	if s.context != nil {
		_ = s.context.Close()
	}
	if s.browser != nil {
		_ = s.browser.Close()
	}
	if s.pw != nil {
		_ = s.pw.Stop()
	}
}

// browserFetch renders url in a fresh session and snapshots it.
func browserFetch(ctx context.Context, cfg *config.Config, url, locale string) (*pageSnapshot, error) {
	s, err := newSession(cfg, locale)
	if err != nil {
		return nil, &tool.TransportError{Op: "start browser", Err: err}
	}
	defer s.close()

	if _, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return nil, &tool.TransportError{Op: "load page", Err: err}
	}

	snapshot := &pageSnapshot{URL: s.page.URL()}

	if title, err := s.page.Title(); err == nil {
		snapshot.Title = title
	}
	if text, err := s.page.InnerText("body"); err == nil {
		snapshot.BodyText = text
	}
	if html, err := s.page.Content(); err == nil {
		snapshot.HTML = html
	}
	snapshot.Links = extractPageLinks(s.page)

	return snapshot, nil
}

// extractPageLinks pulls all anchors in one evaluate call to keep DOM
// round-trips down.
func extractPageLinks(page playwright.Page) []pageLink {
	raw, err := page.Evaluate(`() => Array.from(document.querySelectorAll('a[href]')).map(a => ({
		url: a.href,
		text: a.innerText.trim().slice(0, 100)
	}))`)
	if err != nil {
		return nil
	}

	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	links := make([]pageLink, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		url, _ := entry["url"].(string)
		text, _ := entry["text"].(string)
		if url != "" {
			links = append(links, pageLink{URL: url, Text: text})
		}
	}
	return links
}
