// Package agent defines declarative agent bundles and the tool-calling
// loop that drives them.
//
// An Agent is data: a name, an instruction and a tool registry. All
// reasoning and tool selection is delegated to the model; the Runner only
// shuttles tool calls to the registry and feeds the results back.
package agent

import (
	"fmt"

	"github.com/tickr-ai/tickr/pkg/config"
	"github.com/tickr-ai/tickr/pkg/tool"
	"github.com/tickr-ai/tickr/pkg/tools/market"
	"github.com/tickr-ai/tickr/pkg/tools/news"
	"github.com/tickr-ai/tickr/pkg/tools/trade"
	"github.com/tickr-ai/tickr/pkg/tools/web"
)

// Agent is a declarative bundle of model, instruction and tools.
type Agent struct {
	Name        string
	Description string

	// Model overrides the configured default when non-empty.
	Model string

	Instruction string
	Tools       *tool.Registry
}

// MarketAgent answers market-data questions: prices, orderbooks, klines,
// funding, open interest and coin fundamentals.
func MarketAgent(cfg *config.Config) Agent {
	return Agent{
		Name:        "market",
		Description: "Crypto market data analysis: tickers, orderbooks, trades, klines, funding rates, open interest and coin fundamentals.",
		Instruction: marketInstruction,
		Tools:       market.NewRegistry(cfg),
	}
}

// TradeAgent executes account operations: balances, orders, positions and
// savings products.
func TradeAgent(cfg *config.Config) Agent {
	return Agent{
		Name:        "trade",
		Description: "Crypto account operations: balances, spot and futures orders, positions and savings products.",
		Instruction: tradeInstruction,
		Tools:       trade.NewRegistry(cfg),
	}
}

// NewsAgent covers crypto news flashes, keyword search and macro headlines.
func NewsAgent(cfg *config.Config) Agent {
	return Agent{
		Name:        "news",
		Description: "Crypto and macro news: latest flashes, keyword search, batch monitoring and macro headlines.",
		Instruction: newsInstruction,
		Tools:       news.NewRegistry(cfg),
	}
}

// SearchAgent runs Google searches, optionally extracting result pages.
func SearchAgent(cfg *config.Config) Agent {
	return Agent{
		Name:        "search",
		Description: "Web search via Google with optional content extraction from result pages.",
		Instruction: searchInstruction,
		Tools:       subset(web.NewRegistry(cfg), "google_search", "search_and_extract", "quick_search"),
	}
}

// ScrapeAgent scrapes individual pages with a headless browser.
func ScrapeAgent(cfg *config.Config) Agent {
	return Agent{
		Name:        "scrape",
		Description: "Webpage scraping with a headless browser: title, markdown content and links.",
		Instruction: scrapeInstruction,
		Tools:       subset(web.NewRegistry(cfg), "scrape_webpage"),
	}
}

// Coordinator bundles every tool behind a routing instruction. It is the
// default agent for open-ended questions.
func Coordinator(cfg *config.Config) Agent {
	return Agent{
		Name:        "coordinator",
		Description: "Routes between market data, trading, news and web tools.",
		Instruction: coordinatorInstruction,
		Tools: tool.Merge(
			market.NewRegistry(cfg),
			trade.NewRegistry(cfg),
			news.NewRegistry(cfg),
			web.NewRegistry(cfg),
		),
	}
}

// ByName returns the named agent preset.
func ByName(cfg *config.Config, name string) (Agent, error) {
	switch name {
	case "market":
		return MarketAgent(cfg), nil
	case "trade":
		return TradeAgent(cfg), nil
	case "news":
		return NewsAgent(cfg), nil
	case "search":
		return SearchAgent(cfg), nil
	case "scrape":
		return ScrapeAgent(cfg), nil
	case "coordinator":
		return Coordinator(cfg), nil
	}
	return Agent{}, fmt.Errorf("unknown agent %q (available: market, trade, news, search, scrape, coordinator)", name)
}

// Names lists the available agent presets.
func Names() []string {
	return []string{"market", "trade", "news", "search", "scrape", "coordinator"}
}

// subset picks the named tools out of reg. Names are static, so a missing
// tool is a programming error and panics early.
func subset(reg *tool.Registry, names ...string) *tool.Registry {
	out := tool.NewRegistry()
	for _, name := range names {
		t, err := reg.Get(name)
		if err != nil {
			panic(err)
		}
		out.Register(t)
	}
	return out
}
