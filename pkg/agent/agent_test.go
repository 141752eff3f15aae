package agent

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByNameReturnsEveryPreset(t *testing.T) {
	cfg := testConfig()

	for _, name := range Names() {
		a, err := ByName(cfg, name)
		require.NoError(t, err, name)
		assert.Equal(t, name, a.Name)
		assert.NotEmpty(t, a.Instruction, name)
		assert.NotEmpty(t, a.Tools.Tools(), name)
	}

	_, err := ByName(cfg, "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown agent")
}

func TestPresetToolAssignments(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		agent    Agent
		expected []string
		excluded []string
	}{
		{
			agent:    MarketAgent(cfg),
			expected: []string{"get_ticker_data", "get_kline_data", "get_market_overview"},
			excluded: []string{"place_spot_order", "scrape_webpage"},
		},
		{
			agent:    TradeAgent(cfg),
			expected: []string{"place_spot_order", "place_futures_order", "get_futures_positions"},
			excluded: []string{"get_ticker_data"},
		},
		{
			agent:    NewsAgent(cfg),
			expected: []string{"get_latest_market_news", "batch_search_market_news", "get_macro_data"},
			excluded: []string{"google_search"},
		},
		{
			agent:    SearchAgent(cfg),
			expected: []string{"google_search", "search_and_extract", "quick_search"},
			excluded: []string{"scrape_webpage"},
		},
		{
			agent:    ScrapeAgent(cfg),
			expected: []string{"scrape_webpage"},
			excluded: []string{"google_search"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.agent.Name, func(t *testing.T) {
			for _, name := range tt.expected {
				_, err := tt.agent.Tools.Get(name)
				assert.NoError(t, err, name)
			}
			for _, name := range tt.excluded {
				_, err := tt.agent.Tools.Get(name)
				assert.Error(t, err, name)
			}
		})
	}
}

func TestCoordinatorMergesAllToolFamilies(t *testing.T) {
	coord := Coordinator(testConfig())

	for _, name := range []string{
		"get_ticker_data",
		"place_spot_order",
		"get_latest_market_news",
		"google_search",
		"scrape_webpage",
	} {
		_, err := coord.Tools.Get(name)
		assert.NoError(t, err, name)
	}

	// 11 market + 20 trade + 5 news + 4 web.
	assert.Len(t, coord.Tools.Tools(), 40)
}

// toolNamePattern matches snake_case tool names with the prefixes the
// registries use. Instructions must only name tools that actually exist.
var toolNamePattern = regexp.MustCompile(`\b(?:get|place|cancel|purchase|redeem|search|batch|google|quick|scrape)_[a-z_]+`)

func TestInstructionsNameRegisteredTools(t *testing.T) {
	cfg := testConfig()

	for _, name := range Names() {
		a, err := ByName(cfg, name)
		require.NoError(t, err, name)

		for _, tool := range toolNamePattern.FindAllString(a.Instruction, -1) {
			_, err := a.Tools.Get(tool)
			assert.NoError(t, err, "%s instruction names %s", name, tool)
		}
	}
}
