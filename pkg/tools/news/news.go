// Package news provides market newsflash and macroeconomic headline tools
// backed by the aicoin and jin10 feed APIs.
package news

import (
	"github.com/tickr-ai/tickr/pkg/config"
	"github.com/tickr-ai/tickr/pkg/tool"
)

// NewRegistry builds the news tool set.
func NewRegistry(cfg *config.Config) *tool.Registry {
	feed := newFeedClient(cfg)
	return tool.NewRegistry(
		&marketDataTool{feed},
		&latestNewsTool{feed},
		&searchNewsTool{feed},
		&batchSearchTool{feed},
		&macroTool{feed},
	)
}
