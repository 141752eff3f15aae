package market

import (
	"context"

	"github.com/tickr-ai/tickr/pkg/exchange"
	"github.com/tickr-ai/tickr/pkg/tool"
)

type supportedExchangesTool struct{}

func (t *supportedExchangesTool) Name() string {
	return "get_supported_exchanges"
}

func (t *supportedExchangesTool) Description() string {
	return "List the supported exchanges with their capabilities and rate limits."
}

func (t *supportedExchangesTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{}, nil)
}

func (t *supportedExchangesTool) Execute(ctx context.Context, params map[string]any) tool.Result {
	meta := tool.Meta()

	capabilities := make(map[string]any)
	for name, capability := range exchange.Capabilities() {
		capabilities[name] = tool.AsMap(capability)
	}

	data := map[string]any{
		"exchanges": capabilities,
		"total":     len(capabilities),
	}
	return tool.Success(data, meta)
}
