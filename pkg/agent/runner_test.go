package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tickr-ai/tickr/pkg/config"
	"github.com/tickr-ai/tickr/pkg/llm"
	"github.com/tickr-ai/tickr/pkg/tool"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Env = func(string) string { return "" }
	return cfg
}

// echoTool records invocations and returns a canned envelope.
type echoTool struct {
	name   string
	result tool.Result
	calls  []map[string]any
}

func (t *echoTool) Name() string        { return t.name }
func (t *echoTool) Description() string { return "test tool" }
func (t *echoTool) Schema() map[string]interface{} {
	return tool.ObjectSchema(map[string]interface{}{
		"symbol": tool.StringProperty("Trading pair."),
	}, []string{"symbol"})
}

func (t *echoTool) Execute(_ context.Context, params map[string]any) tool.Result {
	t.calls = append(t.calls, params)
	return t.result
}

// scriptedClient returns queued completions and records every request.
type scriptedClient struct {
	completions []*llm.Completion
	err         error

	requests [][]any
	toolDefs [][]llm.ToolDef
}

func (c *scriptedClient) Complete(_ context.Context, messages []any, tools []llm.ToolDef) (*llm.Completion, error) {
	snapshot := make([]any, len(messages))
	copy(snapshot, messages)
	c.requests = append(c.requests, snapshot)
	c.toolDefs = append(c.toolDefs, tools)

	if c.err != nil {
		return nil, c.err
	}
	if len(c.completions) == 0 {
		return nil, errors.New("no scripted completion left")
	}
	next := c.completions[0]
	c.completions = c.completions[1:]
	return next, nil
}

func toolCallCompletion(id, name, arguments string) *llm.Completion {
	assistant := fmt.Sprintf(
		`{"role":"assistant","tool_calls":[{"id":%q,"type":"function","function":{"name":%q,"arguments":%q}}]}`,
		id, name, arguments,
	)
	return &llm.Completion{
		ToolCalls: []llm.ToolCall{{
			ID:       id,
			Type:     "function",
			Function: llm.FunctionCall{Name: name, Arguments: arguments},
		}},
		FinishReason: "tool_calls",
		Assistant:    json.RawMessage(assistant),
	}
}

func textCompletion(content string) *llm.Completion {
	return &llm.Completion{Content: content, FinishReason: "stop"}
}

func testAgent(tools ...tool.Tool) Agent {
	return Agent{
		Name:        "test",
		Instruction: "You are a test agent.",
		Tools:       tool.NewRegistry(tools...),
	}
}

func TestRunnerAnswersDirectly(t *testing.T) {
	client := &scriptedClient{completions: []*llm.Completion{textCompletion("BTC is up today.")}}
	runner := newRunner(client, testAgent(&echoTool{name: "get_ticker_data"}), testConfig())

	answer, err := runner.Run(context.Background(), "how is btc?")

	require.NoError(t, err)
	assert.Equal(t, "BTC is up today.", answer)

	require.Len(t, client.requests, 1)
	assert.Len(t, client.requests[0], 2, "system + user message")

	require.Len(t, client.toolDefs[0], 1)
	assert.Equal(t, "get_ticker_data", client.toolDefs[0][0].Function.Name)
	assert.Equal(t, "function", client.toolDefs[0][0].Type)
}

func TestRunnerExecutesToolCallLoop(t *testing.T) {
	ticker := &echoTool{
		name:   "get_ticker_data",
		result: tool.Success(map[string]any{"last_price": 50000.0}, tool.Meta("symbol", "BTC/USDT")),
	}
	client := &scriptedClient{completions: []*llm.Completion{
		toolCallCompletion("call_1", "get_ticker_data", `{"symbol":"BTC/USDT"}`),
		textCompletion("BTC trades at 50000."),
	}}
	runner := newRunner(client, testAgent(ticker), testConfig())

	answer, err := runner.Run(context.Background(), "price of btc?")

	require.NoError(t, err)
	assert.Equal(t, "BTC trades at 50000.", answer)

	require.Len(t, ticker.calls, 1)
	assert.Equal(t, "BTC/USDT", ticker.calls[0]["symbol"])

	// Second request: system, user, assistant tool-call replay, tool reply.
	require.Len(t, client.requests, 2)
	second := client.requests[1]
	require.Len(t, second, 4)

	_, isRaw := second[2].(json.RawMessage)
	assert.True(t, isRaw, "assistant tool-call message must be replayed verbatim")

	toolMsg, err := json.Marshal(second[3])
	require.NoError(t, err)
	var decoded struct {
		Role       string `json:"role"`
		Content    string `json:"content"`
		ToolCallID string `json:"tool_call_id"`
	}
	require.NoError(t, json.Unmarshal(toolMsg, &decoded))
	assert.Equal(t, "tool", decoded.Role)
	assert.Equal(t, "call_1", decoded.ToolCallID)

	var result tool.Result
	require.NoError(t, json.Unmarshal([]byte(decoded.Content), &result))
	assert.Equal(t, tool.StatusSuccess, result.Status)
	assert.Equal(t, 50000.0, result.Data["last_price"])
}

func TestRunnerFeedsUnknownToolErrorBack(t *testing.T) {
	client := &scriptedClient{completions: []*llm.Completion{
		toolCallCompletion("call_1", "no_such_tool", `{}`),
		textCompletion("I cannot do that."),
	}}
	runner := newRunner(client, testAgent(&echoTool{name: "get_ticker_data"}), testConfig())

	answer, err := runner.Run(context.Background(), "do something odd")

	require.NoError(t, err, "unknown tools must not abort the loop")
	assert.Equal(t, "I cannot do that.", answer)

	second := client.requests[1]
	toolMsg, _ := json.Marshal(second[len(second)-1])
	assert.Contains(t, string(toolMsg), "unknown tool")
	assert.Contains(t, string(toolMsg), `"error"`)
}

func TestRunnerRejectsMalformedArguments(t *testing.T) {
	ticker := &echoTool{name: "get_ticker_data"}
	client := &scriptedClient{completions: []*llm.Completion{
		toolCallCompletion("call_1", "get_ticker_data", `{not json`),
		textCompletion("done"),
	}}
	runner := newRunner(client, testAgent(ticker), testConfig())

	_, err := runner.Run(context.Background(), "price?")

	require.NoError(t, err)
	assert.Empty(t, ticker.calls, "tool must not run on malformed arguments")

	second := client.requests[1]
	toolMsg, _ := json.Marshal(second[len(second)-1])
	assert.Contains(t, string(toolMsg), "not valid JSON")
}

func TestRunnerStopsAtIterationBudget(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.MaxIterations = 3

	completions := make([]*llm.Completion, 0, 3)
	for i := 0; i < 3; i++ {
		completions = append(completions, toolCallCompletion(fmt.Sprintf("call_%d", i), "get_ticker_data", `{"symbol":"BTC/USDT"}`))
	}
	ticker := &echoTool{name: "get_ticker_data", result: tool.Success(map[string]any{}, tool.Meta())}
	client := &scriptedClient{completions: completions}
	runner := newRunner(client, testAgent(ticker), cfg)

	_, err := runner.Run(context.Background(), "loop forever")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeded 3 tool iterations")
	assert.Len(t, ticker.calls, 3)
}

func TestRunnerPropagatesCompletionError(t *testing.T) {
	client := &scriptedClient{err: errors.New("upstream down")}
	runner := newRunner(client, testAgent(&echoTool{name: "get_ticker_data"}), testConfig())

	_, err := runner.Run(context.Background(), "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
}

func TestRunnerKeepsHistoryAcrossTurns(t *testing.T) {
	client := &scriptedClient{completions: []*llm.Completion{
		textCompletion("first answer"),
		textCompletion("second answer"),
	}}
	runner := newRunner(client, testAgent(&echoTool{name: "get_ticker_data"}), testConfig())

	_, err := runner.Run(context.Background(), "first question")
	require.NoError(t, err)
	_, err = runner.Run(context.Background(), "second question")
	require.NoError(t, err)

	// Second turn carries system, q1, a1, q2.
	require.Len(t, client.requests, 2)
	assert.Len(t, client.requests[1], 4)

	runner.Reset()
	client.completions = []*llm.Completion{textCompletion("fresh")}
	_, err = runner.Run(context.Background(), "third question")
	require.NoError(t, err)
	assert.Len(t, client.requests[2], 2, "reset must drop history")
}
