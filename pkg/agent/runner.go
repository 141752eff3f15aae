package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tickr-ai/tickr/pkg/config"
	"github.com/tickr-ai/tickr/pkg/llm"
	"github.com/tickr-ai/tickr/pkg/logging"
	"github.com/tickr-ai/tickr/pkg/tool"
)

// completionClient is the slice of llm.Client the runner needs.
type completionClient interface {
	Complete(ctx context.Context, messages []any, tools []llm.ToolDef) (*llm.Completion, error)
}

// Runner drives one agent through the model's tool-calling loop. It keeps
// the conversation history, so successive Run calls form a chat session.
// A Runner is not safe for concurrent use.
type Runner struct {
	client        completionClient
	agent         Agent
	maxIterations int
	log           *logging.Logger
	messages      []any
}

// NewRunner builds a runner for agent. When the agent declares its own
// model, completions go there instead of the configured default.
func NewRunner(client *llm.Client, agent Agent, cfg *config.Config) *Runner {
	if agent.Model != "" {
		client = client.CloneWithModel(agent.Model)
	}
	return newRunner(client, agent, cfg)
}

func newRunner(client completionClient, agent Agent, cfg *config.Config) *Runner {
	log, _ := logging.NewLogger("agent")
	maxIterations := cfg.LLM.MaxIterations
	if maxIterations <= 0 {
		maxIterations = config.Default().LLM.MaxIterations
	}
	return &Runner{
		client:        client,
		agent:         agent,
		maxIterations: maxIterations,
		log:           log,
	}
}

// Run sends input to the model and loops over tool calls until the model
// answers in plain text or the iteration budget runs out.
func (r *Runner) Run(ctx context.Context, input string) (string, error) {
	if len(r.messages) == 0 {
		r.messages = append(r.messages, llm.SystemMessage(r.agent.Instruction))
	}
	r.messages = append(r.messages, llm.UserMessage(input))

	defs := toolDefs(r.agent.Tools)

	for i := 0; i < r.maxIterations; i++ {
		completion, err := r.client.Complete(ctx, r.messages, defs)
		if err != nil {
			return "", fmt.Errorf("completion failed: %w", err)
		}

		if len(completion.ToolCalls) == 0 {
			r.messages = append(r.messages, llm.AssistantMessage(completion.Content))
			return completion.Content, nil
		}

		// Replay the assistant message verbatim so the tool replies below
		// stay paired with their call IDs.
		r.messages = append(r.messages, completion.Assistant)

		for _, call := range completion.ToolCalls {
			result := r.executeCall(ctx, call)
			r.messages = append(r.messages, llm.ToolMessage(encodeResult(result), call.ID))
		}
	}

	return "", fmt.Errorf("agent %s exceeded %d tool iterations without answering", r.agent.Name, r.maxIterations)
}

// Reset drops the conversation history.
func (r *Runner) Reset() {
	r.messages = nil
}

// executeCall resolves and runs one tool call. Failures are returned as
// error envelopes, never as Go errors: the model gets a well-shaped result
// for every call it makes.
func (r *Runner) executeCall(ctx context.Context, call llm.ToolCall) tool.Result {
	name := call.Function.Name
	meta := tool.Meta("tool", name)

	t, err := r.agent.Tools.Get(name)
	if err != nil {
		r.log.Warnf("model requested unknown tool %q", name)
		return tool.Fail(fmt.Sprintf("unknown tool %q", name), meta)
	}

	params := map[string]any{}
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &params); err != nil {
			return tool.Failure(&tool.InputError{Reason: fmt.Sprintf("arguments are not valid JSON: %v", err)}, meta)
		}
	}

	r.log.Infof("agent %s calling tool %s", r.agent.Name, name)
	return t.Execute(ctx, params)
}

// toolDefs advertises every registered tool to the model.
func toolDefs(reg *tool.Registry) []llm.ToolDef {
	tools := reg.Tools()
	defs := make([]llm.ToolDef, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, llm.FunctionTool(t.Name(), t.Description(), t.Schema()))
	}
	return defs
}

// encodeResult renders a tool result as the JSON the model reads back.
func encodeResult(result tool.Result) string {
	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf(`{"status":"error","error_message":"failed to encode tool result: %v"}`, err)
	}
	return string(encoded)
}
