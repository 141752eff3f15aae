// Package llm is a chat-completions client with function calling for
// OpenAI-compatible APIs.
//
// Messages are built with the openai-go param helpers; the transport is a
// plain HTTP POST and responses are decoded into local structs, which keeps
// the client working against Azure, local models and other compatible
// gateways regardless of SDK strictness.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/tickr-ai/tickr/pkg/config"
)

// DefaultBaseURL is the default OpenAI API base URL.
const DefaultBaseURL = "https://api.openai.com/v1"

// Client calls a chat-completions endpoint.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
}

// NewClient builds a client from the LLM section of cfg.
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required (set llm.api_key or OPENAI_API_KEY)")
	}

	baseURL := cfg.LLM.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: &http.Client{},
		apiKey:     cfg.LLM.APIKey,
		baseURL:    baseURL,
		model:      cfg.LLM.Model,
	}, nil
}

// Model returns the model name completions are sent to.
func (c *Client) Model() string {
	return c.model
}

// CloneWithModel returns a copy of c that sends completions to model. The
// clone shares the HTTP client, credentials and base URL with the
// original, so it is cheap to create per agent.
func (c *Client) CloneWithModel(model string) *Client {
	clone := *c
	clone.model = model
	return &clone
}

// ToolDef describes one callable function in the request payload.
type ToolDef struct {
	Type     string      `json:"type"`
	Function FunctionDef `json:"function"`
}

// FunctionDef is the function half of a ToolDef.
type FunctionDef struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

// FunctionTool builds a function ToolDef.
func FunctionTool(name, description string, parameters map[string]interface{}) ToolDef {
	return ToolDef{
		Type: "function",
		Function: FunctionDef{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}

// ToolCall is one function invocation requested by the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall carries the function name and its JSON-encoded arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Completion is the decoded first choice of a chat-completions response.
// Assistant holds the verbatim assistant message so callers can replay it
// into the next request without re-encoding tool calls.
type Completion struct {
	Content      string
	ToolCalls    []ToolCall
	FinishReason string
	Assistant    json.RawMessage
}

// SystemMessage builds a system message for Complete.
func SystemMessage(content string) any {
	return openai.SystemMessage(content)
}

// UserMessage builds a user message for Complete.
func UserMessage(content string) any {
	return openai.UserMessage(content)
}

// AssistantMessage builds a plain-text assistant message for Complete.
func AssistantMessage(content string) any {
	return openai.AssistantMessage(content)
}

// toolResultMessage is the tool-role reply to a specific tool call.
type toolResultMessage struct {
	Role       string `json:"role"`
	Content    string `json:"content"`
	ToolCallID string `json:"tool_call_id"`
}

// ToolMessage builds a tool-result message answering toolCallID.
func ToolMessage(content, toolCallID string) any {
	return toolResultMessage{Role: "tool", Content: content, ToolCallID: toolCallID}
}

// Complete sends messages to the chat-completions endpoint and returns the
// first choice. tools, when non-empty, is advertised to the model for
// function calling.
func (c *Client) Complete(ctx context.Context, messages []any, tools []ToolDef) (*Completion, error) {
	reqBody := map[string]interface{}{
		"model":    c.model,
		"messages": messages,
	}
	if len(tools) > 0 {
		reqBody["tools"] = tools
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed struct {
		Choices []struct {
			Message      json.RawMessage `json:"message"`
			FinishReason string          `json:"finish_reason"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("API response contained no choices")
	}

	choice := parsed.Choices[0]
	var message struct {
		Content   string     `json:"content"`
		ToolCalls []ToolCall `json:"tool_calls"`
	}
	if err := json.Unmarshal(choice.Message, &message); err != nil {
		return nil, fmt.Errorf("failed to decode assistant message: %w", err)
	}

	return &Completion{
		Content:      message.Content,
		ToolCalls:    message.ToolCalls,
		FinishReason: choice.FinishReason,
		Assistant:    choice.Message,
	}, nil
}
