// Package tool defines the invocation envelope shared by every tickr tool.
//
// A tool is a named function an agent can call with loosely typed JSON
// parameters. Execution always flows through the same stages: validate the
// input, normalize it, talk to the external resource, shape the raw payload
// into stable field names, and classify any failure. The caller always gets a
// Result back, never a Go error; the tool boundary is where failures are
// contained.
package tool

import "context"

// Tool is a single callable function exposed to an agent.
type Tool interface {
	// Name returns the tool's stable identifier, e.g. "get_ticker_data".
	Name() string

	// Description returns a short human/LLM readable summary of the tool.
	Description() string

	// Schema returns the JSON schema describing the tool's parameters.
	Schema() map[string]interface{}

	// Execute runs the tool. It must be total: it never panics out and
	// never returns a Go error. All failures are reported through the
	// Result envelope.
	Execute(ctx context.Context, params map[string]any) Result
}
