package tool

import "time"

// Status is the outcome of a tool invocation.
type Status string

const (
	// StatusSuccess means the call completed and Data is populated.
	StatusSuccess Status = "success"

	// StatusError means the call failed and ErrorMessage explains why.
	StatusError Status = "error"

	// StatusPartial is used by batch tools when some items succeeded and
	// some failed.
	StatusPartial Status = "partial_success"
)

// Result is the uniform envelope every tool returns.
//
// Exactly one of Data and ErrorMessage is set, depending on Status.
// Metadata is always present, including on validation failures that never
// reached an external service: it carries the invocation timestamp plus the
// resolved target of the call (exchange, symbol, url, keyword and so on).
type Result struct {
	Status       Status         `json:"status"`
	Data         map[string]any `json:"data,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Metadata     map[string]any `json:"metadata"`
}

// Meta builds a metadata map with the invocation timestamp plus the given
// key/value pairs. Keys with nil values are skipped.
func Meta(pairs ...any) map[string]any {
	meta := map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok || pairs[i+1] == nil {
			continue
		}
		meta[key] = pairs[i+1]
	}
	return meta
}

// Success builds a success Result.
func Success(data map[string]any, meta map[string]any) Result {
	if meta == nil {
		meta = Meta()
	}
	return Result{Status: StatusSuccess, Data: data, Metadata: meta}
}

// Partial builds a partial_success Result for batch tools.
func Partial(data map[string]any, meta map[string]any) Result {
	if meta == nil {
		meta = Meta()
	}
	return Result{Status: StatusPartial, Data: data, Metadata: meta}
}

// Failure builds an error Result from err, classifying it into a stable,
// user-facing message. Metadata is still attached so callers can see what
// target the failed call resolved to.
func Failure(err error, meta map[string]any) Result {
	if meta == nil {
		meta = Meta()
	}
	return Result{Status: StatusError, ErrorMessage: Classify(err), Metadata: meta}
}

// Fail builds an error Result from a preformatted message. Used for
// messages that are already user-facing, like batch summaries.
func Fail(message string, meta map[string]any) Result {
	if meta == nil {
		meta = Meta()
	}
	return Result{Status: StatusError, ErrorMessage: message, Metadata: meta}
}
