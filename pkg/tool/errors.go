package tool

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
)

// The envelope distinguishes five failure classes. Configuration and input
// errors are raised before any external call is made. Transport errors are
// network-level and worth retrying; upstream errors are definitive answers
// from the remote service and are not.

// ConfigError reports missing credentials, an unsupported exchange, or any
// other precondition the deployment failed to meet.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Reason
}

// InputError reports a caller-supplied parameter that failed validation.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

// TransportError reports a network-level failure reaching the remote
// service: timeouts, refused connections, DNS failures.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamError reports a non-success response from the remote service.
type UpstreamError struct {
	Service string
	Status  int
	Body    string
}

func (e *UpstreamError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s returned status %d: %s", e.Service, e.Status, e.Body)
	}
	return fmt.Sprintf("%s returned status %d", e.Service, e.Status)
}

// Classify maps err to a stable user-facing message for the envelope.
// Unrecognized errors fall through to the unknown class rather than leaking
// a Go error chain verbatim.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr.Error()
	}

	var inErr *InputError
	if errors.As(err, &inErr) {
		return inErr.Error()
	}

	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr.Error()
	}

	var trErr *TransportError
	if errors.As(err, &trErr) {
		return trErr.Error() + " (temporary network issue, retrying may help)"
	}

	// Bare net/url errors that escaped adapter wrapping still classify as
	// transport so the retry hint is not lost.
	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return fmt.Sprintf("transport error: %v (temporary network issue, retrying may help)", err)
	}

	return fmt.Sprintf("unexpected error: %v", err)
}

// Guard runs fn and converts a panic into an error Result so the tool
// contract stays total. meta is attached to the recovered Result.
func Guard(meta map[string]any, fn func() Result) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Fail(fmt.Sprintf("unexpected error: %v", r), meta)
		}
	}()
	return fn()
}
