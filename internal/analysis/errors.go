package analysis

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a pipeline failure so callers can pick a
// recovery policy without parsing error strings.
type ErrorKind string

const (
	// KindInferenceUnavailable means the backend was unreachable.
	// Likely transient; callers may retry after backoff.
	KindInferenceUnavailable ErrorKind = "inference_unavailable"
	// KindInferenceTimeout means the backend produced no reply within
	// the bounded wait.
	KindInferenceTimeout ErrorKind = "inference_timeout"
	// KindInferenceError means the backend reported an internal failure.
	KindInferenceError ErrorKind = "inference_error"
	// KindMalformedResponse means the reply contained no recoverable
	// structured payload.
	KindMalformedResponse ErrorKind = "malformed_response"
)

// PipelineError is a classified failure. Raw carries the backend's
// reply so the caller can log or display it; the core itself never
// logs reply content.
type PipelineError struct {
	Kind    ErrorKind
	Message string
	Raw     string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// NewError builds a classified PipelineError.
func NewError(kind ErrorKind, message, raw string, err error) *PipelineError {
	return &PipelineError{Kind: kind, Message: message, Raw: raw, Err: err}
}

// KindOf returns err's classification, or "" when err is not a
// PipelineError.
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
