package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// TransientKind classifies a transient provider failure.
type TransientKind string

// Transient failure kinds
const (
	KindRateLimit TransientKind = "rate_limit"
	KindServer    TransientKind = "server_error"
	KindTimeout   TransientKind = "timeout"
	KindMalformed TransientKind = "malformed_output"
)

// TransientError represents a provider failure that is safe to retry:
// rate limits, timeouts, server errors, and malformed model output.
type TransientError struct {
	Kind  TransientKind
	Cause error
}

func (e *TransientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transient provider error (%s): %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("transient provider error (%s)", e.Kind)
}

func (e *TransientError) Unwrap() error {
	return e.Cause
}

// AsTransient returns the TransientError wrapped in err, if any.
func AsTransient(err error) (*TransientError, bool) {
	var te *TransientError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// classifyProviderError wraps an LLM client error as transient when it looks
// retryable. API SDK errors don't expose stable types across providers, so
// status sniffing on the message is the practical classifier.
func classifyProviderError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TransientError{Kind: KindTimeout, Cause: err}
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "too many requests"),
		strings.Contains(msg, "resource_exhausted"):
		return &TransientError{Kind: KindRateLimit, Cause: err}
	case strings.Contains(msg, "500"),
		strings.Contains(msg, "502"),
		strings.Contains(msg, "503"),
		strings.Contains(msg, "internal server error"),
		strings.Contains(msg, "server_error"),
		strings.Contains(msg, "unavailable"):
		return &TransientError{Kind: KindServer, Cause: err}
	case strings.Contains(msg, "timeout"),
		strings.Contains(msg, "deadline exceeded"):
		return &TransientError{Kind: KindTimeout, Cause: err}
	case strings.Contains(msg, "empty response"),
		strings.Contains(msg, "no candidates"),
		strings.Contains(msg, "no content"):
		return &TransientError{Kind: KindMalformed, Cause: err}
	}
	return err
}
