// Package llm contains the outbound completion client.
package llm

import (
	"context"
	"fmt"

	apperrors "threadchat/internal/errors"
)

// FallbackReply is returned when the remote service answers successfully but
// without any text.
const FallbackReply = "No response content"

// Client sends a single user message to a remote model and returns its text.
// No prior conversation is forwarded.
type Client interface {
	Complete(ctx context.Context, message string) (string, error)
}

// FailureKind classifies completion failures for diagnostics.
type FailureKind string

const (
	// FailureTransport means no response was received.
	FailureTransport FailureKind = "transport"
	// FailureStatus means the remote service answered with an error status.
	FailureStatus FailureKind = "status"
	// FailureEmpty marks a successful response without text. It is logged,
	// never returned.
	FailureEmpty FailureKind = "empty"
)

// UpstreamError is returned by Client implementations. It matches
// apperrors.ErrUpstream under errors.Is.
type UpstreamError struct {
	Kind       FailureKind
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion %s failure (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("completion %s failure: %v", e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == apperrors.ErrUpstream
}
