package services

import "fmt"

// Typed service errors, converted to HTTP responses at the handler boundary.

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type ForbiddenError struct{ Message string }

func (e *ForbiddenError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type RateLimitError struct{ Message string }

func (e *RateLimitError) Error() string { return e.Message }

// UpstreamError reports a non-success status from the generation endpoint
// that carries no more specific meaning than the status itself.
type UpstreamError struct{ StatusCode int }

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("generation request failed with status %d", e.StatusCode)
}

// MalformedResponseError means the generation call succeeded at the transport
// level but the payload did not have the expected shape.
type MalformedResponseError struct{ Message string }

func (e *MalformedResponseError) Error() string { return e.Message }
