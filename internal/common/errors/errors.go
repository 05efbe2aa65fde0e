// Package errors provides standardized error handling for the prospecting pipeline.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Upstream API failures
	ErrCodeUpstreamRejected  ErrorCode = "UPSTREAM_REJECTED"
	ErrCodeUpstreamThrottled ErrorCode = "UPSTREAM_THROTTLED"
	ErrCodeUpstreamTimeout   ErrorCode = "UPSTREAM_TIMEOUT"
	ErrCodeRetriesExhausted  ErrorCode = "RETRIES_EXHAUSTED"
	ErrCodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"

	// Input failures
	ErrCodeInvalidFilterFormat ErrorCode = "INVALID_FILTER_FORMAT"
	ErrCodeUnknownRole         ErrorCode = "UNKNOWN_ROLE"
	ErrCodeInvalidEventPayload ErrorCode = "INVALID_EVENT_PAYLOAD"

	// Startup failures
	ErrCodeMissingCredentials ErrorCode = "MISSING_CREDENTIALS"
	ErrCodeTaxonomyLoadFailed ErrorCode = "TAXONOMY_LOAD_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewUpstreamRejectedError marks a non-200/non-429 upstream response. Callers
// degrade to an empty result rather than failing the pipeline.
func NewUpstreamRejectedError(status int, snippet string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamRejected,
		Message:   fmt.Sprintf("upstream returned status %d", status),
		Details:   snippet,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamThrottledError marks an HTTP 429, retried with backoff.
func NewUpstreamThrottledError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamThrottled,
		Message:   "upstream rate limit hit",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRetriesExhaustedError marks a call that failed every retry attempt.
func NewRetriesExhaustedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRetriesExhausted,
		Message:   "all retry attempts failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedResponseError marks a JSON decode failure or empty body.
func NewMalformedResponseError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedResponse,
		Message:   "could not decode upstream response",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingCredentialsError is raised at startup before any pipeline work.
func NewMissingCredentialsError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingCredentials,
		Message:   "required credentials are not configured",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTaxonomyLoadError is raised at startup when the role taxonomy file is unusable.
func NewTaxonomyLoadError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTaxonomyLoadFailed,
		Message:   "role taxonomy could not be loaded",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsRetryable reports whether err carries a retryable StandardError.
func IsRetryable(err error) bool {
	if se, ok := err.(*StandardError); ok {
		return se.Retryable
	}
	return false
}
