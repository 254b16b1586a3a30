package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ValidationError is a 4xx response carrying per-field messages. Callers map
// each field back onto its form control.
type ValidationError struct {
	Status int
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("request rejected (HTTP %d)", e.Status)
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("request rejected (HTTP %d): %s", e.Status, strings.Join(parts, "; "))
}

// AuthError is a 401 response. By the time a caller sees it the session has
// already been cleared and the landing redirect triggered; surfacing it is
// only for user messaging.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "unauthorized — please reconnect your wallet"
	}
	return e.Message
}

// RateLimitError is a 429 response, carrying the server's Retry-After hint
// when present.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
	}
	return "rate limited"
}

// ServerError is a 5xx response. Logged centrally, never retried
// automatically, never clears the session.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (HTTP %d)", e.Status)
	}
	return fmt.Sprintf("server error (HTTP %d): %s", e.Status, e.Message)
}

// NetworkError means no response was received at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// IsAuthError reports whether err classifies as an authentication failure.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsRetryable reports whether the failure is worth surfacing with a retry
// banner (server fault or no response), as opposed to a caller mistake.
func IsRetryable(err error) bool {
	var se *ServerError
	var ne *NetworkError
	var re *RateLimitError
	return errors.As(err, &se) || errors.As(err, &ne) || errors.As(err, &re)
}

// FieldErrors extracts per-field messages from a validation failure, or nil.
func FieldErrors(err error) map[string]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
