package types

import (
	"errors"
	"fmt"
)

// ConfigError is fatal at startup: missing credentials, unreadable key
// material, or an invalid parameter. It is the only error class that
// terminates the process.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Message)
}

// AuthError covers signing failures and 401 responses. Fatal for the
// failing request, never for the cycle.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("auth error: %s", e.Message)
}

func (e *AuthError) Unwrap() error { return e.Err }

// RateLimited is returned when a 429 persists after all retries. The
// caller aborts its current scan and returns partial results.
type RateLimited struct {
	Path    string
	Retries int
}

func (e *RateLimited) Error() string {
	return fmt.Sprintf("rate limited on %s after %d retries", e.Path, e.Retries)
}

// APIError is any 4xx/5xx exchange response other than 429. The offending
// market, pair, or signal is dropped; the batch continues.
type APIError struct {
	Status  int
	Message string
	Body    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: HTTP %d: %s", e.Status, e.Message)
}

// TransportError is a network or timeout failure before any HTTP status
// was received. Treated exactly like APIError by callers.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// LLMError covers provider failures and non-JSON model output. The feed
// is dropped for the current cycle.
type LLMError struct {
	Message string
	Err     error
}

func (e *LLMError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("llm error: %s", e.Message)
}

func (e *LLMError) Unwrap() error { return e.Err }

// IsRecoverable reports whether an error belongs to the recovered classes
// (rate limit, API, transport, LLM, auth). Recoverable errors are logged
// and absorbed inside components; anything else propagates.
func IsRecoverable(err error) bool {
	var (
		rl   *RateLimited
		api  *APIError
		tr   *TransportError
		llm  *LLMError
		auth *AuthError
	)
	return errors.As(err, &rl) ||
		errors.As(err, &api) ||
		errors.As(err, &tr) ||
		errors.As(err, &llm) ||
		errors.As(err, &auth)
}
