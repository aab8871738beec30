package llm

import "fmt"

// CompletionError wraps any failure of the underlying completion provider:
// unreachable host, rate limiting, or a malformed response body.
type CompletionError struct {
	Provider string
	Err      error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("%s completion failed: %v", e.Provider, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

func NewCompletionError(provider string, err error) *CompletionError {
	return &CompletionError{Provider: provider, Err: err}
}
