package llm

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned before any request is sent when no credential is configured.
var ErrMissingAPIKey = errors.New("API key not set, pass --with-api <key> or set GEMINI_API_KEY")

// RemoteServiceError reports a failed exchange with the completion service.
// Status is zero when no HTTP response was received.
type RemoteServiceError struct {
	Status int
	Body   string
	Err    error
}

func (e *RemoteServiceError) Error() string {
	switch {
	case e.Status == 0 && e.Err != nil:
		return fmt.Sprintf("completion request failed: %v", e.Err)
	case e.Err != nil:
		return fmt.Sprintf("completion request failed (%d): %s: %v", e.Status, e.Body, e.Err)
	default:
		return fmt.Sprintf("completion request failed (%d): %s", e.Status, e.Body)
	}
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}
