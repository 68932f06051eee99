package apierror

import "fmt"

// Error codes distinguishing the phase in which a vendor call failed.
const (
	// CodeAPIError marks a failure raised by a synchronous vendor call.
	CodeAPIError = "API_ERROR"

	// CodeStreamingError marks a failure raised while opening or reading a
	// vendor stream.
	CodeStreamingError = "STREAMING_ERROR"

	// CodeStreamingNotSupported marks a streaming request rejected through a
	// synchronous entry point. This is a contract violation by the caller,
	// not a vendor fault, and is never retried.
	CodeStreamingNotSupported = "STREAMING_NOT_SUPPORTED"
)

// APIError wraps a vendor-SDK failure with the provider name and a phase
// code so callers can distinguish sync, streaming, and contract failures
// without inspecting vendor-specific error shapes.
type APIError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Provider, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Provider, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// New builds an APIError for the given provider and phase code.
func New(provider, code, message string, err error) *APIError {
	return &APIError{Provider: provider, Code: code, Message: message, Err: err}
}

// ValidationError reports a request rejected before any vendor call was
// attempted: a required field is missing or a payload has the wrong type.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Message)
	}
	return "invalid request: " + e.Message
}
