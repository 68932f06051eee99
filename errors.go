package modelsuite

import (
	"fmt"
	"strings"
)

// InvalidModelFormatError reports a routing string that is not of the form
// "<provider>:<model>".
type InvalidModelFormatError struct {
	Model string
}

func (e *InvalidModelFormatError) Error() string {
	return fmt.Sprintf("invalid model format %q: expected \"<provider>:<model>\"", e.Model)
}

// ProviderNotConfiguredError reports a routing string naming a provider the
// client does not know for the requested capability. Known carries the
// providers that are available, in registration order.
type ProviderNotConfiguredError struct {
	Provider string
	Kind     string // "chat" or "transcription"
	Known    []string
}

func (e *ProviderNotConfiguredError) Error() string {
	return fmt.Sprintf("%s provider %q is not supported; known providers: %s",
		e.Kind, e.Provider, strings.Join(e.Known, ", "))
}
