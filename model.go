package modelsuite

import "strings"

// ParseModel splits a routing string of the form "<provider>:<model>" into
// its parts. Only the first colon separates; the model part may itself
// contain colons (e.g. "ollama-style:model:tag" forms).
func ParseModel(routingModel string) (provider string, model string, err error) {
	provider, model, found := strings.Cut(routingModel, ":")
	if !found || provider == "" || model == "" {
		return "", "", &InvalidModelFormatError{Model: routingModel}
	}
	return provider, model, nil
}
