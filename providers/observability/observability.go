package observability

import (
	"context"
	"log/slog"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

var loggerContextKey = contextKey{}

// LoggerFromContext extracts the *slog.Logger attached to the context.
// Returns slog.Default() when the context carries none, so callers can
// always log without a nil check.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// ContextWithLogger returns a new context with the given logger attached.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerContextKey, logger)
}

// Semantic conventions for log attributes. These constants define standard
// attribute names to keep output consistent across providers and components.

const (
	// AttrLLMProvider is the name of the LLM provider (e.g., "openai", "anthropic")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier (e.g., "gpt-4", "claude-sonnet-4-5")
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMFinishReason is the reason the generation finished
	AttrLLMFinishReason = "llm.finish_reason"

	// AttrASRProvider is the name of the speech-to-text provider
	AttrASRProvider = "asr.provider"

	// AttrASRParameter is a transcription parameter name under discussion
	AttrASRParameter = "asr.parameter"

	// AttrHTTPMethod is the HTTP request method
	AttrHTTPMethod = "http.method"

	// AttrHTTPURL is the full request URL
	AttrHTTPURL = "http.url"

	// AttrHTTPStatusCode is the HTTP response status code
	AttrHTTPStatusCode = "http.status_code"
)
