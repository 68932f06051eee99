// Package observability carries the structured-logging conventions used
// throughout the modelsuite library.
//
// A *slog.Logger travels through a [context.Context] via [ContextWithLogger]
// and is retrieved with [LoggerFromContext]; components fall back to
// slog.Default when the context carries none. The semantic attribute-key
// constants keep log output consistent across providers and the HTTP layer.
package observability
