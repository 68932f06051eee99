package ai

import "context"

// Provider is the interface every chat vendor adapter satisfies. It covers a
// single synchronous completion: translate the normalized request into the
// vendor's native shape, call the vendor, and translate the result back.
//
// CreateChatCompletion rejects requests with Stream set: collecting a vendor
// stream into one response would silently change latency and memory
// characteristics, so streaming requests must go through StreamingProvider.
type Provider interface {
	// CreateChatCompletion sends a chat request to the vendor and returns
	// the completed, normalized response. The adapter wraps any vendor
	// failure into an *apierror.APIError before returning.
	CreateChatCompletion(ctx context.Context, request ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// StreamingProvider is implemented by adapters whose vendor supports
// streaming. Callers detect support via type assertion:
// provider.(StreamingProvider).
type StreamingProvider interface {
	Provider

	// StreamChatCompletion sends a chat request and returns a ChunkStream
	// that yields normalized chunks as they arrive. Pre-stream errors
	// (auth, bad request, network) are returned directly; mid-stream errors
	// are yielded through the iterator.
	StreamChatCompletion(ctx context.Context, request ChatCompletionRequest) (*ChunkStream, error)
}
