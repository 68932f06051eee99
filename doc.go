// Package modelsuite routes chat completion and speech-to-text requests to
// multiple vendors behind one normalized, OpenAI-style interface.
//
// Requests name their target with a routing string of the form
// "<provider>:<model>", e.g. "anthropic:claude-sonnet-4-5" or
// "openai:gpt-4o". The client parses the routing string, rewrites the model
// to the vendor-local name, and dispatches to the vendor adapter; adapters
// translate between the normalized data model and each vendor's wire
// format, including streaming.
//
//	client, err := modelsuite.New()
//	if err != nil { ... }
//	response, err := client.Create(ctx, ai.ChatCompletionRequest{
//		Model:    "anthropic:claude-sonnet-4-5",
//		Messages: []ai.ChatMessage{{Role: ai.RoleUser, Content: "Hello"}},
//	})
//
// Vendor adapters are constructed lazily on first use and memoized, so a
// client can be created without credentials for vendors that are never
// routed to.
package modelsuite
