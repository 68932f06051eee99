package ai

import (
	"iter"
	"strings"
)

// ChunkStream wraps a lazy, single-pass, forward-only sequence of normalized
// chunks backed by the vendor's network stream. It is not restartable, and
// neither the router nor the adapters buffer it.
//
// Important: callers must consume the stream, either by iterating with
// Iter() (breaking out early is fine) or by calling Collect(). The adapter
// holds the vendor's HTTP response body open until the iterator completes or
// is abandoned via a loop break; constructing a ChunkStream and never
// iterating it leaks that connection.
type ChunkStream struct {
	iterator iter.Seq2[ChatCompletionChunk, error]
}

// NewChunkStream creates a ChunkStream from a raw chunk iterator. The
// iterator yields chunks with a nil error for normal deltas and may yield a
// non-nil error to signal a mid-stream failure, after which it stops.
func NewChunkStream(iterator iter.Seq2[ChatCompletionChunk, error]) *ChunkStream {
	return &ChunkStream{iterator: iterator}
}

// Iter returns the underlying iterator for use with range-over-func loops.
//
// Example:
//
//	for chunk, err := range stream.Iter() {
//	    if err != nil { /* handle error */ }
//	    for _, choice := range chunk.Choices {
//	        fmt.Print(choice.Delta.Content)
//	    }
//	}
func (stream *ChunkStream) Iter() iter.Seq2[ChatCompletionChunk, error] {
	return stream.iterator
}

// Collect consumes the entire stream and accumulates it into a complete
// ChatCompletionResponse: content deltas are concatenated, tool-call deltas
// merged by index, and the last usage/finish-reason/identity fields win.
// A mid-stream error terminates collection and returns the partial response
// alongside the error. This is caller-driven buffering; the routing layer
// itself never collects a stream on the caller's behalf.
func (stream *ChunkStream) Collect() (*ChatCompletionResponse, error) {
	accumulated := &ChatCompletionResponse{Object: "chat.completion"}
	var content strings.Builder
	var role MessageRole
	var finishReason FinishReason = FinishReasonStop
	var toolCallBuilders []*toolCallBuilder
	providerData := map[string]any{}
	messageProviderData := map[string]any{}

	for chunk, err := range stream.iterator {
		if err != nil {
			return accumulated, err
		}

		if chunk.ID != "" {
			accumulated.ID = chunk.ID
		}
		if chunk.Model != "" {
			accumulated.Model = chunk.Model
		}
		if chunk.Created != 0 {
			accumulated.Created = chunk.Created
		}
		if chunk.Usage != nil {
			accumulated.Usage = *chunk.Usage
		}
		for key, value := range chunk.ProviderData {
			providerData[key] = value
		}

		for _, choice := range chunk.Choices {
			if choice.Delta.Role != "" {
				role = choice.Delta.Role
			}
			content.WriteString(choice.Delta.Content)
			for _, delta := range choice.Delta.ToolCalls {
				toolCallBuilders = accumulateToolCallDelta(toolCallBuilders, delta)
			}
			for key, value := range choice.Delta.ProviderData {
				messageProviderData[key] = value
			}
			if choice.FinishReason != nil {
				finishReason = *choice.FinishReason
			}
		}
	}

	if role == "" {
		role = RoleAssistant
	}

	message := ChatMessage{Role: role, Content: content.String()}
	for _, builder := range toolCallBuilders {
		message.ToolCalls = append(message.ToolCalls, ToolCall{
			ID:   builder.id,
			Type: "function",
			Function: ToolCallFunction{
				Name:      builder.name,
				Arguments: builder.arguments.String(),
			},
		})
	}
	if len(messageProviderData) > 0 {
		message.ProviderData = messageProviderData
	}
	if len(providerData) > 0 {
		accumulated.ProviderData = providerData
	}

	accumulated.Choices = []Choice{{Index: 0, Message: message, FinishReason: finishReason}}
	return accumulated, nil
}

// toolCallBuilder accumulates incremental tool-call deltas into a complete
// ToolCall. Builders are held by pointer: a strings.Builder must never be
// copied once written to, and growing the slice would copy it.
type toolCallBuilder struct {
	id        string
	name      string
	arguments strings.Builder
}

// accumulateToolCallDelta merges a ToolCallDelta into the running list of
// builders, growing the slice as new tool-call indices appear. Deltas for
// different indices may arrive interleaved.
func accumulateToolCallDelta(builders []*toolCallBuilder, delta ToolCallDelta) []*toolCallBuilder {
	for len(builders) <= delta.Index {
		builders = append(builders, &toolCallBuilder{})
	}

	builder := builders[delta.Index]

	if delta.ID != "" {
		builder.id = delta.ID
	}
	if delta.Name != "" {
		builder.name = delta.Name
	}
	if delta.Arguments != "" {
		builder.arguments.WriteString(delta.Arguments)
	}

	return builders
}
