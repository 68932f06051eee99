package anthropic

import (
	"context"
	"errors"
	"io"
	"iter"
	"time"

	"github.com/modelsuite/modelsuite/core/apierror"
	"github.com/modelsuite/modelsuite/internal/utils"
	"github.com/modelsuite/modelsuite/providers/ai"
	"github.com/modelsuite/modelsuite/providers/observability"
)

// streamState accumulates response-level metadata across the SSE event
// sequence so every emitted chunk carries consistent identity fields.
type streamState struct {
	id          string
	model       string
	created     int64
	inputTokens int
	usage       *ai.Usage
	stopReason  string
	finishSent  bool

	// toolBlockIndex maps the vendor's content block index to the
	// tool-call delta index expected downstream. Text blocks do not
	// consume tool indices.
	toolBlockIndex map[int]int
}

// chunkIterator converts the Messages API SSE event stream into normalized
// chunks. It owns body and closes it when iteration stops for any reason.
//
// Text and tool-argument deltas become content chunks immediately.
// message_delta captures the stop reason and final usage, which are emitted
// on the terminal chunk at message_stop. If the stream ends without a
// message_stop event, a terminal chunk is synthesized so consumers always
// observe a finish reason.
func chunkIterator(ctx context.Context, body io.ReadCloser) iter.Seq2[ai.ChatCompletionChunk, error] {
	return func(yield func(ai.ChatCompletionChunk, error) bool) {
		defer utils.CloseWithLog(body)

		logger := observability.LoggerFromContext(ctx)
		scanner := utils.NewSSEScanner(body)
		state := &streamState{
			created:        time.Now().Unix(),
			toolBlockIndex: make(map[int]int),
		}

		for {
			if ctx.Err() != nil {
				yield(ai.ChatCompletionChunk{}, apierror.New(Name, apierror.CodeStreamingError, "stream cancelled", ctx.Err()))
				return
			}

			payload, err := scanner.Next()
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				yield(ai.ChatCompletionChunk{}, apierror.New(Name, apierror.CodeStreamingError, "failed to read stream", err))
				return
			}

			event, err := unmarshalStreamEvent(payload)
			if err != nil {
				logger.WarnContext(ctx, "skipping malformed stream event",
					observability.AttrLLMProvider, Name,
					"error", err)
				continue
			}

			chunk, done := applyEvent(state, event)
			if chunk != nil {
				if !yield(*chunk, nil) {
					return
				}
			}
			if done {
				return
			}
		}

		// Vendor stream ended without message_stop; synthesize the terminal
		// chunk so the finish reason invariant holds.
		if !state.finishSent {
			yield(terminalChunk(state), nil)
		}
	}
}

// applyEvent updates state and returns the chunk to emit for the event, if
// any, plus whether the stream is complete.
func applyEvent(state *streamState, event *streamEvent) (*ai.ChatCompletionChunk, bool) {
	switch event.Type {
	case "message_start":
		if event.Message != nil {
			state.id = event.Message.ID
			state.model = event.Message.Model
			state.inputTokens = event.Message.Usage.InputTokens
		}
		return nil, false

	case "content_block_start":
		if event.ContentBlock == nil || event.ContentBlock.Type != "tool_use" {
			return nil, false
		}
		toolIndex := len(state.toolBlockIndex)
		state.toolBlockIndex[event.Index] = toolIndex
		return deltaChunk(state, ai.ChunkDelta{
			ToolCalls: []ai.ToolCallDelta{{
				Index: toolIndex,
				ID:    event.ContentBlock.ID,
				Name:  event.ContentBlock.Name,
			}},
		}), false

	case "content_block_delta":
		if event.Delta == nil {
			return nil, false
		}
		switch event.Delta.Type {
		case "text_delta":
			if event.Delta.Text == "" {
				return nil, false
			}
			return deltaChunk(state, ai.ChunkDelta{Content: event.Delta.Text}), false
		case "input_json_delta":
			toolIndex, ok := state.toolBlockIndex[event.Index]
			if !ok || event.Delta.PartialJSON == "" {
				return nil, false
			}
			return deltaChunk(state, ai.ChunkDelta{
				ToolCalls: []ai.ToolCallDelta{{
					Index:     toolIndex,
					Arguments: event.Delta.PartialJSON,
				}},
			}), false
		}
		return nil, false

	case "message_delta":
		if event.Delta != nil && event.Delta.StopReason != "" {
			state.stopReason = event.Delta.StopReason
		}
		if event.Usage != nil {
			state.usage = &ai.Usage{
				PromptTokens:     state.inputTokens,
				CompletionTokens: event.Usage.OutputTokens,
				TotalTokens:      state.inputTokens + event.Usage.OutputTokens,
			}
		}
		return nil, false

	case "message_stop":
		state.finishSent = true
		return utils.Ptr(terminalChunk(state)), true
	}

	// ping, content_block_stop, and unknown event types carry nothing
	// user-visible.
	return nil, false
}

// deltaChunk wraps a delta in a chunk carrying the stream's identity fields.
func deltaChunk(state *streamState, delta ai.ChunkDelta) *ai.ChatCompletionChunk {
	delta.Role = ai.RoleAssistant
	return &ai.ChatCompletionChunk{
		ID:      state.id,
		Object:  "chat.completion.chunk",
		Created: state.created,
		Model:   state.model,
		Choices: []ai.ChunkChoice{{Index: 0, Delta: delta}},
	}
}

// terminalChunk builds the final chunk carrying the finish reason and, when
// the vendor reported it, the accumulated usage.
func terminalChunk(state *streamState) ai.ChatCompletionChunk {
	return ai.ChatCompletionChunk{
		ID:      state.id,
		Object:  "chat.completion.chunk",
		Created: state.created,
		Model:   state.model,
		Choices: []ai.ChunkChoice{{
			Index:        0,
			FinishReason: utils.Ptr(mapStopReason(state.stopReason)),
		}},
		Usage: state.usage,
	}
}
