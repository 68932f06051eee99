package googlegenai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/modelsuite/modelsuite/core/apierror"
	"github.com/modelsuite/modelsuite/internal/utils"
	"github.com/modelsuite/modelsuite/providers/ai"
	"github.com/modelsuite/modelsuite/providers/observability"
)

// chunkIterator converts the streamGenerateContent SSE stream into
// normalized chunks. It owns body and closes it when iteration stops.
//
// Each SSE event carries a full generateContentResponse with cumulative
// text rather than a delta, so the iterator tracks how much text it has
// already emitted and yields only the new suffix. Tool calls arrive whole
// in a single event and are emitted once. The API assigns no stream ID, so
// one is generated locally and reused on every chunk.
func chunkIterator(ctx context.Context, model string, body io.ReadCloser) iter.Seq2[ai.ChatCompletionChunk, error] {
	return func(yield func(ai.ChatCompletionChunk, error) bool) {
		defer utils.CloseWithLog(body)

		logger := observability.LoggerFromContext(ctx)
		scanner := utils.NewSSEScanner(body)

		streamID := "chatcmpl-" + uuid.NewString()
		created := time.Now().Unix()
		streamModel := model

		emittedTextLength := 0
		toolCallsEmitted := false
		nextToolIndex := 0
		var lastUsage *ai.Usage
		finishSent := false

		emit := func(choices []ai.ChunkChoice, usage *ai.Usage) bool {
			return yield(ai.ChatCompletionChunk{
				ID:      streamID,
				Object:  "chat.completion.chunk",
				Created: created,
				Model:   streamModel,
				Choices: choices,
				Usage:   usage,
			}, nil)
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

			var response generateContentResponse
			if err := json.Unmarshal([]byte(payload), &response); err != nil {
				logger.WarnContext(ctx, "skipping malformed stream event",
					observability.AttrLLMProvider, Name,
					"error", err)
				continue
			}

			if response.ModelVersion != "" {
				streamModel = response.ModelVersion
			}
			if response.UsageMetadata != nil {
				lastUsage = &ai.Usage{
					PromptTokens:     response.UsageMetadata.PromptTokenCount,
					CompletionTokens: response.UsageMetadata.CandidatesTokenCount,
					TotalTokens:      response.UsageMetadata.TotalTokenCount,
				}
			}
			if len(response.Candidates) == 0 {
				continue
			}
			cand := response.Candidates[0]

			delta, sawToolCall := buildDelta(cand, &emittedTextLength, toolCallsEmitted, &nextToolIndex)
			if sawToolCall {
				toolCallsEmitted = true
			}
			if delta != nil {
				if !emit([]ai.ChunkChoice{{Index: 0, Delta: *delta}}, nil) {
					return
				}
			}

			if cand.FinishReason != "" {
				finishReason := mapFinishReason(cand.FinishReason)
				if toolCallsEmitted && finishReason == ai.FinishReasonStop {
					finishReason = ai.FinishReasonToolCalls
				}
				finishSent = true
				emit([]ai.ChunkChoice{{Index: 0, FinishReason: &finishReason}}, lastUsage)
				return
			}
		}

		// Stream ended without a finish reason; synthesize the terminal
		// chunk so consumers always observe one.
		if !finishSent {
			finishReason := ai.FinishReasonStop
			if toolCallsEmitted {
				finishReason = ai.FinishReasonToolCalls
			}
			emit([]ai.ChunkChoice{{Index: 0, FinishReason: &finishReason}}, lastUsage)
		}
	}
}

// buildDelta extracts the user-visible delta from one streamed candidate.
// Returns nil when the event carries nothing new, plus whether any tool
// call was emitted.
func buildDelta(cand candidate, emittedTextLength *int, toolCallsEmitted bool, nextToolIndex *int) (*ai.ChunkDelta, bool) {
	if cand.Content == nil {
		return nil, false
	}

	delta := ai.ChunkDelta{Role: ai.RoleAssistant}
	sawToolCall := false

	fullTextLength := 0
	var newText string
	for _, p := range cand.Content.Parts {
		if p.Text != "" && !p.Thought {
			fullTextLength += len(p.Text)
		}

		if p.FunctionCall != nil && !toolCallsEmitted {
			delta.ToolCalls = append(delta.ToolCalls, ai.ToolCallDelta{
				Index:     *nextToolIndex,
				ID:        "call_" + uuid.NewString(),
				Name:      p.FunctionCall.Name,
				Arguments: string(utils.ParseJSONObject(string(p.FunctionCall.Args))),
			})
			*nextToolIndex++
			sawToolCall = true
		}

		if p.ThoughtSignature != "" {
			if delta.ProviderData == nil {
				delta.ProviderData = map[string]any{}
			}
			delta.ProviderData[KeyThoughtSignature] = p.ThoughtSignature
		}
	}

	// The parts carry the cumulative text for the response so far; emit
	// only the suffix beyond what previous events covered.
	if fullTextLength > *emittedTextLength {
		var builder []byte
		for _, p := range cand.Content.Parts {
			if p.Text != "" && !p.Thought {
				builder = append(builder, p.Text...)
			}
		}
		newText = string(builder[*emittedTextLength:])
		*emittedTextLength = fullTextLength
		delta.Content = newText
	}

	if delta.Content == "" && len(delta.ToolCalls) == 0 && delta.ProviderData == nil {
		return nil, sawToolCall
	}
	return &delta, sawToolCall
}
