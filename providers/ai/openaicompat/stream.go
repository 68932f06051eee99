package openaicompat

import (
	"context"
	"encoding/json"
	"io"
	"iter"

	"github.com/modelsuite/modelsuite/core/apierror"
	"github.com/modelsuite/modelsuite/internal/utils"
	"github.com/modelsuite/modelsuite/providers/ai"
)

// ChunkDecoder turns one raw SSE data payload into a normalized chunk.
// Returning (nil, nil) drops the payload as metadata-only. Vendors with
// wire quirks (e.g. Groq's usage envelope) supply their own decoder.
type ChunkDecoder func(payload string) (*ai.ChatCompletionChunk, error)

// DecodeChunk is the standard decoder: unmarshal a chat-completions chunk
// and normalize it with ToChunk.
func DecodeChunk(payload string) (*ai.ChatCompletionChunk, error) {
	var chunk Chunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return nil, err
	}
	return ToChunk(chunk), nil
}

// ChunkIterator builds the lazy chunk sequence for an open SSE response
// body. It owns the body: the body is closed when the iterator completes or
// the caller breaks out of the loop.
//
// Mid-stream failures are yielded as *apierror.APIError with the
// STREAMING_ERROR code. When the vendor stream is exhausted without a
// terminal finish reason, a final chunk carrying finish_reason=stop is
// synthesized so downstream consumers always observe stream completion.
func ChunkIterator(ctx context.Context, providerName string, body io.ReadCloser, decode ChunkDecoder) iter.Seq2[ai.ChatCompletionChunk, error] {
	sseScanner := utils.NewSSEScanner(body)

	return func(yield func(ai.ChatCompletionChunk, error) bool) {
		defer utils.CloseWithLog(body)

		finishSeen := false
		lastID := ""
		lastModel := ""
		lastCreated := int64(0)

		for {
			if ctx.Err() != nil {
				yield(ai.ChatCompletionChunk{}, apierror.New(providerName, apierror.CodeStreamingError, "stream cancelled", ctx.Err()))
				return
			}

			payload, sseErr := sseScanner.Next()
			if sseErr == io.EOF {
				if !finishSeen {
					finishReason := ai.FinishReasonStop
					yield(ai.ChatCompletionChunk{
						ID:      lastID,
						Object:  "chat.completion.chunk",
						Created: lastCreated,
						Model:   lastModel,
						Choices: []ai.ChunkChoice{{Index: 0, FinishReason: &finishReason}},
					}, nil)
				}
				return
			}
			if sseErr != nil {
				yield(ai.ChatCompletionChunk{}, apierror.New(providerName, apierror.CodeStreamingError, "SSE read error", sseErr))
				return
			}

			chunk, decodeErr := decode(payload)
			if decodeErr != nil {
				yield(ai.ChatCompletionChunk{}, apierror.New(providerName, apierror.CodeStreamingError, "failed to parse streaming chunk", decodeErr))
				return
			}
			if chunk == nil {
				// Metadata-only chunk; nothing user-visible to surface.
				continue
			}

			lastID = chunk.ID
			lastModel = chunk.Model
			lastCreated = chunk.Created
			for _, choice := range chunk.Choices {
				if choice.FinishReason != nil {
					finishSeen = true
				}
			}

			if !yield(*chunk, nil) {
				return // Caller stopped iterating
			}
		}
	}
}
