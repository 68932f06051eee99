package openaicompat

import (
	"testing"

	"github.com/modelsuite/modelsuite/internal/utils"
	"github.com/modelsuite/modelsuite/providers/ai"
)

func TestFromRequestNeverCopiesStreamFlag(t *testing.T) {
	wire := FromRequest(ai.ChatCompletionRequest{
		Model:    "gpt-4o",
		Messages: []ai.ChatMessage{{Role: ai.RoleUser, Content: "hi"}},
		Stream:   true,
	})
	if wire.Stream != nil {
		t.Errorf("Stream should stay unset, got %v", *wire.Stream)
	}
}

func TestFromMessageContentNullability(t *testing.T) {
	tests := []struct {
		name        string
		message     ai.ChatMessage
		wantContent *string
	}{
		{
			name:        "plain user message",
			message:     ai.ChatMessage{Role: ai.RoleUser, Content: "hi"},
			wantContent: utils.Ptr("hi"),
		},
		{
			name:        "empty user message keeps empty string",
			message:     ai.ChatMessage{Role: ai.RoleUser},
			wantContent: utils.Ptr(""),
		},
		{
			name: "assistant with tool calls and no content stays null",
			message: ai.ChatMessage{Role: ai.RoleAssistant, ToolCalls: []ai.ToolCall{
				{ID: "c1", Type: "function", Function: ai.ToolCallFunction{Name: "f", Arguments: "{}"}},
			}},
			wantContent: nil,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			wire := fromMessage(testCase.message)
			switch {
			case testCase.wantContent == nil && wire.Content != nil:
				t.Errorf("Content = %q, want nil", *wire.Content)
			case testCase.wantContent != nil && wire.Content == nil:
				t.Errorf("Content = nil, want %q", *testCase.wantContent)
			case testCase.wantContent != nil && *wire.Content != *testCase.wantContent:
				t.Errorf("Content = %q, want %q", *wire.Content, *testCase.wantContent)
			}
		})
	}
}

func TestFromToolChoice(t *testing.T) {
	if got := fromToolChoice(nil); got != nil {
		t.Errorf("nil choice should map to nil, got %v", got)
	}
	if got := fromToolChoice(&ai.ToolChoice{Mode: ai.ToolChoiceAuto}); got != "auto" {
		t.Errorf("auto = %v", got)
	}
	if got := fromToolChoice(&ai.ToolChoice{Mode: ai.ToolChoiceNone}); got != "none" {
		t.Errorf("none = %v", got)
	}

	forced, ok := fromToolChoice(ai.ForcedFunction("get_weather")).(forcedFunction)
	if !ok {
		t.Fatal("forced choice should map to a forcedFunction object")
	}
	if forced.Type != "function" || forced.Function.Name != "get_weather" {
		t.Errorf("forced = %+v", forced)
	}
}

func TestToResponseUsageZeroFill(t *testing.T) {
	result := ToResponse(Response{
		ID:      "cmpl-1",
		Model:   "gpt-4o",
		Choices: []Choice{{Message: ResponseMessage{Role: "assistant", Content: "hi"}, FinishReason: "stop"}},
	})
	if result.Usage != (ai.Usage{}) {
		t.Errorf("missing usage should zero-fill, got %+v", result.Usage)
	}
}

func TestToResponseFinishReasonMapping(t *testing.T) {
	tests := []struct {
		vendorReason string
		want         ai.FinishReason
	}{
		{"stop", ai.FinishReasonStop},
		{"length", ai.FinishReasonLength},
		{"tool_calls", ai.FinishReasonToolCalls},
		{"content_filter", ai.FinishReasonContentFilter},
		{"eos", ai.FinishReasonStop},
		{"", ai.FinishReasonStop},
	}

	for _, testCase := range tests {
		result := ToResponse(Response{
			Choices: []Choice{{Message: ResponseMessage{Role: "assistant"}, FinishReason: testCase.vendorReason}},
		})
		if got := result.Choices[0].FinishReason; got != testCase.want {
			t.Errorf("finish reason %q mapped to %q, want %q", testCase.vendorReason, got, testCase.want)
		}
	}
}

func TestToChunkDropsMetadataOnlyChunks(t *testing.T) {
	emptyContent := ""
	tests := []struct {
		name     string
		chunk    Chunk
		wantDrop bool
	}{
		{
			name:     "no choices no usage",
			chunk:    Chunk{ID: "c1"},
			wantDrop: true,
		},
		{
			name: "role-only delta",
			chunk: Chunk{Choices: []ChunkChoice{
				{Delta: ChunkDelta{Role: "assistant"}},
			}},
			wantDrop: true,
		},
		{
			name: "empty content delta",
			chunk: Chunk{Choices: []ChunkChoice{
				{Delta: ChunkDelta{Content: &emptyContent}},
			}},
			wantDrop: true,
		},
		{
			name: "content delta kept",
			chunk: Chunk{Choices: []ChunkChoice{
				{Delta: ChunkDelta{Content: utils.Ptr("hi")}},
			}},
			wantDrop: false,
		},
		{
			name: "finish reason kept",
			chunk: Chunk{Choices: []ChunkChoice{
				{FinishReason: utils.Ptr("stop")},
			}},
			wantDrop: false,
		},
		{
			name:     "usage-only chunk kept",
			chunk:    Chunk{Usage: &Usage{TotalTokens: 5}},
			wantDrop: false,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got := ToChunk(testCase.chunk)
			if testCase.wantDrop && got != nil {
				t.Errorf("expected drop, got %+v", got)
			}
			if !testCase.wantDrop && got == nil {
				t.Error("expected chunk, got nil")
			}
		})
	}
}

func TestToChunkToolCallDelta(t *testing.T) {
	chunk := ToChunk(Chunk{
		Choices: []ChunkChoice{{
			Delta: ChunkDelta{ToolCalls: []ChunkToolCall{
				{Index: 0, ID: "c1", Type: "function", Function: ToolCallFunction{Name: "get_weather", Arguments: `{"ci`}},
			}},
		}},
	})
	if chunk == nil {
		t.Fatal("tool-call delta should not be dropped")
	}
	delta := chunk.Choices[0].Delta.ToolCalls[0]
	if delta.ID != "c1" || delta.Name != "get_weather" || delta.Arguments != `{"ci` {
		t.Errorf("delta = %+v", delta)
	}
}
