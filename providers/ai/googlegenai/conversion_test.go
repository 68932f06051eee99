package googlegenai

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/modelsuite/modelsuite/providers/ai"
)

func TestRequestToGenAIRoleMapping(t *testing.T) {
	request := ai.ChatCompletionRequest{
		Model: "gemini-2.5-flash",
		Messages: []ai.ChatMessage{
			{Role: ai.RoleSystem, Content: "Be brief."},
			{Role: ai.RoleUser, Content: "weather?"},
			{Role: ai.RoleAssistant, ToolCalls: []ai.ToolCall{
				{ID: "call_1", Type: "function", Function: ai.ToolCallFunction{Name: "get_weather", Arguments: `{"city":"Paris"}`}},
			}},
			{Role: ai.RoleTool, Name: "get_weather", ToolCallID: "call_1", Content: `{"temp":18}`},
		},
	}

	wire := requestToGenAI(request)

	if wire.SystemInstruction == nil || wire.SystemInstruction.Parts[0].Text != "Be brief." {
		t.Errorf("system instruction not extracted: %+v", wire.SystemInstruction)
	}
	if len(wire.Contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(wire.Contents))
	}
	if wire.Contents[0].Role != "user" {
		t.Errorf("first content role = %q, want user", wire.Contents[0].Role)
	}
	if wire.Contents[1].Role != "model" || wire.Contents[1].Parts[0].FunctionCall == nil {
		t.Errorf("assistant turn not mapped to model functionCall: %+v", wire.Contents[1])
	}
	toolTurn := wire.Contents[2]
	if toolTurn.Role != "user" || toolTurn.Parts[0].FunctionResponse == nil {
		t.Fatalf("tool turn not mapped to user functionResponse: %+v", toolTurn)
	}
	if toolTurn.Parts[0].FunctionResponse.Name != "get_weather" {
		t.Errorf("functionResponse name = %q", toolTurn.Parts[0].FunctionResponse.Name)
	}
}

func TestRequestToGenAIMultipleSystemMessages(t *testing.T) {
	wire := requestToGenAI(ai.ChatCompletionRequest{
		Messages: []ai.ChatMessage{
			{Role: ai.RoleSystem, Content: "one"},
			{Role: ai.RoleUser, Content: "hi"},
			{Role: ai.RoleSystem, Content: "two"},
		},
	})
	if wire.SystemInstruction.Parts[0].Text != "one\ntwo" {
		t.Errorf("system instruction = %q", wire.SystemInstruction.Parts[0].Text)
	}
}

func TestRequestToGenAIEchoesThoughtSignature(t *testing.T) {
	wire := requestToGenAI(ai.ChatCompletionRequest{
		Messages: []ai.ChatMessage{
			{Role: ai.RoleUser, Content: "weather?"},
			{
				Role: ai.RoleAssistant,
				ToolCalls: []ai.ToolCall{
					{ID: "call_1", Type: "function", Function: ai.ToolCallFunction{Name: "get_weather", Arguments: `{}`}},
				},
				ProviderData: map[string]any{KeyThoughtSignature: "sig-abc"},
			},
		},
	})
	if wire.Contents[1].Parts[0].ThoughtSignature != "sig-abc" {
		t.Errorf("thought signature not echoed: %+v", wire.Contents[1].Parts[0])
	}
}

func TestBuildContentsMalformedToolArguments(t *testing.T) {
	contents := buildContents([]ai.ChatMessage{
		{Role: ai.RoleAssistant, ToolCalls: []ai.ToolCall{
			{ID: "call_1", Type: "function", Function: ai.ToolCallFunction{Name: "f", Arguments: `{"broken`}},
		}},
	})
	args := string(contents[0].Parts[0].FunctionCall.Args)
	var probe map[string]any
	if err := json.Unmarshal([]byte(args), &probe); err != nil {
		t.Errorf("malformed arguments did not fall back to a JSON object: %s", args)
	}
}

func TestToolResultObject(t *testing.T) {
	tests := []struct {
		name   string
		result string
		want   string
	}{
		{name: "json object passes through", result: `{"temp":18}`, want: `{"temp":18}`},
		{name: "plain text wrapped", result: "18 degrees", want: `{"result":"18 degrees"}`},
		{name: "json array wrapped", result: `[1,2]`, want: `{"result":"[1,2]"}`},
		{name: "empty wrapped", result: "", want: `{"result":""}`},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got := string(toolResultObject(testCase.result))
			if got != testCase.want {
				t.Errorf("toolResultObject(%q) = %s, want %s", testCase.result, got, testCase.want)
			}
		})
	}
}

func TestGenaiToGeneric(t *testing.T) {
	response := generateContentResponse{
		ModelVersion: "gemini-2.5-flash-001",
		Candidates: []candidate{{
			Content: &content{
				Role: "model",
				Parts: []part{
					{Text: "It is "},
					{Text: "sunny."},
				},
			},
			FinishReason: "STOP",
		}},
		UsageMetadata: &usageMetadata{PromptTokenCount: 7, CandidatesTokenCount: 3, TotalTokenCount: 10},
	}

	result := genaiToGeneric(response, "gemini-2.5-flash")

	if !strings.HasPrefix(result.ID, "chatcmpl-") {
		t.Errorf("ID = %q, want chatcmpl- prefix", result.ID)
	}
	if result.Model != "gemini-2.5-flash-001" {
		t.Errorf("Model = %q, want reported version", result.Model)
	}
	if result.Choices[0].Message.Content != "It is \nsunny." {
		t.Errorf("Content = %q", result.Choices[0].Message.Content)
	}
	if result.Choices[0].FinishReason != ai.FinishReasonStop {
		t.Errorf("FinishReason = %q", result.Choices[0].FinishReason)
	}
	if result.Usage.TotalTokens != 10 {
		t.Errorf("TotalTokens = %d", result.Usage.TotalTokens)
	}
}

func TestGenaiToGenericToolCallsAndSignature(t *testing.T) {
	response := generateContentResponse{
		Candidates: []candidate{{
			Content: &content{
				Role: "model",
				Parts: []part{{
					FunctionCall:     &functionCall{Name: "get_weather", Args: json.RawMessage(`{"city":"Paris"}`)},
					ThoughtSignature: "sig-xyz",
				}},
			},
			FinishReason: "STOP",
		}},
	}

	result := genaiToGeneric(response, "gemini-2.5-pro")
	message := result.Choices[0].Message

	if result.Choices[0].FinishReason != ai.FinishReasonToolCalls {
		t.Errorf("FinishReason = %q, want tool_calls", result.Choices[0].FinishReason)
	}
	if len(message.ToolCalls) != 1 || message.ToolCalls[0].Function.Name != "get_weather" {
		t.Fatalf("unexpected tool calls: %+v", message.ToolCalls)
	}
	if !strings.HasPrefix(message.ToolCalls[0].ID, "call_") {
		t.Errorf("tool call ID = %q, want call_ prefix", message.ToolCalls[0].ID)
	}
	if message.ProviderData[KeyThoughtSignature] != "sig-xyz" {
		t.Errorf("thought signature not captured: %+v", message.ProviderData)
	}
}

func TestGenaiToGenericBlockedPrompt(t *testing.T) {
	response := generateContentResponse{
		PromptFeedback: &promptFeedback{BlockReason: "SAFETY"},
	}
	result := genaiToGeneric(response, "gemini-2.5-flash")
	if result.Choices[0].FinishReason != ai.FinishReasonContentFilter {
		t.Errorf("FinishReason = %q, want content_filter", result.Choices[0].FinishReason)
	}
}

func TestMapFinishReason(t *testing.T) {
	tests := []struct {
		reason string
		want   ai.FinishReason
	}{
		{"STOP", ai.FinishReasonStop},
		{"MAX_TOKENS", ai.FinishReasonLength},
		{"SAFETY", ai.FinishReasonContentFilter},
		{"RECITATION", ai.FinishReasonContentFilter},
		{"OTHER", ai.FinishReasonStop},
		{"", ai.FinishReasonStop},
	}
	for _, testCase := range tests {
		if got := mapFinishReason(testCase.reason); got != testCase.want {
			t.Errorf("mapFinishReason(%q) = %q, want %q", testCase.reason, got, testCase.want)
		}
	}
}
