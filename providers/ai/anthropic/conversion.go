package anthropic

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/modelsuite/modelsuite/providers/ai"
)

// defaultMaxTokens fills the required max_tokens field when the normalized
// request leaves it unset.
const defaultMaxTokens = 4096

// requestToAnthropic converts a normalized request into a Messages API
// request. System messages are pulled out of the turn sequence into the
// dedicated system field; multiple system messages are joined with newlines.
// The Stream flag is never copied; streaming is enabled explicitly by the
// streaming entry point.
func requestToAnthropic(request ai.ChatCompletionRequest) messagesRequest {
	req := messagesRequest{
		Model:         request.Model,
		System:        collectSystemPrompt(request.Messages),
		Messages:      buildMessages(request.Messages),
		MaxTokens:     defaultMaxTokens,
		Temperature:   request.Temperature,
		TopP:          request.TopP,
		StopSequences: request.Stop,
	}

	if request.MaxTokens != nil {
		req.MaxTokens = *request.MaxTokens
	}
	if request.User != "" {
		req.Metadata = &metadata{UserID: request.User}
	}

	if len(request.Tools) > 0 {
		req.Tools = buildTools(request.Tools)
		req.ToolChoice = buildToolChoice(request.ToolChoice)
	}

	return req
}

// collectSystemPrompt joins the content of every system message with
// newlines, in order.
func collectSystemPrompt(messages []ai.ChatMessage) string {
	var parts []string
	for _, msg := range messages {
		if msg.Role == ai.RoleSystem && msg.Content != "" {
			parts = append(parts, msg.Content)
		}
	}
	return strings.Join(parts, "\n")
}

// buildMessages converts the normalized turns into Messages API turns.
//
// The API requires strictly alternating user/assistant turns. Consecutive
// tool-result messages are therefore merged into a single user message with
// multiple tool_result content blocks, which is the only layout the API
// accepts. System messages are skipped here; they live in the system field.
func buildMessages(messages []ai.ChatMessage) []message {
	var result []message

	for _, msg := range messages {
		switch msg.Role {
		case ai.RoleSystem:
			continue

		case ai.RoleUser:
			// The API rejects empty text blocks, so a contentless user
			// message produces no turn at all.
			if msg.Content == "" {
				continue
			}
			result = append(result, message{
				Role:    "user",
				Content: []contentBlock{{Type: "text", Text: msg.Content}},
			})

		case ai.RoleAssistant:
			assistantMsg := message{Role: "assistant"}

			if msg.Content != "" {
				assistantMsg.Content = append(assistantMsg.Content, contentBlock{
					Type: "text",
					Text: msg.Content,
				})
			}

			// Tool calls are represented as tool_use blocks. The Input field
			// must be a JSON object, so the argument string is normalized
			// with an empty-object fallback on malformed JSON.
			for _, toolCall := range msg.ToolCalls {
				assistantMsg.Content = append(assistantMsg.Content, contentBlock{
					Type:  "tool_use",
					ID:    toolCall.ID,
					Name:  toolCall.Function.Name,
					Input: toolArguments(toolCall.Function.Arguments),
				})
			}

			if len(assistantMsg.Content) > 0 {
				result = append(result, assistantMsg)
			}

		case ai.RoleTool:
			// Marshal the result content as a JSON string so the API
			// receives a well-formed JSON value in the content field.
			toolResultContent, err := json.Marshal(msg.Content)
			if err != nil {
				toolResultContent = []byte(`""`)
			}

			toolResultBlock := contentBlock{
				Type:      "tool_result",
				ToolUseID: msg.ToolCallID,
				Content:   toolResultContent,
			}

			// Merge consecutive tool results into one user message; the API
			// forbids two consecutive user turns.
			if len(result) > 0 && isAllToolResults(result[len(result)-1]) {
				result[len(result)-1].Content = append(result[len(result)-1].Content, toolResultBlock)
			} else {
				result = append(result, message{
					Role:    "user",
					Content: []contentBlock{toolResultBlock},
				})
			}
		}
	}

	return result
}

// isAllToolResults reports whether every content block in msg is a
// tool_result block, identifying the message as a mergeable tool-result
// turn.
func isAllToolResults(msg message) bool {
	if msg.Role != "user" || len(msg.Content) == 0 {
		return false
	}
	for _, block := range msg.Content {
		if block.Type != "tool_result" {
			return false
		}
	}
	return true
}

// toolArguments coerces a tool-call argument string into a JSON object.
func toolArguments(arguments string) json.RawMessage {
	trimmed := strings.TrimSpace(arguments)
	var probe map[string]json.RawMessage
	if trimmed == "" || json.Unmarshal([]byte(trimmed), &probe) != nil {
		return json.RawMessage(`{}`)
	}
	return json.RawMessage(trimmed)
}

// buildTools converts the normalized tool declarations to the API's tool
// definitions. input_schema is required on every tool; an empty object
// schema is substituted when a tool declares no parameters.
func buildTools(tools []ai.Tool) []tool {
	result := make([]tool, 0, len(tools))
	for _, t := range tools {
		entry := tool{
			Name:        t.Function.Name,
			Description: t.Function.Description,
		}
		if t.Function.Parameters != nil {
			if schemaBytes, err := json.Marshal(t.Function.Parameters); err == nil {
				entry.InputSchema = schemaBytes
			}
		}
		if entry.InputSchema == nil {
			entry.InputSchema = json.RawMessage(`{"type":"object","properties":{}}`)
		}
		result = append(result, entry)
	}
	return result
}

// buildToolChoice converts the normalized tool choice to the wire form.
// Returns nil when unset, letting the API default to "auto".
func buildToolChoice(tc *ai.ToolChoice) *toolChoice {
	if tc == nil {
		return nil
	}
	switch tc.Mode {
	case ai.ToolChoiceNone:
		return &toolChoice{Type: "none"}
	case ai.ToolChoiceFunction:
		return &toolChoice{Type: "tool", Name: tc.FunctionName}
	case ai.ToolChoiceAuto:
		return &toolChoice{Type: "auto"}
	default:
		return nil
	}
}

// anthropicToGeneric converts a Messages API response to the normalized
// response. Multiple text blocks are joined with newlines; unknown block
// types are skipped for forward-compatibility.
func anthropicToGeneric(response messagesResponse) *ai.ChatCompletionResponse {
	message := ai.ChatMessage{Role: ai.RoleAssistant}

	var textParts []string
	for _, block := range response.Content {
		switch block.Type {
		case "text":
			textParts = append(textParts, block.Text)

		case "tool_use":
			message.ToolCalls = append(message.ToolCalls, ai.ToolCall{
				ID:   block.ID,
				Type: "function",
				Function: ai.ToolCallFunction{
					Name: block.Name,
					// Input is already a JSON object; flatten to the string
					// form that ToolCallFunction.Arguments expects.
					Arguments: string(block.Input),
				},
			})
		}
	}
	message.Content = strings.Join(textParts, "\n")

	return &ai.ChatCompletionResponse{
		ID:      response.ID,
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   response.Model,
		Choices: []ai.Choice{{
			Index:        0,
			Message:      message,
			FinishReason: mapStopReason(response.StopReason),
		}},
		Usage: ai.Usage{
			PromptTokens:     response.Usage.InputTokens,
			CompletionTokens: response.Usage.OutputTokens,
			TotalTokens:      response.Usage.InputTokens + response.Usage.OutputTokens,
		},
	}
}

// mapStopReason converts a stop_reason value to the normalized vocabulary.
func mapStopReason(stopReason string) ai.FinishReason {
	switch stopReason {
	case "end_turn", "stop_sequence":
		return ai.FinishReasonStop
	case "tool_use":
		return ai.FinishReasonToolCalls
	case "max_tokens":
		return ai.FinishReasonLength
	case "refusal":
		return ai.FinishReasonContentFilter
	default:
		return ai.FinishReasonStop
	}
}
