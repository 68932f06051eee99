package openaicompat

import (
	"github.com/modelsuite/modelsuite/internal/utils"
	"github.com/modelsuite/modelsuite/providers/ai"
)

// FromRequest converts a normalized request into the chat-completions wire
// format. The Stream flag is deliberately not copied: the caller enables
// streaming explicitly so a non-streaming vendor call can never be tricked
// into implicit streaming by a leftover flag.
func FromRequest(request ai.ChatCompletionRequest) Request {
	req := Request{
		Model:            request.Model,
		Temperature:      request.Temperature,
		TopP:             request.TopP,
		MaxTokens:        request.MaxTokens,
		FrequencyPenalty: request.FrequencyPenalty,
		PresencePenalty:  request.PresencePenalty,
		Stop:             request.Stop,
		User:             request.User,
	}

	for _, message := range request.Messages {
		req.Messages = append(req.Messages, fromMessage(message))
	}

	for _, tool := range request.Tools {
		req.Tools = append(req.Tools, Tool{
			Type: "function",
			Function: Function{
				Name:        tool.Function.Name,
				Description: tool.Function.Description,
				Parameters:  tool.Function.Parameters,
			},
		})
	}

	req.ToolChoice = fromToolChoice(request.ToolChoice)

	return req
}

// fromMessage converts one normalized message. The wire schema is the
// normalized schema, so this is a field-for-field copy; assistant messages
// whose content is empty but which carry tool calls keep a null content
// field, which the API requires.
func fromMessage(message ai.ChatMessage) Message {
	wireMessage := Message{
		Role:       string(message.Role),
		Name:       message.Name,
		ToolCallID: message.ToolCallID,
	}

	if message.Content != "" || len(message.ToolCalls) == 0 {
		wireMessage.Content = utils.Ptr(message.Content)
	}

	for _, toolCall := range message.ToolCalls {
		wireMessage.ToolCalls = append(wireMessage.ToolCalls, ToolCall{
			ID:   toolCall.ID,
			Type: "function",
			Function: ToolCallFunction{
				Name:      toolCall.Function.Name,
				Arguments: toolCall.Function.Arguments,
			},
		})
	}

	return wireMessage
}

// fromToolChoice maps the normalized tool choice onto the wire's
// string-or-object encoding. Returns nil when unset so the field is omitted.
func fromToolChoice(toolChoice *ai.ToolChoice) any {
	if toolChoice == nil {
		return nil
	}

	switch toolChoice.Mode {
	case ai.ToolChoiceAuto:
		return "auto"
	case ai.ToolChoiceNone:
		return "none"
	case ai.ToolChoiceFunction:
		forced := forcedFunction{Type: "function"}
		forced.Function.Name = toolChoice.FunctionName
		return forced
	default:
		return nil
	}
}

// ToResponse converts a chat-completions response into the normalized form.
// Missing usage counters zero-fill; finish reasons outside the normalized
// vocabulary collapse to "stop".
func ToResponse(response Response) *ai.ChatCompletionResponse {
	result := &ai.ChatCompletionResponse{
		ID:      response.ID,
		Object:  "chat.completion",
		Created: response.Created,
		Model:   response.Model,
	}

	for _, choice := range response.Choices {
		message := ai.ChatMessage{
			Role:    ai.MessageRole(choice.Message.Role),
			Content: choice.Message.Content,
		}
		if message.Role == "" {
			message.Role = ai.RoleAssistant
		}
		for _, toolCall := range choice.Message.ToolCalls {
			message.ToolCalls = append(message.ToolCalls, ai.ToolCall{
				ID:   toolCall.ID,
				Type: "function",
				Function: ai.ToolCallFunction{
					Name:      toolCall.Function.Name,
					Arguments: toolCall.Function.Arguments,
				},
			})
		}

		result.Choices = append(result.Choices, ai.Choice{
			Index:        choice.Index,
			Message:      message,
			FinishReason: ai.MapFinishReason(choice.FinishReason),
		})
	}

	if response.Usage != nil {
		result.Usage = ai.Usage{
			PromptTokens:     response.Usage.PromptTokens,
			CompletionTokens: response.Usage.CompletionTokens,
			TotalTokens:      response.Usage.TotalTokens,
		}
	}

	return result
}

// ToChunk converts a streaming chunk into the normalized form. Returns nil
// for chunks carrying no user-visible delta, no finish reason, and no usage
// (pure metadata chunks), so callers never surface empty chunks.
func ToChunk(chunk Chunk) *ai.ChatCompletionChunk {
	result := &ai.ChatCompletionChunk{
		ID:      chunk.ID,
		Object:  "chat.completion.chunk",
		Created: chunk.Created,
		Model:   chunk.Model,
	}

	if chunk.Usage != nil {
		result.Usage = &ai.Usage{
			PromptTokens:     chunk.Usage.PromptTokens,
			CompletionTokens: chunk.Usage.CompletionTokens,
			TotalTokens:      chunk.Usage.TotalTokens,
		}
	}

	visible := chunk.Usage != nil

	for _, choice := range chunk.Choices {
		normalized := ai.ChunkChoice{Index: choice.Index}
		normalized.Delta.Role = ai.MessageRole(choice.Delta.Role)

		if choice.Delta.Content != nil && *choice.Delta.Content != "" {
			normalized.Delta.Content = *choice.Delta.Content
			visible = true
		}

		for _, toolCall := range choice.Delta.ToolCalls {
			normalized.Delta.ToolCalls = append(normalized.Delta.ToolCalls, ai.ToolCallDelta{
				Index:     toolCall.Index,
				ID:        toolCall.ID,
				Name:      toolCall.Function.Name,
				Arguments: toolCall.Function.Arguments,
			})
			visible = true
		}

		if choice.FinishReason != nil && *choice.FinishReason != "" {
			finishReason := ai.MapFinishReason(*choice.FinishReason)
			normalized.FinishReason = &finishReason
			visible = true
		}

		result.Choices = append(result.Choices, normalized)
	}

	if !visible {
		return nil
	}
	return result
}
