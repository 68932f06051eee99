package googlegenai

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/modelsuite/modelsuite/internal/utils"
	"github.com/modelsuite/modelsuite/providers/ai"
)

// KeyThoughtSignature is the ProviderData key carrying the opaque thought
// signature emitted by thinking models. It is captured from responses and
// echoed back on the following request; no other component interprets it.
const KeyThoughtSignature = "googlegenai.thought_signature"

// requestToGenAI converts a normalized request into a generateContent
// request. System messages are joined with newlines into the
// systemInstruction field, in order.
func requestToGenAI(request ai.ChatCompletionRequest) generateContentRequest {
	req := generateContentRequest{
		Contents:         buildContents(request.Messages),
		GenerationConfig: buildGenerationConfig(request),
	}

	var systemParts []string
	for _, msg := range request.Messages {
		if msg.Role == ai.RoleSystem && msg.Content != "" {
			systemParts = append(systemParts, msg.Content)
		}
	}
	if len(systemParts) > 0 {
		req.SystemInstruction = &systemInstruction{
			Parts: []part{{Text: strings.Join(systemParts, "\n")}},
		}
	}

	if len(request.Tools) > 0 {
		req.Tools = buildTools(request.Tools)
		req.ToolConfig = buildToolConfig(request.ToolChoice)
	}

	return req
}

// buildContents converts the normalized turns into API contents.
// Role mapping: user stays user, assistant becomes model, and tool results
// become user turns carrying a functionResponse part since the API has no
// tool role.
func buildContents(messages []ai.ChatMessage) []content {
	var contents []content

	for _, msg := range messages {
		switch msg.Role {
		case ai.RoleSystem:
			continue

		case ai.RoleUser:
			contents = append(contents, content{
				Role:  "user",
				Parts: []part{{Text: msg.Content}},
			})

		case ai.RoleAssistant:
			modelContent := content{Role: "model"}

			if msg.Content != "" {
				modelContent.Parts = append(modelContent.Parts, part{Text: msg.Content})
			}

			// Args must be a JSON object; malformed argument strings fall
			// back to an empty object rather than failing the request.
			for _, toolCall := range msg.ToolCalls {
				modelContent.Parts = append(modelContent.Parts, part{
					FunctionCall: &functionCall{
						Name: toolCall.Function.Name,
						Args: utils.ParseJSONObject(toolCall.Function.Arguments),
					},
				})
			}

			// Echo the thought signature back on the first part of the turn.
			if signature := thoughtSignature(msg.ProviderData); signature != "" && len(modelContent.Parts) > 0 {
				modelContent.Parts[0].ThoughtSignature = signature
			}

			if len(modelContent.Parts) > 0 {
				contents = append(contents, modelContent)
			}

		case ai.RoleTool:
			contents = append(contents, content{
				Role: "user",
				Parts: []part{{
					FunctionResponse: &functionResponse{
						Name:     msg.Name,
						Response: toolResultObject(msg.Content),
					},
				}},
			})
		}
	}

	return contents
}

// thoughtSignature extracts the signature string from ProviderData, if any.
func thoughtSignature(providerData map[string]any) string {
	if providerData == nil {
		return ""
	}
	signature, _ := providerData[KeyThoughtSignature].(string)
	return signature
}

// toolResultObject coerces tool output into the JSON object the
// functionResponse field requires. JSON object content passes through;
// anything else is wrapped under a "result" key.
func toolResultObject(result string) json.RawMessage {
	trimmed := strings.TrimSpace(result)
	var probe map[string]json.RawMessage
	if trimmed != "" && json.Unmarshal([]byte(trimmed), &probe) == nil {
		return json.RawMessage(trimmed)
	}
	wrapped, err := json.Marshal(map[string]string{"result": result})
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return wrapped
}

func buildGenerationConfig(request ai.ChatCompletionRequest) *generationConfig {
	if request.Temperature == nil && request.TopP == nil && request.MaxTokens == nil &&
		len(request.Stop) == 0 && request.PresencePenalty == nil && request.FrequencyPenalty == nil {
		return nil
	}
	return &generationConfig{
		Temperature:      request.Temperature,
		TopP:             request.TopP,
		MaxOutputTokens:  request.MaxTokens,
		StopSequences:    request.Stop,
		PresencePenalty:  request.PresencePenalty,
		FrequencyPenalty: request.FrequencyPenalty,
	}
}

func buildTools(tools []ai.Tool) []tool {
	declarations := make([]functionDeclaration, 0, len(tools))
	for _, t := range tools {
		declaration := functionDeclaration{
			Name:        t.Function.Name,
			Description: t.Function.Description,
		}
		if t.Function.Parameters != nil {
			if schemaBytes, err := json.Marshal(t.Function.Parameters); err == nil {
				declaration.Parameters = schemaBytes
			}
		}
		declarations = append(declarations, declaration)
	}
	return []tool{{FunctionDeclarations: declarations}}
}

func buildToolConfig(tc *ai.ToolChoice) *toolConfig {
	if tc == nil {
		return nil
	}
	config := &functionCallingConfig{}
	switch tc.Mode {
	case ai.ToolChoiceNone:
		config.Mode = "NONE"
	case ai.ToolChoiceAuto:
		config.Mode = "AUTO"
	case ai.ToolChoiceFunction:
		config.Mode = "ANY"
		config.AllowedFunctionNames = []string{tc.FunctionName}
	default:
		return nil
	}
	return &toolConfig{FunctionCallingConfig: config}
}

// genaiToGeneric converts a generateContent response to the normalized
// response. The API assigns no response ID, so one is generated locally.
//
// Text is gathered from every part of every candidate starting with the
// first, so a response whose first candidate carries only non-text parts
// still yields whatever text the response contains instead of failing.
func genaiToGeneric(response generateContentResponse, model string) *ai.ChatCompletionResponse {
	result := &ai.ChatCompletionResponse{
		ID:      "chatcmpl-" + uuid.NewString(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   modelName(response, model),
	}

	message := ai.ChatMessage{Role: ai.RoleAssistant}
	finishReason := ai.FinishReasonStop

	if len(response.Candidates) == 0 {
		if response.PromptFeedback != nil && response.PromptFeedback.BlockReason != "" {
			finishReason = ai.FinishReasonContentFilter
		}
	} else {
		finishReason = mapFinishReason(response.Candidates[0].FinishReason)

		var textParts []string
		for _, cand := range response.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, p := range cand.Content.Parts {
				if p.Text != "" && !p.Thought {
					textParts = append(textParts, p.Text)
				}
				if p.FunctionCall != nil {
					message.ToolCalls = append(message.ToolCalls, ai.ToolCall{
						ID:   "call_" + uuid.NewString(),
						Type: "function",
						Function: ai.ToolCallFunction{
							Name:      p.FunctionCall.Name,
							Arguments: string(utils.ParseJSONObject(string(p.FunctionCall.Args))),
						},
					})
				}
				if p.ThoughtSignature != "" {
					if message.ProviderData == nil {
						message.ProviderData = map[string]any{}
					}
					message.ProviderData[KeyThoughtSignature] = p.ThoughtSignature
				}
			}
		}
		message.Content = strings.Join(textParts, "\n")
	}

	if len(message.ToolCalls) > 0 && finishReason == ai.FinishReasonStop {
		finishReason = ai.FinishReasonToolCalls
	}

	result.Choices = []ai.Choice{{
		Index:        0,
		Message:      message,
		FinishReason: finishReason,
	}}

	if response.UsageMetadata != nil {
		result.Usage = ai.Usage{
			PromptTokens:     response.UsageMetadata.PromptTokenCount,
			CompletionTokens: response.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      response.UsageMetadata.TotalTokenCount,
		}
	}

	return result
}

// modelName prefers the version the API reports over the requested name.
func modelName(response generateContentResponse, requested string) string {
	if response.ModelVersion != "" {
		return response.ModelVersion
	}
	return requested
}

// mapFinishReason converts an API finish reason to the normalized
// vocabulary.
func mapFinishReason(reason string) ai.FinishReason {
	switch reason {
	case "MAX_TOKENS":
		return ai.FinishReasonLength
	case "SAFETY", "RECITATION", "PROHIBITED_CONTENT", "BLOCKLIST":
		return ai.FinishReasonContentFilter
	default:
		return ai.FinishReasonStop
	}
}
