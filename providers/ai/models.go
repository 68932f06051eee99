package ai

import (
	"github.com/modelsuite/modelsuite/internal/jsonschema"
)

/*
	##### REQUEST MODEL #####
*/

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Model response
	RoleTool      MessageRole = "tool"      // Tool/function output
)

// ChatMessage is a single conversation turn in normalized form.
//
// Invariants: a RoleTool message must carry ToolCallID; a RoleAssistant
// message with ToolCalls may have empty Content.
type ChatMessage struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content,omitempty"`

	// Tool calling fields
	Name       string     `json:"name,omitempty"`         // For role=tool, name of the tool that produced this result
	ToolCallID string     `json:"tool_call_id,omitempty"` // For role=tool, links to the tool call being answered
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`   // For role=assistant requesting tools

	// ProviderData is an escape hatch for vendor-specific continuation
	// state (e.g. a thought signature that must be echoed back on the next
	// turn). Keys are exported constants documented by the vendor package
	// that owns them; no other adapter or the router ever interprets them.
	ProviderData map[string]any `json:"provider_data,omitempty"`
}

// Tool is a JSON-schema function declaration offered to the model.
type Tool struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes a callable function and its parameter schema.
type FunctionDefinition struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

// ToolCall represents a function/tool call request from the model.
type ToolCall struct {
	ID       string           `json:"id,omitempty"`
	Type     string           `json:"type"` // "function"
	Function ToolCallFunction `json:"function"`
}

type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON-encoded string
}

// ToolChoiceMode selects how the model may use the declared tools.
type ToolChoiceMode string

const (
	ToolChoiceAuto     ToolChoiceMode = "auto"
	ToolChoiceNone     ToolChoiceMode = "none"
	ToolChoiceFunction ToolChoiceMode = "function" // force one named function
)

// ToolChoice constrains tool usage for a single request. When Mode is
// ToolChoiceFunction, FunctionName names the tool the model must call.
type ToolChoice struct {
	Mode         ToolChoiceMode `json:"mode"`
	FunctionName string         `json:"function_name,omitempty"`
}

// ForcedFunction builds a ToolChoice that forces the named function.
func ForcedFunction(name string) *ToolChoice {
	return &ToolChoice{Mode: ToolChoiceFunction, FunctionName: name}
}

// ChatCompletionRequest is the normalized chat request. Model carries the
// routing form "<provider>:<model>" at the client boundary; the router
// rewrites it to the vendor-local name before any adapter sees it.
type ChatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`

	Tools      []Tool      `json:"tools,omitempty"`
	ToolChoice *ToolChoice `json:"tool_choice,omitempty"`

	// Sampling parameters. Pointers distinguish "unset" from zero values.
	Temperature      *float64 `json:"temperature,omitempty"`
	MaxTokens        *int     `json:"max_tokens,omitempty"`
	TopP             *float64 `json:"top_p,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
	Stop             []string `json:"stop,omitempty"`

	Stream bool   `json:"stream,omitempty"`
	User   string `json:"user,omitempty"`
}

/*
	##### RESPONSE MODEL #####
*/

// FinishReason is the normalized finish-reason vocabulary. Vendor-specific
// reasons outside this set map to FinishReasonStop.
type FinishReason string

const (
	FinishReasonStop          FinishReason = "stop"
	FinishReasonLength        FinishReason = "length"
	FinishReasonToolCalls     FinishReason = "tool_calls"
	FinishReasonContentFilter FinishReason = "content_filter"
)

// MapFinishReason folds a vendor finish reason already using normalized
// vocabulary into a FinishReason, defaulting anything unknown to stop.
func MapFinishReason(vendorReason string) FinishReason {
	switch FinishReason(vendorReason) {
	case FinishReasonLength, FinishReasonToolCalls, FinishReasonContentFilter:
		return FinishReason(vendorReason)
	default:
		return FinishReasonStop
	}
}

// Usage holds token counters. It is a value type: fields a vendor omits
// stay zero, never absent.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Choice is one completion alternative.
type Choice struct {
	Index        int          `json:"index"`
	Message      ChatMessage  `json:"message"`
	FinishReason FinishReason `json:"finish_reason"`
}

// ChatCompletionResponse is the normalized non-streaming result. Model is
// the vendor-local name, not rewritten back to routing form.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"` // "chat.completion"
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`

	ProviderData map[string]any `json:"provider_data,omitempty"`
}

/*
	##### STREAMING MODEL #####
*/

// ToolCallDelta is an incremental update to a tool call being streamed.
// ID and Name are only present on the first chunk for a given index;
// subsequent chunks carry only Arguments fragments.
type ToolCallDelta struct {
	Index     int    `json:"index"`
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// ChunkDelta carries the partial message fields of a single stream chunk.
type ChunkDelta struct {
	Role         MessageRole     `json:"role,omitempty"`
	Content      string          `json:"content,omitempty"`
	ToolCalls    []ToolCallDelta `json:"tool_calls,omitempty"`
	ProviderData map[string]any  `json:"provider_data,omitempty"`
}

// ChunkChoice pairs a delta with an optional finish reason. FinishReason is
// non-nil only on the terminal chunk for the choice.
type ChunkChoice struct {
	Index        int           `json:"index"`
	Delta        ChunkDelta    `json:"delta"`
	FinishReason *FinishReason `json:"finish_reason,omitempty"`
}

// ChatCompletionChunk is one element of a streamed completion. Adapters
// never emit chunks without a user-visible delta or finish reason, and every
// stream ends with a chunk carrying a finish reason even when the vendor's
// stream does not naturally produce one.
type ChatCompletionChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"` // "chat.completion.chunk"
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []ChunkChoice `json:"choices"`
	Usage   *Usage        `json:"usage,omitempty"`

	ProviderData map[string]any `json:"provider_data,omitempty"`
}
