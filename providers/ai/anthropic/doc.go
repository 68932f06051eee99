// Package anthropic adapts the normalized chat model to the Anthropic
// Messages API. The API has no tool role and no in-band system messages:
// tool results become user turns carrying tool_result blocks, assistant
// tool calls become tool_use blocks, and system messages are concatenated
// into the top-level system field.
package anthropic
