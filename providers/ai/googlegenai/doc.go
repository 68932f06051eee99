// Package googlegenai implements the chat provider for the Google
// Generative Language API (Gemini models).
//
// The API diverges from the OpenAI shape in several ways this package
// absorbs: there is no tool role (tool results travel as user turns with a
// functionResponse part), system messages move to a dedicated
// systemInstruction field, the assistant role is called "model", and tool
// call arguments are JSON objects rather than encoded strings.
//
// Thinking models attach a thought signature to response parts. The
// signature is surfaced through ProviderData under KeyThoughtSignature and
// must be echoed back on the next request for the conversation to continue
// correctly; callers that round-trip ChatMessage values get this for free.
package googlegenai
