// Package openaicompat holds the chat-completions wire format shared by
// OpenAI and the OpenAI-compatible vendors (Mistral, Groq), together with
// the bidirectional conversions between that format and the normalized
// model. Vendor packages layer their endpoint, credentials, and wire quirks
// on top of these types.
package openaicompat
