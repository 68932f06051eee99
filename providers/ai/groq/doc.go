// Package groq implements the chat provider for the Groq API.
//
// Groq exposes a chat-completions compatible surface. The one wire
// deviation is streaming usage, which arrives inside an x_groq envelope on
// the final chunk instead of the top-level usage field.
package groq
