// Package mistral implements the chat provider for the Mistral AI API.
//
// The API follows the chat-completions shape with a few deviations: the
// user field and stream_options are not accepted, and a forced tool choice
// is expressed as the string "any" rather than a named-function object.
package mistral
