// Package openai adapts the normalized chat and transcription models to the
// OpenAI API. Its wire schema is the normalized schema, so chat conversion
// is a straight copy through the openaicompat layer; the same underlying
// client also serves speech-to-text via the audio transcriptions endpoint.
package openai
