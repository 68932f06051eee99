// Package asr defines the provider-agnostic speech-to-text data model, the
// interface transcription vendor adapters implement, and the shared
// parameter-translation engine driven by per-vendor tables.
package asr
