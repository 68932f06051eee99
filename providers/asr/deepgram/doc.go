// Package deepgram implements the transcription provider for the Deepgram
// listen API.
//
// Deepgram takes the raw audio bytes as the request body and every option
// as a query parameter, authenticating with a Token authorization scheme
// rather than a Bearer one.
package deepgram
