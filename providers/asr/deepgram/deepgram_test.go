package deepgram

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelsuite/modelsuite/core/apierror"
	"github.com/modelsuite/modelsuite/providers/asr"
)

func TestNewRequiresAPIKey(t *testing.T) {
	t.Setenv("DEEPGRAM_API_KEY", "")

	_, err := New(Config{})
	require.Error(t, err)

	provider, err := New(Config{APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, defaultBaseURL, provider.baseURL)
}

func TestTranslateParams(t *testing.T) {
	provider, err := New(Config{APIKey: "test-key"})
	require.NoError(t, err)

	translation := provider.TranslateParams("nova-2", map[string]any{
		asr.ParamSpeakerLabels:  true,
		asr.ParamLanguage:       "fr",
		asr.ParamTimestamps:     true,
		"deepgram_tier":         "enhanced",
		"utterances":            true,
		"unsupported_parameter": 1,
	})

	assert.Equal(t, true, translation.Params["diarize"])
	assert.Equal(t, "fr", translation.Params["language"])
	assert.Equal(t, "enhanced", translation.Params["tier"])
	assert.Equal(t, true, translation.Params["utterances"])

	// Timestamps need no flag; word timings are always returned.
	assert.NotContains(t, translation.Params, "timestamps")

	require.Len(t, translation.Warnings, 1)
	assert.Equal(t, "unsupported_parameter", translation.Warnings[0].Parameter)
}

func TestTranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/listen", request.URL.Path)
		assert.Equal(t, "Token test-key", request.Header.Get("Authorization"))
		assert.Equal(t, "application/octet-stream", request.Header.Get("Content-Type"))
		assert.Equal(t, "nova-2", request.URL.Query().Get("model"))
		assert.Equal(t, "true", request.URL.Query().Get("diarize"))

		body, _ := io.ReadAll(request.Body)
		assert.Equal(t, []byte("fake-audio"), body)

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{
			"results": {
				"channels": [{
					"detected_language": "en",
					"alternatives": [{
						"transcript": "Hello world.",
						"confidence": 0.98,
						"words": [
							{"word": "hello", "punctuated_word": "Hello", "start": 0.1, "end": 0.4, "confidence": 0.99, "speaker": 0},
							{"word": "world", "punctuated_word": "world.", "start": 0.5, "end": 0.9, "confidence": 0.97, "speaker": 0}
						]
					}]
				}]
			}
		}`))
	}))
	defer server.Close()

	provider, err := New(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	result, err := provider.Transcribe(context.Background(), asr.Request{
		Model: "nova-2",
		Audio: []byte("fake-audio"),
		Params: map[string]any{
			asr.ParamSpeakerLabels: true,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello world.", result.Text)
	assert.Equal(t, "en", result.Language)
	assert.InDelta(t, 0.98, result.Confidence, 1e-9)
	require.Len(t, result.Words, 2)
	assert.Equal(t, "Hello", result.Words[0].Text)
	assert.NotNil(t, result.Segments)
}

func TestTranscribeNoAudioPayload(t *testing.T) {
	provider, err := New(Config{APIKey: "test-key"})
	require.NoError(t, err)

	_, err = provider.Transcribe(context.Background(), asr.Request{Model: "nova-2"})

	var validationErr *apierror.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "file", validationErr.Field)
}

func TestTranscribeWrapsHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusForbidden)
		_, _ = writer.Write([]byte(`{"err_code":"INVALID_AUTH"}`))
	}))
	defer server.Close()

	provider, err := New(Config{APIKey: "bad-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = provider.Transcribe(context.Background(), asr.Request{
		Model: "nova-2",
		Audio: []byte("fake-audio"),
	})

	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, Name, apiErr.Provider)
	assert.Equal(t, apierror.CodeAPIError, apiErr.Code)
}

func TestNormalizeListenEmptyResponse(t *testing.T) {
	result := normalizeListen(listenResponse{}, nil)

	assert.Equal(t, asr.DefaultLanguage, result.Language)
	assert.NotNil(t, result.Words)
	assert.NotNil(t, result.Segments)
	assert.Empty(t, result.Text)
}
