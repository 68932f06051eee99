package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelsuite/modelsuite/core/apierror"
	"github.com/modelsuite/modelsuite/providers/ai"
)

func TestNewRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := New(Config{})
	require.Error(t, err)

	t.Setenv("OPENAI_API_KEY", "env-key")
	provider, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, "env-key", provider.apiKey)
	assert.Equal(t, defaultBaseURL, provider.baseURL)
}

func TestCreateChatCompletionRejectsStreamFlag(t *testing.T) {
	provider, err := New(Config{APIKey: "test-key"})
	require.NoError(t, err)

	_, err = provider.CreateChatCompletion(context.Background(), ai.ChatCompletionRequest{
		Model:  "gpt-4o",
		Stream: true,
	})

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, Name, apiErr.Provider)
	assert.Equal(t, apierror.CodeStreamingNotSupported, apiErr.Code)
}

func TestCreateChatCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/chat/completions", request.URL.Path)
		assert.Equal(t, "Bearer test-key", request.Header.Get("Authorization"))

		var wireRequest map[string]any
		require.NoError(t, json.NewDecoder(request.Body).Decode(&wireRequest))
		assert.Equal(t, "gpt-4o", wireRequest["model"])
		_, hasStream := wireRequest["stream"]
		assert.False(t, hasStream, "sync request must not carry the stream flag")

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{
			"id": "chatcmpl-123",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hello!"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 9, "completion_tokens": 3, "total_tokens": 12}
		}`))
	}))
	defer server.Close()

	provider, err := New(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	response, err := provider.CreateChatCompletion(context.Background(), ai.ChatCompletionRequest{
		Model:    "gpt-4o",
		Messages: []ai.ChatMessage{{Role: ai.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "chatcmpl-123", response.ID)
	assert.Equal(t, "Hello!", response.Choices[0].Message.Content)
	assert.Equal(t, ai.FinishReasonStop, response.Choices[0].FinishReason)
	assert.Equal(t, ai.Usage{PromptTokens: 9, CompletionTokens: 3, TotalTokens: 12}, response.Usage)
}

func TestCreateChatCompletionWrapsVendorError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
		_, _ = writer.Write([]byte(`{"error": {"message": "invalid api key"}}`))
	}))
	defer server.Close()

	provider, err := New(Config{APIKey: "bad-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = provider.CreateChatCompletion(context.Background(), ai.ChatCompletionRequest{Model: "gpt-4o"})

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, Name, apiErr.Provider)
	assert.Equal(t, apierror.CodeAPIError, apiErr.Code)
}

func TestStreamChatCompletion(t *testing.T) {
	const fixture = `data: {"id":"chatcmpl-s1","object":"chat.completion.chunk","created":1700000000,"model":"gpt-4o","choices":[{"index":0,"delta":{"role":"assistant","content":"Hel"},"finish_reason":null}]}

data: {"id":"chatcmpl-s1","object":"chat.completion.chunk","created":1700000000,"model":"gpt-4o","choices":[{"index":0,"delta":{"content":"lo"},"finish_reason":null}]}

data: {"id":"chatcmpl-s1","object":"chat.completion.chunk","created":1700000000,"model":"gpt-4o","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}

data: {"id":"chatcmpl-s1","object":"chat.completion.chunk","created":1700000000,"model":"gpt-4o","choices":[],"usage":{"prompt_tokens":5,"completion_tokens":2,"total_tokens":7}}

data: [DONE]

`
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/chat/completions", request.URL.Path)

		var wireRequest map[string]any
		require.NoError(t, json.NewDecoder(request.Body).Decode(&wireRequest))
		assert.Equal(t, true, wireRequest["stream"])
		streamOptions, ok := wireRequest["stream_options"].(map[string]any)
		require.True(t, ok, "stream request must ask for the usage chunk")
		assert.Equal(t, true, streamOptions["include_usage"])

		writer.Header().Set("Content-Type", "text/event-stream")
		_, _ = writer.Write([]byte(fixture))
	}))
	defer server.Close()

	provider, err := New(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	stream, err := provider.StreamChatCompletion(context.Background(), ai.ChatCompletionRequest{
		Model:    "gpt-4o",
		Messages: []ai.ChatMessage{{Role: ai.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)

	response, err := stream.Collect()
	require.NoError(t, err)

	assert.Equal(t, "Hello", response.Choices[0].Message.Content)
	assert.Equal(t, ai.FinishReasonStop, response.Choices[0].FinishReason)
	assert.Equal(t, ai.Usage{PromptTokens: 5, CompletionTokens: 2, TotalTokens: 7}, response.Usage)
}

func TestStreamChatCompletionRejectedUpfront(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusTooManyRequests)
		_, _ = writer.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer server.Close()

	provider, err := New(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = provider.StreamChatCompletion(context.Background(), ai.ChatCompletionRequest{Model: "gpt-4o"})

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierror.CodeStreamingError, apiErr.Code)
}
