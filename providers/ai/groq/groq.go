package groq

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/modelsuite/modelsuite/core/apierror"
	"github.com/modelsuite/modelsuite/internal/utils"
	"github.com/modelsuite/modelsuite/providers/ai"
	"github.com/modelsuite/modelsuite/providers/ai/openaicompat"
)

// Name is the provider identifier used in routing strings and errors.
const Name = "groq"

const (
	defaultBaseURL          = "https://api.groq.com/openai/v1"
	chatCompletionsEndpoint = "/chat/completions"
)

// Config carries optional explicit settings. Zero values fall back to the
// GROQ_API_KEY environment variable and the production base URL.
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Provider implements ai.Provider and ai.StreamingProvider against the
// Groq API.
type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates a Groq provider. The API key resolves from the explicit
// config first, then from GROQ_API_KEY; construction fails when neither
// yields a credential.
func New(config Config) (*Provider, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GROQ_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("groq: API key is missing; provide it in the config or set the GROQ_API_KEY environment variable")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	return &Provider{apiKey: apiKey, baseURL: baseURL, client: client}, nil
}

// WithBaseURL overrides the base URL for API requests.
func (provider *Provider) WithBaseURL(baseURL string) *Provider {
	provider.baseURL = baseURL
	return provider
}

// WithHTTPClient sets the HTTP client used for outbound requests.
func (provider *Provider) WithHTTPClient(client *http.Client) *Provider {
	provider.client = client
	return provider
}

// CreateChatCompletion implements ai.Provider.
func (provider *Provider) CreateChatCompletion(ctx context.Context, request ai.ChatCompletionRequest) (*ai.ChatCompletionResponse, error) {
	if request.Stream {
		return nil, apierror.New(Name, apierror.CodeStreamingNotSupported, "streaming requests must use the streaming entry point", nil)
	}

	wireRequest := openaicompat.FromRequest(request)

	_, wireResponse, err := utils.DoPostSync[openaicompat.Response](ctx, provider.client, provider.baseURL+chatCompletionsEndpoint, provider.apiKey, wireRequest)
	if err != nil {
		return nil, apierror.New(Name, apierror.CodeAPIError, "chat completion failed", err)
	}
	if len(wireResponse.Choices) == 0 {
		return nil, apierror.New(Name, apierror.CodeAPIError, "no choices in response", nil)
	}

	return openaicompat.ToResponse(*wireResponse), nil
}

// StreamChatCompletion implements ai.StreamingProvider.
func (provider *Provider) StreamChatCompletion(ctx context.Context, request ai.ChatCompletionRequest) (*ai.ChunkStream, error) {
	wireRequest := openaicompat.FromRequest(request)
	wireRequest.Stream = utils.Ptr(true)

	httpResponse, err := utils.DoPostStream(ctx, provider.client, provider.baseURL+chatCompletionsEndpoint, provider.apiKey, wireRequest)
	if err != nil {
		return nil, apierror.New(Name, apierror.CodeStreamingError, "streaming request failed", err)
	}

	return ai.NewChunkStream(openaicompat.ChunkIterator(ctx, Name, httpResponse.Body, decodeChunk)), nil
}

// streamChunk extends the standard chunk with the x_groq envelope, which
// carries usage on the final event of a stream.
type streamChunk struct {
	openaicompat.Chunk
	XGroq *struct {
		Usage *openaicompat.Usage `json:"usage,omitempty"`
	} `json:"x_groq,omitempty"`
}

// decodeChunk is the Groq-specific stream decoder. It hoists usage out of
// the x_groq envelope into the top-level field before normalizing.
func decodeChunk(payload string) (*ai.ChatCompletionChunk, error) {
	var chunk streamChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return nil, err
	}
	if chunk.Usage == nil && chunk.XGroq != nil && chunk.XGroq.Usage != nil {
		chunk.Chunk.Usage = chunk.XGroq.Usage
	}
	return openaicompat.ToChunk(chunk.Chunk), nil
}
