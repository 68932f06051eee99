package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/modelsuite/modelsuite/core/apierror"
	"github.com/modelsuite/modelsuite/internal/utils"
	"github.com/modelsuite/modelsuite/providers/ai"
)

// Name is the provider identifier used in routing strings and errors.
const Name = "anthropic"

const (
	defaultBaseURL   = "https://api.anthropic.com/v1"
	messagesEndpoint = "/messages"

	// apiVersion pins the Messages API revision sent on every request.
	apiVersion = "2023-06-01"
)

// Config carries optional explicit settings. Zero values fall back to the
// ANTHROPIC_API_KEY environment variable and the production base URL.
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Provider implements ai.Provider and ai.StreamingProvider against the
// Anthropic Messages API.
type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates an Anthropic provider. The API key resolves from the explicit
// config first, then from ANTHROPIC_API_KEY; construction fails when neither
// yields a credential.
func New(config Config) (*Provider, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic: API key is missing; provide it in the config or set the ANTHROPIC_API_KEY environment variable")
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

// authHeaders returns the Messages API auth and version headers. The API
// authenticates with x-api-key rather than a Bearer token, so requests go
// out with an empty Bearer key and these headers instead.
func (provider *Provider) authHeaders() []utils.HeaderOption {
	return []utils.HeaderOption{
		{Key: "x-api-key", Value: provider.apiKey},
		{Key: "anthropic-version", Value: apiVersion},
	}
}

// CreateChatCompletion implements ai.Provider.
func (provider *Provider) CreateChatCompletion(ctx context.Context, request ai.ChatCompletionRequest) (*ai.ChatCompletionResponse, error) {
	if request.Stream {
		return nil, apierror.New(Name, apierror.CodeStreamingNotSupported, "streaming requests must use the streaming entry point", nil)
	}

	wireRequest := requestToAnthropic(request)

	_, wireResponse, err := utils.DoPostSync[messagesResponse](ctx, provider.client, provider.baseURL+messagesEndpoint, "", wireRequest, provider.authHeaders()...)
	if err != nil {
		return nil, apierror.New(Name, apierror.CodeAPIError, "chat completion failed", err)
	}

	return anthropicToGeneric(*wireResponse), nil
}

// StreamChatCompletion implements ai.StreamingProvider.
func (provider *Provider) StreamChatCompletion(ctx context.Context, request ai.ChatCompletionRequest) (*ai.ChunkStream, error) {
	wireRequest := requestToAnthropic(request)
	wireRequest.Stream = utils.Ptr(true)

	httpResponse, err := utils.DoPostStream(ctx, provider.client, provider.baseURL+messagesEndpoint, "", wireRequest, provider.authHeaders()...)
	if err != nil {
		return nil, apierror.New(Name, apierror.CodeStreamingError, "streaming request failed", err)
	}

	return ai.NewChunkStream(chunkIterator(ctx, httpResponse.Body)), nil
}
