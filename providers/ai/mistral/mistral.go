package mistral

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/modelsuite/modelsuite/core/apierror"
	"github.com/modelsuite/modelsuite/internal/utils"
	"github.com/modelsuite/modelsuite/providers/ai"
	"github.com/modelsuite/modelsuite/providers/ai/openaicompat"
)

// Name is the provider identifier used in routing strings and errors.
const Name = "mistral"

const (
	defaultBaseURL          = "https://api.mistral.ai/v1"
	chatCompletionsEndpoint = "/chat/completions"
)

// Config carries optional explicit settings. Zero values fall back to the
// MISTRAL_API_KEY environment variable and the production base URL.
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Provider implements ai.Provider and ai.StreamingProvider against the
// Mistral AI API.
type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates a Mistral provider. The API key resolves from the explicit
// config first, then from MISTRAL_API_KEY; construction fails when neither
// yields a credential.
func New(config Config) (*Provider, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("MISTRAL_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("mistral: API key is missing; provide it in the config or set the MISTRAL_API_KEY environment variable")
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

// buildRequest converts the normalized request and strips the fields the
// API rejects.
func buildRequest(request ai.ChatCompletionRequest) openaicompat.Request {
	wireRequest := openaicompat.FromRequest(request)

	// Not accepted by the API.
	wireRequest.User = ""

	// A forced named function is expressed as "any" rather than the
	// named-function object.
	if request.ToolChoice != nil && request.ToolChoice.Mode == ai.ToolChoiceFunction {
		wireRequest.ToolChoice = "any"
	}

	return wireRequest
}

// CreateChatCompletion implements ai.Provider.
func (provider *Provider) CreateChatCompletion(ctx context.Context, request ai.ChatCompletionRequest) (*ai.ChatCompletionResponse, error) {
	if request.Stream {
		return nil, apierror.New(Name, apierror.CodeStreamingNotSupported, "streaming requests must use the streaming entry point", nil)
	}

	wireRequest := buildRequest(request)

	_, wireResponse, err := utils.DoPostSync[openaicompat.Response](ctx, provider.client, provider.baseURL+chatCompletionsEndpoint, provider.apiKey, wireRequest)
	if err != nil {
		return nil, apierror.New(Name, apierror.CodeAPIError, "chat completion failed", err)
	}
	if len(wireResponse.Choices) == 0 {
		return nil, apierror.New(Name, apierror.CodeAPIError, "no choices in response", nil)
	}

	return openaicompat.ToResponse(*wireResponse), nil
}

// StreamChatCompletion implements ai.StreamingProvider. The API does not
// accept stream_options, so usage arrives only if the vendor includes it on
// its own.
func (provider *Provider) StreamChatCompletion(ctx context.Context, request ai.ChatCompletionRequest) (*ai.ChunkStream, error) {
	wireRequest := buildRequest(request)
	wireRequest.Stream = utils.Ptr(true)

	httpResponse, err := utils.DoPostStream(ctx, provider.client, provider.baseURL+chatCompletionsEndpoint, provider.apiKey, wireRequest)
	if err != nil {
		return nil, apierror.New(Name, apierror.CodeStreamingError, "streaming request failed", err)
	}

	return ai.NewChunkStream(openaicompat.ChunkIterator(ctx, Name, httpResponse.Body, openaicompat.DecodeChunk)), nil
}
