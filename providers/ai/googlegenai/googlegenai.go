package googlegenai

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
const Name = "googlegenai"

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Config carries optional explicit settings. Zero values fall back to the
// GEMINI_API_KEY environment variable and the production base URL.
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Provider implements ai.Provider and ai.StreamingProvider against the
// Google Generative Language API.
type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates a Google GenAI provider. The API key resolves from the
// explicit config first, then from GEMINI_API_KEY; construction fails when
// neither yields a credential.
func New(config Config) (*Provider, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("googlegenai: API key is missing; provide it in the config or set the GEMINI_API_KEY environment variable")
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

// authHeader returns the x-goog-api-key header the API authenticates with
// instead of a Bearer token.
func (provider *Provider) authHeader() utils.HeaderOption {
	return utils.HeaderOption{Key: "x-goog-api-key", Value: provider.apiKey}
}

// CreateChatCompletion implements ai.Provider.
func (provider *Provider) CreateChatCompletion(ctx context.Context, request ai.ChatCompletionRequest) (*ai.ChatCompletionResponse, error) {
	if request.Stream {
		return nil, apierror.New(Name, apierror.CodeStreamingNotSupported, "streaming requests must use the streaming entry point", nil)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", provider.baseURL, request.Model)
	wireRequest := requestToGenAI(request)

	_, wireResponse, err := utils.DoPostSync[generateContentResponse](ctx, provider.client, url, "", wireRequest, provider.authHeader())
	if err != nil {
		return nil, apierror.New(Name, apierror.CodeAPIError, "chat completion failed", err)
	}

	return genaiToGeneric(*wireResponse, request.Model), nil
}

// StreamChatCompletion implements ai.StreamingProvider.
func (provider *Provider) StreamChatCompletion(ctx context.Context, request ai.ChatCompletionRequest) (*ai.ChunkStream, error) {
	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", provider.baseURL, request.Model)
	wireRequest := requestToGenAI(request)

	httpResponse, err := utils.DoPostStream(ctx, provider.client, url, "", wireRequest, provider.authHeader())
	if err != nil {
		return nil, apierror.New(Name, apierror.CodeStreamingError, "streaming request failed", err)
	}

	return ai.NewChunkStream(chunkIterator(ctx, request.Model, httpResponse.Body)), nil
}
