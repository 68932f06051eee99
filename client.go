package modelsuite

import (
	"context"
	"slices"
	"sync"

	"github.com/modelsuite/modelsuite/core/apierror"
	"github.com/modelsuite/modelsuite/providers/ai"
	"github.com/modelsuite/modelsuite/providers/ai/anthropic"
	"github.com/modelsuite/modelsuite/providers/ai/googlegenai"
	"github.com/modelsuite/modelsuite/providers/ai/groq"
	"github.com/modelsuite/modelsuite/providers/ai/mistral"
	"github.com/modelsuite/modelsuite/providers/ai/openai"
	"github.com/modelsuite/modelsuite/providers/asr"
	"github.com/modelsuite/modelsuite/providers/asr/deepgram"
)

// constructor builds one vendor adapter from its configuration. The result
// is type-asserted to the capability interfaces at resolution time, so a
// single instance can serve both chat and transcription.
type constructor func(config ProviderConfig) (any, error)

// Client is the provider registry and request router. Every known vendor is
// registered at construction; adapters are built lazily on first use and
// memoized, so missing credentials only surface when a vendor is actually
// routed to.
type Client struct {
	mu sync.Mutex

	configs      map[string]ProviderConfig
	constructors map[string]constructor
	instances    map[string]any

	chatProviders []string
	asrProviders  []string
}

// Option configures a Client.
type Option func(*Client)

// WithProviderConfig sets explicit settings for one provider, overriding
// environment-variable resolution.
func WithProviderConfig(provider string, config ProviderConfig) Option {
	return func(client *Client) {
		client.configs[provider] = config
	}
}

// WithConfig applies a full configuration, typically loaded from a YAML
// file via LoadConfig.
func WithConfig(config Config) Option {
	return func(client *Client) {
		for provider, providerConfig := range config.Providers {
			client.configs[provider] = providerConfig
		}
	}
}

// New creates a Client with every supported vendor registered.
func New(options ...Option) (*Client, error) {
	client := &Client{
		configs:      map[string]ProviderConfig{},
		constructors: map[string]constructor{},
		instances:    map[string]any{},
	}

	client.registerChat(openai.Name, func(config ProviderConfig) (any, error) {
		return openai.New(openai.Config{APIKey: config.APIKey, BaseURL: config.BaseURL})
	})
	client.registerChat(anthropic.Name, func(config ProviderConfig) (any, error) {
		return anthropic.New(anthropic.Config{APIKey: config.APIKey, BaseURL: config.BaseURL})
	})
	client.registerChat(googlegenai.Name, func(config ProviderConfig) (any, error) {
		return googlegenai.New(googlegenai.Config{APIKey: config.APIKey, BaseURL: config.BaseURL})
	})
	client.registerChat(mistral.Name, func(config ProviderConfig) (any, error) {
		return mistral.New(mistral.Config{APIKey: config.APIKey, BaseURL: config.BaseURL})
	})
	client.registerChat(groq.Name, func(config ProviderConfig) (any, error) {
		return groq.New(groq.Config{APIKey: config.APIKey, BaseURL: config.BaseURL})
	})

	// The OpenAI adapter serves both capabilities with one instance.
	client.registerASR(openai.Name, nil)
	client.registerASR(deepgram.Name, func(config ProviderConfig) (any, error) {
		return deepgram.New(deepgram.Config{APIKey: config.APIKey, BaseURL: config.BaseURL})
	})

	for _, option := range options {
		option(client)
	}

	return client, nil
}

// registerChat registers a chat-capable vendor.
func (client *Client) registerChat(name string, build constructor) {
	client.chatProviders = append(client.chatProviders, name)
	client.constructors[name] = build
}

// registerASR registers a transcription-capable vendor. A nil constructor
// means the vendor is already registered for chat and shares its instance.
func (client *Client) registerASR(name string, build constructor) {
	client.asrProviders = append(client.asrProviders, name)
	if build != nil {
		client.constructors[name] = build
	}
}

// ListProviders returns the chat provider names in registration order.
func (client *Client) ListProviders() []string {
	return slices.Clone(client.chatProviders)
}

// ListASRProviders returns the transcription provider names in registration
// order.
func (client *Client) ListASRProviders() []string {
	return slices.Clone(client.asrProviders)
}

// IsProviderConfigured reports whether the named provider can serve chat
// requests. It is a pure membership check and never constructs the adapter.
func (client *Client) IsProviderConfigured(provider string) bool {
	return slices.Contains(client.chatProviders, provider)
}

// IsASRProviderConfigured reports whether the named provider can serve
// transcription requests.
func (client *Client) IsASRProviderConfigured(provider string) bool {
	return slices.Contains(client.asrProviders, provider)
}

// instance returns the memoized adapter for the provider, constructing it
// on first use. The mutex guarantees a single construction per provider
// even under concurrent first requests.
func (client *Client) instance(provider string) (any, error) {
	client.mu.Lock()
	defer client.mu.Unlock()

	if existing, ok := client.instances[provider]; ok {
		return existing, nil
	}

	built, err := client.constructors[provider](client.configs[provider])
	if err != nil {
		return nil, err
	}
	client.instances[provider] = built
	return built, nil
}

func (client *Client) resolveChat(provider string) (ai.Provider, error) {
	if !client.IsProviderConfigured(provider) {
		return nil, &ProviderNotConfiguredError{Provider: provider, Kind: "chat", Known: client.ListProviders()}
	}
	built, err := client.instance(provider)
	if err != nil {
		return nil, err
	}
	return built.(ai.Provider), nil
}

func (client *Client) resolveASR(provider string) (asr.Provider, error) {
	if !client.IsASRProviderConfigured(provider) {
		return nil, &ProviderNotConfiguredError{Provider: provider, Kind: "transcription", Known: client.ListASRProviders()}
	}
	built, err := client.instance(provider)
	if err != nil {
		return nil, err
	}
	return built.(asr.Provider), nil
}

// Create sends a synchronous chat completion. The request's Model must be
// in routing form "<provider>:<model>"; it is rewritten to the vendor-local
// name before dispatch. A request with Stream set is rejected by the
// adapter with STREAMING_NOT_SUPPORTED; use CreateStream instead.
//
// Adapter errors pass through unwrapped; the router adds no retries and no
// timeout beyond what ctx carries.
func (client *Client) Create(ctx context.Context, request ai.ChatCompletionRequest) (*ai.ChatCompletionResponse, error) {
	provider, model, err := ParseModel(request.Model)
	if err != nil {
		return nil, err
	}

	adapter, err := client.resolveChat(provider)
	if err != nil {
		return nil, err
	}

	request.Model = model
	return adapter.CreateChatCompletion(ctx, request)
}

// CreateStream sends a streaming chat completion and returns the lazy
// chunk stream. Nothing is buffered; chunks convert as they arrive.
func (client *Client) CreateStream(ctx context.Context, request ai.ChatCompletionRequest) (*ai.ChunkStream, error) {
	provider, model, err := ParseModel(request.Model)
	if err != nil {
		return nil, err
	}

	adapter, err := client.resolveChat(provider)
	if err != nil {
		return nil, err
	}

	streaming, ok := adapter.(ai.StreamingProvider)
	if !ok {
		return nil, apierror.New(provider, apierror.CodeStreamingNotSupported, "provider does not support streaming", nil)
	}

	request.Model = model
	return streaming.StreamChatCompletion(ctx, request)
}

// CreateTranscription sends a speech-to-text request. The request's Model
// must be in routing form "<provider>:<model>".
func (client *Client) CreateTranscription(ctx context.Context, request asr.Request) (*asr.Result, error) {
	provider, model, err := ParseModel(request.Model)
	if err != nil {
		return nil, err
	}

	adapter, err := client.resolveASR(provider)
	if err != nil {
		return nil, err
	}

	request.Model = model
	return adapter.Transcribe(ctx, request)
}
