package deepgram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/modelsuite/modelsuite/core/apierror"
	"github.com/modelsuite/modelsuite/internal/utils"
	"github.com/modelsuite/modelsuite/providers/asr"
)

// Name is the provider identifier used in routing strings and errors.
const Name = "deepgram"

const (
	defaultBaseURL = "https://api.deepgram.com/v1"
	listenEndpoint = "/listen"
)

// paramTable is the listen API parameter surface. Word confidence and word
// timings are always present in the response, so those normalized keys need
// no native flag.
var paramTable = asr.Table{
	Vendor: Name,
	Supported: map[string]string{
		asr.ParamLanguage:        "language",
		asr.ParamPunctuate:       "punctuate",
		asr.ParamSpeakerLabels:   "diarize",
		asr.ParamProfanityFilter: "profanity_filter",
		asr.ParamSmartFormat:     "smart_format",
		asr.ParamTimestamps:      "",
		asr.ParamWordConfidence:  "",
	},
	Native: map[string]struct{}{
		"diarize":         {},
		"utterances":      {},
		"filler_words":    {},
		"keywords":        {},
		"detect_topics":   {},
		"summarize":       {},
		"multichannel":    {},
		"numerals":        {},
		"paragraphs":      {},
		"detect_language": {},
	},
}

/*
	LISTEN API - OUTPUT
*/

type listenResponse struct {
	Results struct {
		Channels []struct {
			DetectedLanguage string `json:"detected_language"`
			Alternatives     []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
				Words      []struct {
					Word           string  `json:"word"`
					PunctuatedWord string  `json:"punctuated_word"`
					Start          float64 `json:"start"`
					End            float64 `json:"end"`
					Confidence     float64 `json:"confidence"`
					Speaker        *int    `json:"speaker,omitempty"`
				} `json:"words"`
			} `json:"alternatives"`
		} `json:"channels"`
		Utterances []struct {
			Transcript string  `json:"transcript"`
			Start      float64 `json:"start"`
			End        float64 `json:"end"`
		} `json:"utterances"`
	} `json:"results"`
}

// Config carries optional explicit settings. Zero values fall back to the
// DEEPGRAM_API_KEY environment variable and the production base URL.
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Provider implements asr.Provider against the Deepgram listen API.
type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates a Deepgram provider. The API key resolves from the explicit
// config first, then from DEEPGRAM_API_KEY; construction fails when neither
// yields a credential.
func New(config Config) (*Provider, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("DEEPGRAM_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("deepgram: API key is missing; provide it in the config or set the DEEPGRAM_API_KEY environment variable")
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

// ValidateParams reports every parameter the listen API does not
// understand. It never fails; unknown keys are returned as warnings and
// logged.
func (provider *Provider) ValidateParams(ctx context.Context, model string, params map[string]any) []asr.Warning {
	return paramTable.Validate(ctx, model, params)
}

// TranslateParams maps the normalized parameter bag onto listen API query
// parameter names, with "deepgram_"-prefixed passthrough.
func (provider *Provider) TranslateParams(model string, params map[string]any) asr.Translation {
	return paramTable.Translate(model, params)
}

// Transcribe implements asr.Provider. The audio payload goes out as the raw
// request body; the model and all translated parameters travel as query
// parameters.
func (provider *Provider) Transcribe(ctx context.Context, request asr.Request) (*asr.Result, error) {
	audio, err := request.ReadAudio()
	if err != nil {
		return nil, err
	}

	provider.ValidateParams(ctx, request.Model, request.Params)
	translation := provider.TranslateParams(request.Model, request.Params)

	query := url.Values{}
	if request.Model != "" {
		query.Set("model", request.Model)
	}
	for key, value := range translation.Params {
		query.Set(key, fmt.Sprintf("%v", value))
	}

	requestURL := provider.baseURL + listenEndpoint + "?" + query.Encode()

	_, wireResult, err := utils.DoPostBytes[listenResponse](ctx, provider.client, requestURL, "application/octet-stream", audio,
		utils.HeaderOption{Key: "Authorization", Value: "Token " + provider.apiKey})
	if err != nil {
		return nil, apierror.New(Name, apierror.CodeAPIError, "transcription failed", err)
	}

	return normalizeListen(*wireResult, request.Params), nil
}

// normalizeListen maps the first alternative of the first channel onto the
// normalized result. Utterances, when requested, become segments.
func normalizeListen(response listenResponse, params map[string]any) *asr.Result {
	result := &asr.Result{
		Language: asr.DefaultLanguage,
		Words:    []asr.Word{},
		Segments: []asr.Segment{},
	}

	if language, ok := params[asr.ParamLanguage].(string); ok && language != "" {
		result.Language = strings.ToLower(language)
	}

	if len(response.Results.Channels) == 0 {
		return result
	}
	channel := response.Results.Channels[0]
	if channel.DetectedLanguage != "" {
		result.Language = strings.ToLower(channel.DetectedLanguage)
	}
	if len(channel.Alternatives) == 0 {
		return result
	}
	alternative := channel.Alternatives[0]

	result.Text = alternative.Transcript
	result.Confidence = alternative.Confidence

	for _, word := range alternative.Words {
		text := word.Word
		if word.PunctuatedWord != "" {
			text = word.PunctuatedWord
		}
		result.Words = append(result.Words, asr.Word{
			Text:       text,
			Start:      word.Start,
			End:        word.End,
			Confidence: word.Confidence,
		})
	}

	for _, utterance := range response.Results.Utterances {
		result.Segments = append(result.Segments, asr.Segment{
			Text:  utterance.Transcript,
			Start: utterance.Start,
			End:   utterance.End,
		})
	}

	return result
}
