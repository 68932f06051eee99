package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelsuite/modelsuite/core/apierror"
	"github.com/modelsuite/modelsuite/internal/utils"
	"github.com/modelsuite/modelsuite/providers/asr"
)

// paramTable is the fixed parameter surface of the audio transcriptions
// endpoint. Whisper-family models carry word timings in the verbose
// response but expose no per-word confidence and no diarization, so those
// normalized keys are absent and draw a warning.
var paramTable = asr.Table{
	Vendor: Name,
	Supported: map[string]string{
		asr.ParamLanguage:    "language",
		asr.ParamPrompt:      "prompt",
		asr.ParamTemperature: "temperature",
		asr.ParamTimestamps:  "", // handled structurally via timestamp_granularities
	},
	Native: map[string]struct{}{
		"response_format":   {},
		"chunking_strategy": {},
	},
}

/*
	AUDIO TRANSCRIPTIONS API - OUTPUT (response_format=verbose_json)
*/

type transcriptionResponse struct {
	Task     string  `json:"task"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
	Words    []struct {
		Word  string  `json:"word"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"words"`
	Segments []struct {
		ID    int     `json:"id"`
		Text  string  `json:"text"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"segments"`
}

// ValidateParams reports every parameter the endpoint does not understand.
// It never fails; unknown keys are returned as warnings and logged.
func (provider *Provider) ValidateParams(ctx context.Context, model string, params map[string]any) []asr.Warning {
	return paramTable.Validate(ctx, model, params)
}

// TranslateParams maps the normalized parameter bag onto the endpoint's
// native form-field names, with "openai_"-prefixed passthrough.
func (provider *Provider) TranslateParams(model string, params map[string]any) asr.Translation {
	return paramTable.Translate(model, params)
}

// Transcribe implements asr.Provider against the audio transcriptions
// endpoint. The verbose JSON response format is always requested so word
// and segment timings are available for normalization.
func (provider *Provider) Transcribe(ctx context.Context, request asr.Request) (*asr.Result, error) {
	audio, fileName, err := request.OpenAudio()
	if err != nil {
		return nil, err
	}
	defer audio.Close()

	provider.ValidateParams(ctx, request.Model, request.Params)
	translation := provider.TranslateParams(request.Model, request.Params)

	fields := []utils.MultipartField{
		{Key: "model", Value: request.Model},
		{Key: "response_format", Value: "verbose_json"},
	}
	for key, value := range translation.Params {
		if key == "response_format" {
			// verbose_json is required for words/segments normalization.
			continue
		}
		fields = append(fields, utils.MultipartField{Key: key, Value: fmt.Sprintf("%v", value)})
	}
	if wantsTimestamps(request.Params) {
		fields = append(fields, utils.MultipartField{Key: "timestamp_granularities[]", Value: "word"})
	}

	_, wireResult, err := utils.DoPostMultipart[transcriptionResponse](ctx, provider.client, provider.baseURL+transcriptionsEndpoint, provider.apiKey, "file", fileName, audio, fields)
	if err != nil {
		return nil, apierror.New(Name, apierror.CodeAPIError, "transcription failed", err)
	}

	return normalizeTranscription(*wireResult), nil
}

// wantsTimestamps reports whether the caller asked for word timestamps.
func wantsTimestamps(params map[string]any) bool {
	enabled, ok := params[asr.ParamTimestamps].(bool)
	return ok && enabled
}

// normalizeTranscription maps the verbose response to the normalized result.
// Words and Segments default to empty slices; the language falls back to the
// fixed default when the vendor omits it.
func normalizeTranscription(response transcriptionResponse) *asr.Result {
	result := &asr.Result{
		Text:     response.Text,
		Language: strings.ToLower(response.Language),
		Words:    []asr.Word{},
		Segments: []asr.Segment{},
	}
	if result.Language == "" {
		result.Language = asr.DefaultLanguage
	}

	for _, word := range response.Words {
		result.Words = append(result.Words, asr.Word{
			Text:  word.Word,
			Start: word.Start,
			End:   word.End,
		})
	}
	for _, segment := range response.Segments {
		result.Segments = append(result.Segments, asr.Segment{
			Text:  strings.TrimSpace(segment.Text),
			Start: segment.Start,
			End:   segment.End,
		})
	}

	return result
}
