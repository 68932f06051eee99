package asr

import (
	"context"
	"strings"

	"github.com/modelsuite/modelsuite/providers/observability"
)

// Normalized transcription parameter keys shared across vendors. Each
// vendor's table decides which it honors and under which native flag.
const (
	ParamLanguage        = "language"
	ParamPunctuate       = "punctuate"
	ParamTimestamps      = "timestamps"
	ParamWordConfidence  = "word_confidence"
	ParamSpeakerLabels   = "speaker_labels"
	ParamProfanityFilter = "profanity_filter"
	ParamSmartFormat     = "smart_format"
	ParamPrompt          = "prompt"
	ParamTemperature     = "temperature"
)

// Warning is a structured diagnostic about one ignored or unsupported
// parameter. Warnings are returned rather than only logged so callers can
// observe them programmatically.
type Warning struct {
	Parameter string `json:"parameter"`
	Message   string `json:"message"`
}

// Translation is the outcome of mapping a normalized parameter bag onto one
// vendor's native parameters.
type Translation struct {
	Params   map[string]any
	Warnings []Warning
}

// Table describes one vendor's transcription parameter surface: which
// normalized keys it supports (and under which native name), and which
// native keys it accepts as passthrough. The passthrough prefix is
// "<vendor>_".
type Table struct {
	// Vendor is the provider name; "<vendor>_"-prefixed keys pass through
	// with the prefix stripped.
	Vendor string

	// Supported maps normalized keys to the vendor's native flag name. An
	// empty value means the key is understood but needs no flag (the vendor
	// produces that output by default).
	Supported map[string]string

	// Native lists vendor-native keys passed through unchanged.
	Native map[string]struct{}
}

// prefix returns the vendor passthrough prefix.
func (table Table) prefix() string {
	return table.Vendor + "_"
}

// Validate inspects the parameter bag and reports every key the vendor does
// not understand. It never fails: unknown keys produce warnings, which are
// both returned and logged.
func (table Table) Validate(ctx context.Context, model string, params map[string]any) []Warning {
	logger := observability.LoggerFromContext(ctx)

	var warnings []Warning
	for key := range params {
		if _, ok := table.Supported[key]; ok {
			continue
		}
		if strings.HasPrefix(key, table.prefix()) {
			continue
		}
		if _, ok := table.Native[key]; ok {
			continue
		}

		warning := Warning{
			Parameter: key,
			Message:   "parameter not supported by " + table.Vendor + "; it will be ignored",
		}
		warnings = append(warnings, warning)
		logger.Warn("unsupported transcription parameter",
			observability.AttrASRProvider, table.Vendor,
			observability.AttrASRParameter, key,
			observability.AttrLLMModel, model,
		)
	}

	return warnings
}

// Translate maps the normalized bag to vendor-native parameters: supported
// keys are renamed per the table, "<vendor>_"-prefixed keys pass through
// with the prefix stripped, already-native keys pass through unchanged, and
// everything else is dropped with a warning.
func (table Table) Translate(model string, params map[string]any) Translation {
	translation := Translation{Params: map[string]any{}}

	for key, value := range params {
		if native, ok := table.Supported[key]; ok {
			if native != "" {
				translation.Params[native] = value
			}
			continue
		}

		if strings.HasPrefix(key, table.prefix()) {
			translation.Params[strings.TrimPrefix(key, table.prefix())] = value
			continue
		}

		if _, ok := table.Native[key]; ok {
			translation.Params[key] = value
			continue
		}

		translation.Warnings = append(translation.Warnings, Warning{
			Parameter: key,
			Message:   "parameter not supported by " + table.Vendor + "; it will be ignored",
		})
	}

	return translation
}
