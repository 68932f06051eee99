package asr

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/modelsuite/modelsuite/core/apierror"
)

// DefaultLanguage is substituted when a vendor omits the detected language.
const DefaultLanguage = "en"

// Request is the normalized transcription request. Exactly one audio source
// must be set: FilePath (read from local storage), Audio (used directly), or
// Reader (streamed directly). Params carries the vendor-agnostic parameter
// bag plus "<vendor>_*" passthrough keys.
type Request struct {
	Model string `json:"model"`

	FilePath string    `json:"file,omitempty"`
	Audio    []byte    `json:"-"`
	Reader   io.Reader `json:"-"`

	Params map[string]any `json:"params,omitempty"`
}

// OpenAudio resolves the request's audio source into a reader plus a file
// name usable in upload forms. It returns a *apierror.ValidationError before
// any network activity when no source is set.
func (request Request) OpenAudio() (io.ReadCloser, string, error) {
	switch {
	case request.FilePath != "":
		file, err := os.Open(request.FilePath)
		if err != nil {
			return nil, "", &apierror.ValidationError{Field: "file", Message: "cannot open audio file: " + err.Error()}
		}
		return file, filepath.Base(request.FilePath), nil

	case len(request.Audio) > 0:
		return io.NopCloser(bytes.NewReader(request.Audio)), "audio", nil

	case request.Reader != nil:
		return io.NopCloser(request.Reader), "audio", nil

	default:
		return nil, "", &apierror.ValidationError{Field: "file", Message: "no audio payload: set FilePath, Audio, or Reader"}
	}
}

// ReadAudio resolves the audio source into a byte slice, for vendors whose
// API takes the raw payload as the request body.
func (request Request) ReadAudio() ([]byte, error) {
	if len(request.Audio) > 0 {
		return request.Audio, nil
	}

	reader, _, err := request.OpenAudio()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, &apierror.ValidationError{Field: "file", Message: "cannot read audio payload: " + err.Error()}
	}
	return data, nil
}

// Word is one recognized word with timing and optional confidence.
type Word struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Segment is a larger span of recognized speech.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Result is the normalized transcription outcome. Words and Segments are
// never nil; Language falls back to DefaultLanguage when the vendor omits it.
type Result struct {
	Text       string    `json:"text"`
	Language   string    `json:"language"`
	Confidence float64   `json:"confidence,omitempty"`
	Words      []Word    `json:"words"`
	Segments   []Segment `json:"segments"`
}

// Provider is the interface every transcription vendor adapter satisfies.
type Provider interface {
	// Transcribe sends the audio to the vendor and returns the normalized
	// result. Vendor failures are wrapped into *apierror.APIError; payload
	// problems surface as *apierror.ValidationError before any network call.
	Transcribe(ctx context.Context, request Request) (*Result, error)
}
