package asr

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelsuite/modelsuite/core/apierror"
)

func TestOpenAudioFromBytes(t *testing.T) {
	reader, name, err := Request{Audio: []byte("payload")}.OpenAudio()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer reader.Close()

	data, _ := io.ReadAll(reader)
	if string(data) != "payload" {
		t.Errorf("data = %q", data)
	}
	if name != "audio" {
		t.Errorf("name = %q", name)
	}
}

func TestOpenAudioFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "speech.mp3")
	if err := os.WriteFile(path, []byte("file-bytes"), 0o600); err != nil {
		t.Fatal(err)
	}

	reader, name, err := Request{FilePath: path}.OpenAudio()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer reader.Close()

	if name != "speech.mp3" {
		t.Errorf("name = %q", name)
	}
	data, _ := io.ReadAll(reader)
	if string(data) != "file-bytes" {
		t.Errorf("data = %q", data)
	}
}

func TestOpenAudioFromReader(t *testing.T) {
	reader, _, err := Request{Reader: strings.NewReader("streamed")}.OpenAudio()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer reader.Close()

	data, _ := io.ReadAll(reader)
	if string(data) != "streamed" {
		t.Errorf("data = %q", data)
	}
}

func TestOpenAudioNoPayload(t *testing.T) {
	_, _, err := Request{}.OpenAudio()

	var validationErr *apierror.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *apierror.ValidationError, got %T", err)
	}
	if validationErr.Field != "file" {
		t.Errorf("Field = %q", validationErr.Field)
	}
}

func TestOpenAudioMissingFile(t *testing.T) {
	_, _, err := Request{FilePath: filepath.Join(t.TempDir(), "absent.mp3")}.OpenAudio()

	var validationErr *apierror.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *apierror.ValidationError, got %T", err)
	}
}

func TestReadAudio(t *testing.T) {
	data, err := Request{Reader: strings.NewReader("bytes")}.ReadAudio()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "bytes" {
		t.Errorf("data = %q", data)
	}

	direct, err := Request{Audio: []byte("direct")}.ReadAudio()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(direct) != "direct" {
		t.Errorf("data = %q", direct)
	}
}
