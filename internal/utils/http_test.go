package utils

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type echoResponse struct {
	Message string `json:"message"`
}

func TestDoPostSync(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if auth := request.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		if contentType := request.Header.Get("Content-Type"); contentType != "application/json" {
			t.Errorf("Content-Type = %q", contentType)
		}
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"message":"ok"}`))
	}))
	defer server.Close()

	_, result, err := DoPostSync[echoResponse](context.Background(), server.Client(), server.URL, "test-key", map[string]string{"q": "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Message != "ok" {
		t.Errorf("Message = %q", result.Message)
	}
}

func TestDoPostSyncHeaderOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if auth := request.Header.Get("Authorization"); auth != "" {
			t.Errorf("Authorization should be unset, got %q", auth)
		}
		if key := request.Header.Get("x-api-key"); key != "secret" {
			t.Errorf("x-api-key = %q", key)
		}
		_, _ = writer.Write([]byte(`{"message":"ok"}`))
	}))
	defer server.Close()

	_, _, err := DoPostSync[echoResponse](context.Background(), server.Client(), server.URL, "", map[string]string{},
		HeaderOption{Key: "x-api-key", Value: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDoPostSyncNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusBadRequest)
		_, _ = writer.Write([]byte(`{"error":"bad request"}`))
	}))
	defer server.Close()

	_, _, err := DoPostSync[echoResponse](context.Background(), server.Client(), server.URL, "key", map[string]string{})

	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *HTTPStatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d", statusErr.StatusCode)
	}
}

func TestDoPostSyncMalformedResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, _, err := DoPostSync[echoResponse](context.Background(), server.Client(), server.URL, "key", map[string]string{})
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !strings.Contains(err.Error(), "unmarshaling") {
		t.Errorf("error = %v", err)
	}
}

func TestDoPostBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if contentType := request.Header.Get("Content-Type"); contentType != "application/octet-stream" {
			t.Errorf("Content-Type = %q", contentType)
		}
		body, _ := io.ReadAll(request.Body)
		if string(body) != "raw-payload" {
			t.Errorf("body = %q", body)
		}
		_, _ = writer.Write([]byte(`{"message":"received"}`))
	}))
	defer server.Close()

	_, result, err := DoPostBytes[echoResponse](context.Background(), server.Client(), server.URL, "application/octet-stream", []byte("raw-payload"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Message != "received" {
		t.Errorf("Message = %q", result.Message)
	}
}

func TestDoPostMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if err := request.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("not a multipart form: %v", err)
		}
		if got := request.FormValue("model"); got != "whisper-1" {
			t.Errorf("model field = %q", got)
		}
		file, header, err := request.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		defer file.Close()
		if header.Filename != "speech.mp3" {
			t.Errorf("file name = %q", header.Filename)
		}
		content, _ := io.ReadAll(file)
		if string(content) != "audio-bytes" {
			t.Errorf("file content = %q", content)
		}
		_, _ = writer.Write([]byte(`{"message":"transcribed"}`))
	}))
	defer server.Close()

	_, result, err := DoPostMultipart[echoResponse](context.Background(), server.Client(), server.URL, "test-key",
		"file", "speech.mp3", strings.NewReader("audio-bytes"),
		[]MultipartField{{Key: "model", Value: "whisper-1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Message != "transcribed" {
		t.Errorf("Message = %q", result.Message)
	}
}
