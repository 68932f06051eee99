package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// MultipartField is a single non-file form field in a multipart upload.
// Repeated keys are allowed (e.g. timestamp_granularities[]).
type MultipartField struct {
	Key   string
	Value string
}

// DoPostMultipart performs a multipart/form-data POST carrying one file part
// plus any number of plain form fields, and decodes the JSON response into
// OutputStruct. The whole form is buffered before sending; audio uploads are
// bounded in practice so this keeps the code simple.
func DoPostMultipart[OutputStruct any](ctx context.Context, client *http.Client, url string, apiKey string, fileField, fileName string, file io.Reader, fields []MultipartField) (*http.Response, *OutputStruct, error) {
	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(fileField, fileName)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating form file: %w", err)
	}
	if _, err = io.Copy(part, file); err != nil {
		return nil, nil, fmt.Errorf("error writing file part: %w", err)
	}

	for _, field := range fields {
		if err = writer.WriteField(field.Key, field.Value); err != nil {
			return nil, nil, fmt.Errorf("error writing form field %q: %w", field.Key, err)
		}
	}

	if err = writer.Close(); err != nil {
		return nil, nil, fmt.Errorf("error finalizing multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	res, err := httpClient.Do(req)
	if err != nil {
		return res, nil, fmt.Errorf("error sending request: %w", err)
	}
	defer CloseWithLog(res.Body)

	respBody, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBodySize))
	if err != nil {
		return res, nil, fmt.Errorf("error reading response body: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return res, nil, &HTTPStatusError{StatusCode: res.StatusCode, Body: string(respBody)}
	}

	var resStruct OutputStruct
	if err = json.Unmarshal(respBody, &resStruct); err != nil {
		return res, nil, fmt.Errorf("error unmarshaling response body (status %d): %w\nResponse preview: %s", res.StatusCode, err, TruncateString(string(respBody), 500))
	}

	return res, &resStruct, nil
}
