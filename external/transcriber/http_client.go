package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/foxseedlab/kakitori/internal/transcriber"
)

const maxErrorBodyBytes = 1000

// HTTPClient uploads recorded takes to the transcription service as multipart
// form requests. One attempt per take, no retry; dictation is interactive, a
// failed attempt is reported and dropped.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) transcriber.Client {
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Transcribe posts the WAV file with its parameters and parses the response.
// The WAV file is removed before returning, whatever the outcome.
func (c *HTTPClient) Transcribe(ctx context.Context, req transcriber.Request) (*transcriber.Result, error) {
	defer func() {
		_ = os.Remove(req.WAVPath)
	}()

	body, contentType, err := buildMultipartBody(req)
	if err != nil {
		return nil, &transcriber.RequestError{Message: err.Error()}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", body)
	if err != nil {
		return nil, &transcriber.RequestError{Message: err.Error()}
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &transcriber.RequestError{Message: err.Error()}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &transcriber.RequestError{Status: resp.StatusCode, Message: err.Error()}
	}
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return nil, &transcriber.RequestError{Status: resp.StatusCode, Message: truncateBody(respBody)}
	}

	var result transcriber.Result
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &transcriber.RequestError{Status: resp.StatusCode, Message: fmt.Sprintf("malformed response: %v", err)}
	}
	result.Text = strings.TrimSpace(result.Text)
	return &result, nil
}

func buildMultipartBody(req transcriber.Request) (*bytes.Buffer, string, error) {
	f, err := os.Open(req.WAVPath)
	if err != nil {
		return nil, "", fmt.Errorf("open wav file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(req.WAVPath)))
	header.Set("Content-Type", "audio/wav")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("copy wav data: %w", err)
	}

	fields := map[string]string{
		"model":    req.Model,
		"language": req.Language,
		"prompt":   req.Prompt,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

func truncateBody(b []byte) string {
	if len(b) == 0 {
		return "<empty response>"
	}
	if len(b) > maxErrorBodyBytes {
		return fmt.Sprintf("%s... (truncated, total %d bytes)", b[:maxErrorBodyBytes], len(b))
	}
	return string(b)
}
