package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/foxseedlab/kakitori/internal/backend"
	"github.com/foxseedlab/kakitori/internal/config"
	"github.com/foxseedlab/kakitori/internal/modelcache"
	"github.com/foxseedlab/kakitori/internal/service"
	"github.com/foxseedlab/kakitori/internal/transcriber"
)

type fakeModel struct {
	output *backend.Output
	err    error
}

func (m *fakeModel) Transcribe(ctx context.Context, audioPath string, opts backend.Options) (*backend.Output, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.output, nil
}

func (m *fakeModel) Close() error { return nil }

type fakeBackend struct {
	loads   int
	loadErr error
	model   *fakeModel
}

func (b *fakeBackend) LoadModel(ctx context.Context, name string) (backend.Model, error) {
	b.loads++
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	return b.model, nil
}

func newTestServer(t *testing.T, b *fakeBackend) *Server {
	t.Helper()
	cfg := &config.ServerConfig{
		Host:         "127.0.0.1",
		Port:         6431,
		DefaultModel: "turbo",
		ModelsDir:    t.TempDir(),
		MaxUploadMB:  8,
		TempDir:      t.TempDir(),
	}
	svc := service.New(modelcache.New(b), cfg.TempDir)
	return New(cfg, svc)
}

func multipartAudioRequest(t *testing.T, path, contentType string, fields map[string]string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="audio.wav"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte("RIFFfakewav")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeJSONBody(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(body, into); err != nil {
		t.Fatalf("unmarshal body %s: %v", body, err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeBackend{model: &fakeModel{output: &backend.Output{}}})

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	resp, err := srv.App().Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var health service.Health
	decodeJSONBody(t, resp, &health)
	if health.ModelLoaded {
		t.Fatal("expected no model loaded")
	}
	if health.CurrentModel != "none" {
		t.Fatalf("expected current model none, got %s", health.CurrentModel)
	}
}

func TestModelsEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeBackend{model: &fakeModel{output: &backend.Output{}}})

	req, _ := http.NewRequest(http.MethodGet, "/models", nil)
	resp, err := srv.App().Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	var models service.ModelList
	decodeJSONBody(t, resp, &models)
	if len(models.AvailableModels) != 5 {
		t.Fatalf("expected 5 models, got %v", models.AvailableModels)
	}
	if models.CurrentModel != "none" {
		t.Fatalf("expected current model none, got %s", models.CurrentModel)
	}
}

func TestTranscribeEndpoint_Success(t *testing.T) {
	b := &fakeBackend{model: &fakeModel{output: &backend.Output{
		Text:     "  hello world",
		Language: "en",
		Segments: []backend.SegmentOutput{{Start: 0, End: 2, Text: "hello world"}},
	}}}
	srv := newTestServer(t, b)

	req := multipartAudioRequest(t, "/transcribe", "audio/wav", map[string]string{"model": "turbo", "language": "auto"})
	resp, err := srv.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result transcriber.Result
	decodeJSONBody(t, resp, &result)
	if result.Text != "Hello world" {
		t.Fatalf("expected normalized text, got %q", result.Text)
	}
	if result.Language != "en" {
		t.Fatalf("expected language en, got %q", result.Language)
	}
	if len(result.Segments) != 1 || result.Segments[0].End != 2 {
		t.Fatalf("unexpected segments: %+v", result.Segments)
	}
}

func TestTranscribeEndpoint_MissingFile(t *testing.T) {
	srv := newTestServer(t, &fakeBackend{model: &fakeModel{output: &backend.Output{}}})

	req, _ := http.NewRequest(http.MethodPost, "/transcribe", bytes.NewReader(nil))
	resp, err := srv.App().Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestTranscribeEndpoint_NonAudioRejectedBeforeLoad(t *testing.T) {
	b := &fakeBackend{model: &fakeModel{output: &backend.Output{}}}
	srv := newTestServer(t, b)

	req := multipartAudioRequest(t, "/transcribe", "text/plain", nil)
	resp, err := srv.App().Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var payload struct {
		Detail string `json:"detail"`
	}
	decodeJSONBody(t, resp, &payload)
	if payload.Detail == "" {
		t.Fatal("expected a detail message")
	}
	if b.loads != 0 {
		t.Fatalf("expected no model load, got %d", b.loads)
	}
}

func TestTranscribeEndpoint_ModelLoadFailure(t *testing.T) {
	srv := newTestServer(t, &fakeBackend{loadErr: errors.New("model file missing")})

	req := multipartAudioRequest(t, "/transcribe", "audio/wav", nil)
	resp, err := srv.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}

func TestCompatEndpoint_NarrowsEnvelope(t *testing.T) {
	b := &fakeBackend{model: &fakeModel{output: &backend.Output{
		Text:     "hello",
		Language: "en",
		Segments: []backend.SegmentOutput{{Start: 0, End: 1, Text: "hello"}},
	}}}
	srv := newTestServer(t, b)

	req := multipartAudioRequest(t, "/v1/audio/transcriptions", "audio/wav", nil)
	resp, err := srv.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var payload map[string]any
	decodeJSONBody(t, resp, &payload)
	if payload["text"] != "Hello" {
		t.Fatalf("unexpected text: %v", payload["text"])
	}
	if payload["language"] != "en" {
		t.Fatalf("unexpected language: %v", payload["language"])
	}
	if _, ok := payload["segments"]; ok {
		t.Fatal("expected segments to be omitted from the compat envelope")
	}
}

func TestTranscribeEndpoint_DefaultFormValues(t *testing.T) {
	b := &fakeBackend{model: &fakeModel{output: &backend.Output{Text: "hi"}}}
	srv := newTestServer(t, b)

	req := multipartAudioRequest(t, "/transcribe", "audio/wav", nil)
	resp, err := srv.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result transcriber.Result
	decodeJSONBody(t, resp, &result)
	// Backend reported no language, so the default "en" is echoed back.
	if result.Language != "en" {
		t.Fatalf("expected default language en, got %q", result.Language)
	}
}
