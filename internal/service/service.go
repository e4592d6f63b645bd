package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/foxseedlab/kakitori/internal/backend"
	"github.com/foxseedlab/kakitori/internal/modelcache"
	"github.com/foxseedlab/kakitori/internal/transcriber"
)

// LanguageAuto asks the service to let the backend detect the language. The
// literal string is never forwarded to the backend; the hint is omitted
// instead.
const LanguageAuto = "auto"

// AvailableModels is the static list of supported model identifiers.
var AvailableModels = []string{"tiny", "base", "small", "medium", "large"}

// Error is a request failure with the HTTP status it maps to.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

// Upload is the audio file part of a transcription request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Params are the form fields of a transcription request.
type Params struct {
	Model    string
	Language string
	Prompt   string
}

// Health is the introspection payload of the root endpoint.
type Health struct {
	Message      string `json:"message"`
	ModelLoaded  bool   `json:"model_loaded"`
	CurrentModel string `json:"current_model"`
}

// ModelList enumerates supported models and the resident one.
type ModelList struct {
	AvailableModels []string `json:"available_models"`
	CurrentModel    string   `json:"current_model"`
}

// Service validates uploads, resolves models through the cache and runs the
// transcription backend.
type Service struct {
	cache   *modelcache.Cache
	tempDir string
}

func New(cache *modelcache.Cache, tempDir string) *Service {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Service{cache: cache, tempDir: tempDir}
}

func (s *Service) Health() Health {
	return Health{
		Message:      "kakitori transcription service is running",
		ModelLoaded:  s.cache.Loaded(),
		CurrentModel: s.currentModelName(),
	}
}

func (s *Service) Models() ModelList {
	return ModelList{
		AvailableModels: AvailableModels,
		CurrentModel:    s.currentModelName(),
	}
}

// Preload resolves the given model so the first request does not pay the load
// cost.
func (s *Service) Preload(ctx context.Context, model string) error {
	_, err := s.cache.Resolve(ctx, model)
	return err
}

// Transcribe runs one upload through validation, model resolution and the
// backend, and normalizes the transcript for display.
func (s *Service) Transcribe(ctx context.Context, up Upload, p Params) (*transcriber.Result, error) {
	if !strings.HasPrefix(up.ContentType, "audio/") {
		return nil, &Error{Status: 400, Detail: "file must be an audio file"}
	}

	model, err := s.cache.Resolve(ctx, p.Model)
	if err != nil {
		slog.Error("model resolution failed", "model", p.Model, "error", err)
		return nil, &Error{Status: 500, Detail: fmt.Sprintf("failed to load model: %v", err)}
	}

	audioPath, err := s.spoolUpload(up)
	if err != nil {
		slog.Error("failed to persist upload", "error", err)
		return nil, &Error{Status: 500, Detail: fmt.Sprintf("failed to persist upload: %v", err)}
	}
	defer func() {
		_ = os.Remove(audioPath)
	}()

	opts := backend.Options{}
	if p.Language != "" && p.Language != LanguageAuto {
		opts.Language = p.Language
	}
	if p.Prompt != "" {
		opts.Prompt = p.Prompt
	}

	out, err := model.Transcribe(ctx, audioPath, opts)
	if err != nil {
		slog.Error("transcription failed", "model", p.Model, "error", err)
		return nil, &Error{Status: 500, Detail: fmt.Sprintf("transcription failed: %v", err)}
	}

	language := out.Language
	if language == "" {
		language = p.Language
	}

	segments := make([]transcriber.Segment, 0, len(out.Segments))
	for _, seg := range out.Segments {
		segments = append(segments, transcriber.Segment{Start: seg.Start, End: seg.End, Text: seg.Text})
	}

	return &transcriber.Result{
		Text:     normalizeTranscript(out.Text),
		Language: language,
		Segments: segments,
	}, nil
}

func (s *Service) spoolUpload(up Upload) (string, error) {
	ext := filepath.Ext(up.Filename)
	if ext == "" {
		ext = ".wav"
	}
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	path := filepath.Join(s.tempDir, fmt.Sprintf("upload_%s%s", id, ext))
	if err := os.WriteFile(path, up.Data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Service) currentModelName() string {
	if name := s.cache.CurrentModel(); name != "" {
		return name
	}
	return "none"
}

// normalizeTranscript trims surrounding whitespace and upper-cases the first
// character. Display parity rule; an empty transcript stays empty.
func normalizeTranscript(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(text)
	return string(unicode.ToUpper(r)) + text[size:]
}
