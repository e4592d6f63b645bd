package backend

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/foxseedlab/kakitori/internal/audio"
	"github.com/foxseedlab/kakitori/internal/backend"
)

// WhisperCppBackend loads whisper.cpp models from ggml-<name>.bin files under
// a models directory. whisper.New is the expensive step; the model cache keeps
// the handles alive across requests.
type WhisperCppBackend struct {
	modelsDir string
	codec     audio.Codec
}

func NewWhisperCppBackend(modelsDir string, codec audio.Codec) backend.Backend {
	return &WhisperCppBackend{modelsDir: modelsDir, codec: codec}
}

func (b *WhisperCppBackend) LoadModel(ctx context.Context, name string) (backend.Model, error) {
	path := filepath.Join(b.modelsDir, fmt.Sprintf("ggml-%s.bin", name))
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("model file for %q: %w", name, err)
	}
	model, err := whisper.New(path)
	if err != nil {
		return nil, fmt.Errorf("load whisper model %q: %w", name, err)
	}
	return &whisperModel{model: model, codec: b.codec}, nil
}

type whisperModel struct {
	model whisper.Model
	codec audio.Codec
}

func (m *whisperModel) Transcribe(ctx context.Context, audioPath string, opts backend.Options) (*backend.Output, error) {
	samples, sampleRate, err := m.codec.DecodeFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	if sampleRate != whisper.SampleRate {
		return nil, fmt.Errorf("audio must be %d Hz, got %d", whisper.SampleRate, sampleRate)
	}

	data := make([]float32, len(samples))
	for i, s := range samples {
		data[i] = float32(s) / 32768
	}

	wctx, err := m.model.NewContext()
	if err != nil {
		return nil, fmt.Errorf("create whisper context: %w", err)
	}

	language := opts.Language
	if language == "" {
		language = "auto"
	}
	if err := wctx.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("set language %q: %w", language, err)
	}
	if opts.Prompt != "" {
		wctx.SetInitialPrompt(opts.Prompt)
	}

	encoderBegin := func() bool {
		return ctx.Err() == nil
	}
	if err := wctx.Process(data, encoderBegin, nil, nil); err != nil {
		return nil, fmt.Errorf("whisper process: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &backend.Output{Language: opts.Language}
	if out.Language == "" {
		out.Language = wctx.DetectedLanguage()
	}

	var texts []string
	for {
		seg, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read segment: %w", err)
		}
		out.Segments = append(out.Segments, backend.SegmentOutput{
			Start: seg.Start.Seconds(),
			End:   seg.End.Seconds(),
			Text:  seg.Text,
		})
		texts = append(texts, seg.Text)
	}
	out.Text = strings.Join(texts, " ")
	return out, nil
}

func (m *whisperModel) Close() error {
	return m.model.Close()
}
