package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/foxseedlab/kakitori/internal/audio"
	"github.com/foxseedlab/kakitori/internal/config"
	"github.com/foxseedlab/kakitori/internal/injector"
	"github.com/foxseedlab/kakitori/internal/transcriber"
)

// State represents the controller state.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateFinalizing
)

// ErrBusy is returned for a toggle received while a previous stop sequence is
// still encoding or uploading. The toggle is rejected, never queued.
var ErrBusy = errors.New("recorder busy finalizing previous take")

// Controller is the two-state recording machine driving the dictation
// pipeline. Toggle flips Idle/Recording; the stop transition synchronously
// encodes the take, uploads it and injects the recognized text.
type Controller struct {
	cfg      *config.ClientConfig
	buffer   *audio.Buffer
	codec    audio.Codec
	client   transcriber.Client
	injector injector.Injector

	mu       sync.Mutex
	state    State
	language string
}

func NewController(cfg *config.ClientConfig, codec audio.Codec, client transcriber.Client, inj injector.Injector) *Controller {
	return &Controller{
		cfg:      cfg,
		buffer:   audio.NewBuffer(),
		codec:    codec,
		client:   client,
		injector: inj,
		language: cfg.Language,
	}
}

// OnFrame is the capture callback target. Frames arriving outside a recording
// are dropped by the buffer.
func (c *Controller) OnFrame(samples []int16) {
	c.buffer.Append(samples)
}

// SetLanguage switches the language sent with subsequent takes.
func (c *Controller) SetLanguage(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.language = code
	slog.Info("transcription language switched", "language", code)
}

// State returns the current controller state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Toggle starts a recording when idle and finalizes it when recording. The
// finalize sequence runs on the caller and blocks until the service responds
// or fails; a toggle during that window returns ErrBusy.
func (c *Controller) Toggle(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateFinalizing:
		c.mu.Unlock()
		return ErrBusy
	case StateIdle:
		c.state = StateRecording
		c.mu.Unlock()
		c.buffer.Open()
		slog.Info("recording started")
		return nil
	}
	c.state = StateFinalizing
	language := c.language
	c.mu.Unlock()

	c.buffer.Close()
	slog.Info("recording stopped")

	err := c.finalize(ctx, language)

	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()
	return err
}

func (c *Controller) finalize(ctx context.Context, language string) error {
	samples := c.buffer.Drain()
	if len(samples) == 0 {
		slog.Info("empty take; nothing to transcribe")
		return nil
	}

	wavPath := c.tempWavPath()
	if err := c.codec.EncodeFile(wavPath, samples, c.cfg.SampleRate); err != nil {
		_ = os.Remove(wavPath)
		return fmt.Errorf("encode take: %w", err)
	}

	res, err := c.client.Transcribe(ctx, transcriber.Request{
		WAVPath:  wavPath,
		Language: language,
		Model:    c.cfg.Model,
		Prompt:   c.cfg.Prompt,
	})
	if err != nil {
		return err
	}
	if res.Text == "" {
		slog.Info("service returned empty transcript")
		return nil
	}

	if err := c.injector.Deliver(res.Text); err != nil {
		return fmt.Errorf("deliver text: %w", err)
	}
	slog.Info("transcript delivered", "language", res.Language, "chars", len(res.Text))
	return nil
}

func (c *Controller) tempWavPath() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	dir := c.cfg.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, fmt.Sprintf("kakitori_%s.wav", id))
}
