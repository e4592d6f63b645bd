package audio

import (
	"context"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	internalaudio "github.com/foxseedlab/kakitori/internal/audio"
)

const captureFrameSize = 1024

// PortAudioCapture streams the default input device as mono int16 frames. The
// stream stays open for the life of the client; frames outside a recording
// are dropped downstream.
type PortAudioCapture struct {
	sampleRate int

	mu      sync.Mutex
	stream  *portaudio.Stream
	started bool
}

func NewPortAudioCapture(sampleRate int) internalaudio.Capture {
	return &PortAudioCapture{sampleRate: sampleRate}
}

func (c *PortAudioCapture) Start(ctx context.Context, onFrame func(samples []int16)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return fmt.Errorf("capture already started")
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init failed: %w", err)
	}

	// The device owns the callback slice; copy before handing it off.
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(c.sampleRate), captureFrameSize, func(in []int16) {
		frame := make([]int16, len(in))
		copy(frame, in)
		onFrame(frame)
	})
	if err != nil {
		_ = portaudio.Terminate()
		return fmt.Errorf("open input stream failed: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return fmt.Errorf("start input stream failed: %w", err)
	}

	c.stream = stream
	c.started = true
	return nil
}

func (c *PortAudioCapture) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return nil
	}
	c.started = false

	err := c.stream.Stop()
	if cerr := c.stream.Close(); err == nil {
		err = cerr
	}
	if terr := portaudio.Terminate(); err == nil {
		err = terr
	}
	c.stream = nil
	return err
}
