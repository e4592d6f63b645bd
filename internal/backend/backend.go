package backend

import "context"

// Options tunes a single transcription. An empty Language means the backend
// detects the language itself; an empty Prompt passes no initial prompt.
type Options struct {
	Language string
	Prompt   string
}

// SegmentOutput is one timed transcript piece, offsets in seconds.
type SegmentOutput struct {
	Start float64
	End   float64
	Text  string
}

// Output is the raw backend result before display normalization.
type Output struct {
	Text     string
	Language string
	Segments []SegmentOutput
}

// Model is a loaded transcription model instance.
type Model interface {
	Transcribe(ctx context.Context, audioPath string, opts Options) (*Output, error)
	Close() error
}

// Backend loads transcription models by name. LoadModel is expensive and may
// take seconds.
type Backend interface {
	LoadModel(ctx context.Context, name string) (Model, error)
}
