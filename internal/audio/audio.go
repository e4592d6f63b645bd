package audio

import "context"

// Codec encodes and decodes mono 16-bit PCM WAV files. EncodeFile followed by
// DecodeFile must reproduce the samples bit for bit.
type Codec interface {
	EncodeFile(path string, samples []int16, sampleRate int) error
	DecodeFile(path string) (samples []int16, sampleRate int, err error)
}

// Capture is a microphone input stream. The implementation invokes onFrame at
// device cadence with a frame it no longer references afterwards.
type Capture interface {
	Start(ctx context.Context, onFrame func(samples []int16)) error
	Stop() error
}
