package audio

import (
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	internalaudio "github.com/foxseedlab/kakitori/internal/audio"
)

const wavBitDepth = 16

// GoAudioCodec reads and writes mono 16-bit PCM WAV files.
type GoAudioCodec struct{}

func NewGoAudioCodec() internalaudio.Codec {
	return &GoAudioCodec{}
}

func (c *GoAudioCodec) EncodeFile(path string, samples []int16, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav file: %w", err)
	}

	enc := wav.NewEncoder(f, sampleRate, wavBitDepth, 1, 1)
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: wavBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		_ = enc.Close()
		_ = f.Close()
		return fmt.Errorf("write wav data: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("close wav encoder: %w", err)
	}
	return f.Close()
}

func (c *GoAudioCodec) DecodeFile(path string) ([]int16, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open wav file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode wav data: %w", err)
	}
	if dec.NumChans != 1 {
		return nil, 0, fmt.Errorf("expected mono audio, got %d channels", dec.NumChans)
	}
	if dec.BitDepth != wavBitDepth {
		return nil, 0, fmt.Errorf("expected %d-bit samples, got %d", wavBitDepth, dec.BitDepth)
	}

	samples := make([]int16, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = int16(s)
	}
	return samples, int(dec.SampleRate), nil
}
