package audio

import (
	"github.com/samber/do/v2"

	"github.com/foxseedlab/kakitori/internal/audio"
	"github.com/foxseedlab/kakitori/internal/config"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (audio.Codec, error) {
		return NewGoAudioCodec(), nil
	})
}

// RegisterCaptureDI wires the microphone stream; only the client binary needs
// it.
func RegisterCaptureDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (audio.Capture, error) {
		cfg := do.MustInvoke[*config.ClientConfig](i)
		return NewPortAudioCapture(cfg.SampleRate), nil
	})
}
