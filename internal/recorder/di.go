package recorder

import (
	"github.com/samber/do/v2"

	"github.com/foxseedlab/kakitori/internal/audio"
	"github.com/foxseedlab/kakitori/internal/config"
	"github.com/foxseedlab/kakitori/internal/injector"
	"github.com/foxseedlab/kakitori/internal/transcriber"
)

func RegisterDI(di do.Injector) {
	do.Provide(di, func(i do.Injector) (*Controller, error) {
		cfg := do.MustInvoke[*config.ClientConfig](i)
		codec := do.MustInvoke[audio.Codec](i)
		client := do.MustInvoke[transcriber.Client](i)
		inj := do.MustInvoke[injector.Injector](i)
		return NewController(cfg, codec, client, inj), nil
	})
}
