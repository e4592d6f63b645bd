package backend

import (
	"github.com/samber/do/v2"

	"github.com/foxseedlab/kakitori/internal/audio"
	"github.com/foxseedlab/kakitori/internal/backend"
	"github.com/foxseedlab/kakitori/internal/config"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (backend.Backend, error) {
		cfg := do.MustInvoke[*config.ServerConfig](i)
		codec := do.MustInvoke[audio.Codec](i)
		return NewWhisperCppBackend(cfg.ModelsDir, codec), nil
	})
}
