package service

import (
	"github.com/samber/do/v2"

	"github.com/foxseedlab/kakitori/internal/backend"
	"github.com/foxseedlab/kakitori/internal/config"
	"github.com/foxseedlab/kakitori/internal/modelcache"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*modelcache.Cache, error) {
		b := do.MustInvoke[backend.Backend](i)
		return modelcache.New(b), nil
	})
	do.Provide(injector, func(i do.Injector) (*Service, error) {
		cfg := do.MustInvoke[*config.ServerConfig](i)
		cache := do.MustInvoke[*modelcache.Cache](i)
		return New(cache, cfg.TempDir), nil
	})
}
