package httpserver

import (
	"github.com/samber/do/v2"

	"github.com/foxseedlab/kakitori/internal/config"
	"github.com/foxseedlab/kakitori/internal/service"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Server, error) {
		cfg := do.MustInvoke[*config.ServerConfig](i)
		svc := do.MustInvoke[*service.Service](i)
		return New(cfg, svc), nil
	})
}
