package transcriber

import (
	"time"

	"github.com/samber/do/v2"

	"github.com/foxseedlab/kakitori/internal/config"
	"github.com/foxseedlab/kakitori/internal/transcriber"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (transcriber.Client, error) {
		cfg := do.MustInvoke[*config.ClientConfig](i)
		return NewHTTPClient(cfg.ServiceURL, time.Duration(cfg.RequestTimeoutSec)*time.Second), nil
	})
}
