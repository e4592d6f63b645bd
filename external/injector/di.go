package injector

import (
	"github.com/samber/do/v2"

	"github.com/foxseedlab/kakitori/internal/config"
	"github.com/foxseedlab/kakitori/internal/injector"
)

func RegisterDI(di do.Injector) {
	do.Provide(di, func(i do.Injector) (injector.Injector, error) {
		cfg := do.MustInvoke[*config.ClientConfig](i)
		clip := NewClipboardInjector()
		if cfg.Delivery == config.DeliveryType {
			return NewTypeInjector(clip), nil
		}
		return clip, nil
	})
}
