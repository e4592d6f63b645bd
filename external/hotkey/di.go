package hotkey

import (
	"os"

	"github.com/samber/do/v2"

	"github.com/foxseedlab/kakitori/internal/config"
	"github.com/foxseedlab/kakitori/internal/hotkey"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (hotkey.Source, error) {
		cfg := do.MustInvoke[*config.ClientConfig](i)
		bindings, err := hotkey.ParseLanguageBindings(cfg.LanguageHotkeys)
		if err != nil {
			return nil, err
		}
		return NewConsoleSource(os.Stdin, bindings), nil
	})
}
