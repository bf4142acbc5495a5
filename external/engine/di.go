package engine

import (
	"github.com/foxseedlab/rokuon/internal/config"
	"github.com/foxseedlab/rokuon/internal/engine"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Bridge, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewBridge(cfg.EngineURL), nil
	})
	do.Provide(injector, func(i do.Injector) (engine.Adapter, error) {
		return do.MustInvoke[*Bridge](i), nil
	})
}
