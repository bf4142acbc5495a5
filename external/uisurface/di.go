package uisurface

import (
	"github.com/foxseedlab/rokuon/internal/config"
	"github.com/foxseedlab/rokuon/internal/uisurface"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewServer(cfg.UIListenAddr, cfg.UIAllowedOrigins), nil
	})
	do.Provide(injector, func(i do.Injector) (uisurface.Surface, error) {
		return do.MustInvoke[*Server](i), nil
	})
}
