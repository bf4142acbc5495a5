package host

import (
	"github.com/foxseedlab/rokuon/internal/config"
	"github.com/foxseedlab/rokuon/internal/engine"
	"github.com/foxseedlab/rokuon/internal/folder"
	"github.com/foxseedlab/rokuon/internal/notify"
	"github.com/foxseedlab/rokuon/internal/repository"
	"github.com/foxseedlab/rokuon/internal/uisurface"
	"github.com/foxseedlab/rokuon/internal/uploadtoken"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Manager, error) {
		cfg := do.MustInvoke[*config.Config](i)
		adapter := do.MustInvoke[engine.Adapter](i)
		tokens := do.MustInvoke[uploadtoken.Provider](i)
		notifier := do.MustInvoke[notify.Notifier](i)
		surface := do.MustInvoke[uisurface.Surface](i)
		opener := do.MustInvoke[folder.Opener](i)
		repo := do.MustInvoke[repository.Repository](i)
		return NewManager(cfg, adapter, tokens, notifier, surface, opener, repo), nil
	})
}
