package uploadtoken

import (
	"github.com/foxseedlab/rokuon/internal/config"
	"github.com/foxseedlab/rokuon/internal/uploadtoken"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (uploadtoken.Provider, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewHTTPProvider(c.UploadAuthURL, c.APIKey), nil
	})
}
