package folder

import (
	"github.com/foxseedlab/rokuon/internal/folder"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (folder.Opener, error) {
		return NewOSOpener(), nil
	})
}
