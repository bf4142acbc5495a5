package uisurface

import (
	"context"

	"github.com/foxseedlab/rokuon/internal/lifecycle"
)

// Surface is the channel to the single UI client. It is untrusted: inbound
// traffic is filtered to Command values and outbound traffic is limited to
// state snapshots.
type Surface interface {
	Publish(state lifecycle.State)
	OnCommand(handler func(Command))
	// OnReady is called each time a UI client attaches and can render state.
	OnReady(handler func())
	Serve(ctx context.Context) error
}
