package folder

import "context"

// Opener reveals a directory to the user.
type Opener interface {
	Open(ctx context.Context, dir string) error
}
