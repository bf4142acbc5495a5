package uploadtoken

import (
	"context"
	"fmt"
)

// Provider exchanges the stored API credential for a one-time upload token.
type Provider interface {
	CreateUploadToken(ctx context.Context) (string, error)
}

// AuthorizationError is the single failure type of a Provider: network
// errors, timeouts, non-2xx statuses and responses without a token all
// surface as one of these.
type AuthorizationError struct {
	Reason string
	Err    error
}

func (e *AuthorizationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upload authorization failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("upload authorization failed: %s", e.Reason)
}

func (e *AuthorizationError) Unwrap() error {
	return e.Err
}
