// Package identity defines the contract for federated identity
// verification and its Google implementation.
package identity

import (
	"context"
	"errors"
)

// Identity is a confirmed third-party identity assertion. Handle is the
// account handle the provider vouches for (the verified email address).
type Identity struct {
	Handle        string
	EmailVerified bool
}

// Verifier validates an opaque provider-issued assertion against an
// expected audience. The authentication layer trusts the result only
// when EmailVerified is true.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}

// Disabled rejects every assertion. Used when no provider is configured,
// so a missing client ID can never degrade into accepting tokens.
type Disabled struct{}

// Verify always fails.
func (Disabled) Verify(context.Context, string) (*Identity, error) {
	return nil, errors.New("federated login is not configured")
}
