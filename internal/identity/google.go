package identity

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// GoogleVerifier validates Google-issued ID tokens for a single OAuth
// client (the expected audience).
type GoogleVerifier struct {
	audience string
}

// NewGoogleVerifier constructs a verifier bound to the given client ID.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{audience: clientID}
}

// Verify validates signature, expiry, and audience of a Google ID token
// and extracts the email identity from its payload.
func (v *GoogleVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	payload, err := idtoken.Validate(ctx, rawToken, v.audience)
	if err != nil {
		return nil, fmt.Errorf("validate id token: %w", err)
	}
	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("id token missing email claim")
	}
	verified, _ := payload.Claims["email_verified"].(bool)
	return &Identity{Handle: email, EmailVerified: verified}, nil
}
