package httpserver

import (
	"context"

	"github.com/eventboard/eventboard/internal/token"
)

type ctxKey string

const claimsKey ctxKey = "eb.claims"

// WithClaims stores verified identity claims in the request context.
func WithClaims(ctx context.Context, c *token.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFromCtx fetches verified identity claims from the context.
func ClaimsFromCtx(ctx context.Context) (*token.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*token.Claims)
	return c, ok && c != nil
}
