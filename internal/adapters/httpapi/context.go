package httpapi

import (
	"context"

	"github.com/reelboard/movie-blog-api/internal/platform/auth/tokens"
)

type claimsKey struct{}

func WithClaims(ctx context.Context, c tokens.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

func ClaimsFromContext(ctx context.Context) (tokens.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(tokens.Claims)
	return c, ok && c.Subject != ""
}
