package authcontext

import "context"

// Token identifies the authenticated API token for a request. It is threaded
// explicitly through the request context rather than read from ambient state.
type Token struct {
	ID   int64
	Name string
}

type tokenKey struct{}

// WithToken stores the authenticated token identity in the context.
func WithToken(ctx context.Context, token Token) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the authenticated token identity, if set.
func TokenFromContext(ctx context.Context) (Token, bool) {
	if ctx == nil {
		return Token{}, false
	}
	token, ok := ctx.Value(tokenKey{}).(Token)
	return token, ok
}
