package useragent

import "context"

type contextKey struct{}

// SetToContext stores a parsed UserAgent for later retrieval via
// FromContext, mirroring the sibling fingerprint package's context helpers.
func SetToContext(ctx context.Context, ua UserAgent) context.Context {
	return context.WithValue(ctx, contextKey{}, ua)
}

// FromContext returns the UserAgent stored by Middleware, or the zero
// value if none was parsed.
func FromContext(ctx context.Context) UserAgent {
	ua, _ := ctx.Value(contextKey{}).(UserAgent)
	return ua
}
