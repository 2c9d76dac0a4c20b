package tenantctx

import "context"

// contextKey is a private type to prevent collisions with other packages'
// context keys.
type contextKey struct{}

// Run installs ctxValue as the current ambient context for the duration of
// work. The previous context, if any, is restored to the caller once work
// returns — nesting is supported because Run never mutates a shared
// location, it only derives a child context.Context that work receives.
func Run(ctx context.Context, ctxValue Context, work func(context.Context) error) error {
	return work(context.WithValue(ctx, contextKey{}, ctxValue))
}

// Has reports whether an ambient context has been established on ctx.
func Has(ctx context.Context) bool {
	_, ok := ctx.Value(contextKey{}).(Context)
	return ok
}

// Current retrieves the ambient context. It returns ErrMissingContext if
// none has been established — there is no "SYSTEM" default, ever.
func Current(ctx context.Context) (Context, error) {
	val, ok := ctx.Value(contextKey{}).(Context)
	if !ok {
		return Context{}, ErrMissingContext
	}
	return val, nil
}

// MustCurrent retrieves the ambient context and panics if none is set. Use
// only at call sites where a missing context is unambiguously a programmer
// error that should never reach production (e.g. inside code that Run
// itself just invoked).
func MustCurrent(ctx context.Context) Context {
	val, err := Current(ctx)
	if err != nil {
		panic(err)
	}
	return val
}
