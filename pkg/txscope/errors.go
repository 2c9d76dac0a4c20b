package txscope

import "errors"

var (
	// ErrMissingContext is returned when no ambient tenantctx.Context is set.
	// This is always a programming error — the executor refuses to open a
	// connection rather than fall back to any default schema.
	ErrMissingContext = errors.New("txscope: no ambient tenant context")

	// ErrInvalidSchemaName is returned when the ambient context's schema
	// name does not match the tenant schema pattern or "public". It is the
	// sole defense against schema injection via SET LOCAL search_path.
	ErrInvalidSchemaName = errors.New("txscope: invalid schema name")
)
