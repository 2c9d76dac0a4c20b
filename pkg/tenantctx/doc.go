// Package tenantctx carries the ambient tenant context: the per-operation
// identity that every downstream call (queries, ETL, audit) trusts instead
// of re-deriving tenancy from a parameter.
//
// There is no process-global default. Current returns ErrMissingContext
// when nothing has been established; callers that treat a missing context
// as a programmer error may use MustCurrent instead. Run is the only way to
// install a scope — it returns a new context.Context carrying the value
// rather than mutating anything, so nested Run calls restore the prior
// scope automatically when the inner call returns.
package tenantctx
