// Package txscope is the tenant-scoped query executor: the single allowed
// point of contact between business code and the SQL database.
//
// WithTransaction reads the ambient tenantctx.Context, validates its schema
// name against the literal pattern that is this module's sole defense
// against schema injection, and binds the transaction to that schema for
// its lifetime only via SET LOCAL — connection pool entries are never
// sticky to a tenant. A row-level-security session variable is set
// alongside the schema so database policies can enforce isolation even if
// application code forgets to filter by tenant.
//
// Deadlocks and serialization failures are retried transparently up to a
// small fixed number of attempts; every other failure rolls back and
// propagates immediately.
package txscope
