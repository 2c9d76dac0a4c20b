// Package identity is the request-entry identity resolver. It classifies
// the route, decodes the bearer credential, verifies it against the correct
// signing key (platform key for lobby tokens, the tenant's own secret for
// tenant tokens), re-resolves tenant and role from the directory, and
// produces the ambient tenantctx.Context that every downstream call trusts.
//
// No handler ever re-derives tenancy from a header or claim directly —
// Resolve is the only place that happens, and its output is installed via
// tenantctx.Run before a handler runs.
package identity
