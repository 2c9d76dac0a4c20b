// Package directory is the global, public-schema user store. It backs
// pkg/identity's Directory abstraction (re-resolving a subject's current
// tenant binding and role on every request) and pkg/provisioning's owner
// lookup and tenant-attachment steps.
//
// A user row starts in the lobby (TenantID nil, SchemaName empty, Role
// empty) and is attached to exactly one tenant, once, by provisioning.
// SchemaName is denormalized onto the row at attachment time rather than
// joined from public.tenants on every lookup, since identity resolution
// runs on the hot path of every request.
package directory
