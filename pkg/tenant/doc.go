// Package tenant is the durable tenant registry: the authority over tenant
// existence, slug/schema assignment, and lifecycle status.
//
// Registry is read on nearly every request, so lookups are fronted by a
// short-TTL in-process cache (see cache.go) built on pkg/cache.LRUCache.
// Writes through a Registry instance invalidate its own cache immediately;
// other processes converge within one cache TTL, which is the accepted
// upper bound for propagating a suspension.
//
// The registry never decrypts a tenant's signing secret — EncryptedSecret
// is an opaque envelope-sealed blob; callers unwrap it via pkg/envelope.
// Status transitions are validated against the lifecycle state machine in
// statemachine.go: active and suspended transition into each other freely,
// either can move to deleted, and deleted is terminal.
package tenant
