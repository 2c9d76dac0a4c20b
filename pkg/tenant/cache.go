package tenant

import (
	"time"

	"github.com/google/uuid"

	"github.com/meridianhq/platform/pkg/cache"
)

// DefaultCacheTTL is the upper bound on how long a cached tenant row may be
// served before the registry is consulted again. It is also the upper bound
// on how long a status change (e.g. suspension) takes to propagate across
// processes sharing the same database.
const DefaultCacheTTL = 30 * time.Second

// DefaultCacheSize is the default maximum number of tenants held per index.
const DefaultCacheSize = 2048

type cacheEntry struct {
	tenant    *Tenant
	expiresAt time.Time
}

// registryCache is a short-TTL in-process cache fronting the registry. It is
// indexed twice, by id and by slug, since both are valid lookup keys; a
// write invalidates both indexes for the affected tenant.
type registryCache struct {
	ttl    time.Duration
	byID   *cache.LRUCache[uuid.UUID, cacheEntry]
	bySlug *cache.LRUCache[string, cacheEntry]
}

func newRegistryCache(ttl time.Duration, size int) *registryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &registryCache{
		ttl:    ttl,
		byID:   cache.NewLRUCache[uuid.UUID, cacheEntry](size),
		bySlug: cache.NewLRUCache[string, cacheEntry](size),
	}
}

func (c *registryCache) getByID(id uuid.UUID) (*Tenant, bool) {
	entry, ok := c.byID.Get(id)
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.byID.Remove(id)
		return nil, false
	}
	return entry.tenant, true
}

func (c *registryCache) getBySlug(slug string) (*Tenant, bool) {
	entry, ok := c.bySlug.Get(slug)
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.bySlug.Remove(slug)
		return nil, false
	}
	return entry.tenant, true
}

// put indexes t under both of its keys with a fresh expiry.
func (c *registryCache) put(t *Tenant) {
	entry := cacheEntry{tenant: t, expiresAt: time.Now().Add(c.ttl)}
	c.byID.Put(t.ID, entry)
	c.bySlug.Put(t.Slug, entry)
}

// invalidate drops t from both indexes; called after any write so stale
// reads within this process cannot outlive the write that produced them.
func (c *registryCache) invalidate(t *Tenant) {
	c.byID.Remove(t.ID)
	c.bySlug.Remove(t.Slug)
}
