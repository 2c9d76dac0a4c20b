package tenant

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridianhq/platform/pkg/pg"
)

// schemaNamePattern is the sole defense against schema injection: any value
// interpolated into SET search_path must match this literal pattern or be
// the string "public".
var schemaNamePattern = regexp.MustCompile(`^tenant_[a-z0-9_]+_[a-z0-9]+$`)

// ValidSchemaName reports whether name is either "public" or matches the
// tenant schema naming convention.
func ValidSchemaName(name string) bool {
	return name == "public" || schemaNamePattern.MatchString(name)
}

// Postgres roles the connection pool's physical connections switch into via
// SET LOCAL ROLE, one per least-privilege tier. internal/db/migrations
// creates and grants these; pkg/txscope selects one per transaction based
// on the caller's tenantctx.Role, and pkg/provisioning grants each of them
// the matching privileges on every schema it creates.
const (
	TenantRole    = "tenant_role"
	ReadOnlyRole  = "readonly_role"
	MigrationRole = "migration_role"
	JobRole       = "job_role"
)

// Registry is the durable, Postgres-backed catalog of tenants. It never
// returns a decrypted secret; callers unwrap EncryptedSecret themselves via
// pkg/envelope. Reads are fronted by a short-TTL cache which is invalidated
// on every write performed through this instance.
type Registry struct {
	pool  *pgxpool.Pool
	cache *registryCache
}

// RegistryOption configures a Registry at construction time.
type RegistryOption func(*Registry)

// WithCacheTTL overrides the default cache TTL. Per the registry contract
// this must stay at or below one minute.
func WithCacheTTL(ttl time.Duration) RegistryOption {
	return func(r *Registry) {
		r.cache.ttl = ttl
	}
}

// WithCacheSize overrides the default per-index cache capacity.
func WithCacheSize(size int) RegistryOption {
	return func(r *Registry) {
		r.cache = newRegistryCache(r.cache.ttl, size)
	}
}

// NewRegistry builds a Registry over an existing connection pool.
func NewRegistry(pool *pgxpool.Pool, opts ...RegistryOption) *Registry {
	r := &Registry{
		pool:  pool,
		cache: newRegistryCache(DefaultCacheTTL, DefaultCacheSize),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

const tenantColumns = `id, name, slug, schema_name, encrypted_secret, status, created_at, updated_at`

func scanTenant(row pgx.Row) (*Tenant, error) {
	var t Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.SchemaName, &t.EncryptedSecret, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("tenant: scan row: %w", err)
	}
	return &t, nil
}

// FindByID looks up a tenant by id, consulting the cache first.
func (r *Registry) FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	if t, ok := r.cache.getByID(id); ok {
		return t, nil
	}

	row := r.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM public.tenants WHERE id = $1`, id)
	t, err := scanTenant(row)
	if err != nil {
		return nil, err
	}
	r.cache.put(t)
	return t, nil
}

// FindBySlug looks up a tenant by its url-safe slug, consulting the cache first.
func (r *Registry) FindBySlug(ctx context.Context, slug string) (*Tenant, error) {
	if t, ok := r.cache.getBySlug(slug); ok {
		return t, nil
	}

	row := r.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM public.tenants WHERE slug = $1`, slug)
	t, err := scanTenant(row)
	if err != nil {
		return nil, err
	}
	r.cache.put(t)
	return t, nil
}

// rowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, letting writes
// run either standalone or inside a caller-owned transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CreateTenantRow inserts a new tenant row with status=active. schemaName
// must already be validated by the caller (the provisioning coordinator owns
// slug/schema derivation); this method only enforces the storage-level
// invariant that the pattern holds.
func (r *Registry) CreateTenantRow(ctx context.Context, name, slug, schemaName, encryptedSecret string) (*Tenant, error) {
	return r.createTenantRow(ctx, r.pool, name, slug, schemaName, encryptedSecret)
}

// CreateTenantRowTx is CreateTenantRow run against an existing transaction,
// for provisioning's atomic tenant-row-insert + schema-create + owner-update
// sequence. The cache is still populated on success since the insert is
// only visible to other readers after the caller commits.
func (r *Registry) CreateTenantRowTx(ctx context.Context, tx pgx.Tx, name, slug, schemaName, encryptedSecret string) (*Tenant, error) {
	return r.createTenantRow(ctx, tx, name, slug, schemaName, encryptedSecret)
}

func (r *Registry) createTenantRow(ctx context.Context, q rowQuerier, name, slug, schemaName, encryptedSecret string) (*Tenant, error) {
	if !ValidSchemaName(schemaName) || schemaName == "public" {
		return nil, ErrInvalidSchemaName
	}

	row := q.QueryRow(ctx, `
		INSERT INTO public.tenants (id, name, slug, schema_name, encrypted_secret, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING `+tenantColumns,
		uuid.New(), name, slug, schemaName, encryptedSecret, StatusActive,
	)

	t, err := scanTenant(row)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %s", ErrSlugTaken, slug)
		}
		return nil, err
	}
	r.cache.put(t)
	return t, nil
}

// UpdateStatus transitions a tenant's status, enforcing the tenant lifecycle
// state machine. The write invalidates this process's cache entry for the
// tenant immediately; other processes converge within one cache TTL.
func (r *Registry) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus Status) (*Tenant, error) {
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == newStatus {
		return current, nil
	}
	if !validStatusTransition(current.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, current.Status, newStatus)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE public.tenants SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+tenantColumns,
		id, newStatus,
	)
	t, err := scanTenant(row)
	if err != nil {
		return nil, err
	}
	r.cache.invalidate(current)
	r.cache.put(t)
	return t, nil
}

// Delete marks a tenant as deleted (terminal state); it does not drop the
// tenant's schema, which remains the provisioning coordinator's concern for
// any future data-retention workflow.
func (r *Registry) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.UpdateStatus(ctx, id, StatusDeleted)
	return err
}
