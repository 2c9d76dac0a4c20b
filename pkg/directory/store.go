package directory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridianhq/platform/pkg/identity"
	"github.com/meridianhq/platform/pkg/pg"
	"github.com/meridianhq/platform/pkg/tenantctx"
)

// Store is the Postgres-backed user directory.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore builds a Store over an existing connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const userColumns = `id, email, password_hash, full_name, tenant_id, schema_name, role, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	var tenantID *uuid.UUID
	var role *string
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &tenantID, &u.SchemaName, &role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("directory: scan row: %w", err)
	}
	u.TenantID = tenantID
	if role != nil {
		u.Role = tenantctx.Role(*role)
	}
	return &u, nil
}

// FindByID looks up a user by id.
func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM public.users WHERE id = $1`, id)
	return scanUser(row)
}

// FindByEmail looks up a user by email, case-sensitively as stored; callers
// are expected to normalize casing before calling.
func (s *Store) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM public.users WHERE email = $1`, email)
	return scanUser(row)
}

// Create inserts a lobby user (TenantID nil, Role empty). Email uniqueness
// for a lobby user is enforced by the partial index covering tenant_id IS
// NULL rows only, so this never collides with an email already taken
// inside some other tenant's schema-scoped user set.
func (s *Store) Create(ctx context.Context, email, passwordHash, fullName string) (*User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO public.users (id, email, password_hash, full_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING `+userColumns,
		uuid.New(), email, passwordHash, fullName,
	)
	u, err := scanUser(row)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %s", ErrEmailTaken, email)
		}
		return nil, err
	}
	return u, nil
}

// UpdatePasswordHash overwrites a user's stored password hash, e.g. after a
// successful password-reset confirmation.
func (s *Store) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE public.users SET password_hash = $2, updated_at = now() WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("directory: update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// FindUnprovisionedTx loads a user by id within tx and asserts it has not
// already been attached to a tenant (provisioning step 1).
func (s *Store) FindUnprovisionedTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*User, error) {
	row := tx.QueryRow(ctx, `SELECT `+userColumns+` FROM public.users WHERE id = $1 FOR UPDATE`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, err
	}
	if u.IsProvisioned() {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyProvisioned, id)
	}
	return u, nil
}

// AttachTenant sets a user's tenant binding and elevates it to ADMIN,
// guarded by a conditional update so a concurrent provisioning attempt on
// the same user cannot silently overwrite the first one's tenant link.
// Run inside the same transaction that inserts the tenant row.
func (s *Store) AttachTenant(ctx context.Context, tx pgx.Tx, userID, tenantID uuid.UUID, schemaName string) error {
	tag, err := tx.Exec(ctx, `
		UPDATE public.users
		SET tenant_id = $2, schema_name = $3, role = $4, updated_at = now()
		WHERE id = $1 AND tenant_id IS NULL`,
		userID, tenantID, schemaName, tenantctx.RoleAdmin,
	)
	if err != nil {
		return fmt.Errorf("directory: attach tenant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrAlreadyProvisioned, userID)
	}
	return nil
}

// LookupUser satisfies identity.Directory: the current tenant/role facts
// for an authenticated subject, re-read fresh on every request.
func (s *Store) LookupUser(ctx context.Context, userID string) (identity.DirectoryUser, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return identity.DirectoryUser{}, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}

	u, err := s.FindByID(ctx, id)
	if err != nil {
		return identity.DirectoryUser{}, err
	}

	du := identity.DirectoryUser{Role: u.Role}
	if u.TenantID != nil {
		du.TenantID = u.TenantID.String()
		du.SchemaName = u.SchemaName
	}
	return du, nil
}
