package txscope

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridianhq/platform/pkg/pg"
	"github.com/meridianhq/platform/pkg/tenant"
	"github.com/meridianhq/platform/pkg/tenantctx"
)

// rollbackGracePeriod bounds how long a canceled transaction's rollback may
// take to release its connection back to the pool.
const rollbackGracePeriod = 5 * time.Second

// Executor is the tenant-scoped query executor. It is the single allowed
// point of contact between business code and the SQL database.
type Executor struct {
	pool *pgxpool.Pool
}

// NewExecutor builds an Executor over an existing connection pool.
func NewExecutor(pool *pgxpool.Pool) *Executor {
	return &Executor{pool: pool}
}

// WithTransaction acquires a connection, opens a transaction, binds it to
// the ambient context's schema for the lifetime of this transaction only,
// invokes work, commits on return and rolls back on error. Deadlocks and
// serialization failures are retried transparently.
func (e *Executor) WithTransaction(ctx context.Context, work func(ctx context.Context, tx pgx.Tx) error) error {
	return e.runRetryable(ctx, func() error {
		tctx, err := tenantctx.Current(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMissingContext, err)
		}
		return e.withSchema(ctx, tctx, work)
	})
}

// ExecuteTenant runs a single statement inside WithTransaction.
func (e *Executor) ExecuteTenant(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	var tag pgconn.CommandTag
	err := e.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var execErr error
		tag, execErr = tx.Exec(ctx, sql, args...)
		return execErr
	})
	return tag, err
}

// ExecutePublic forces schemaName=public regardless of the ambient
// context's tenant binding, for registry and audit-log access.
func (e *Executor) ExecutePublic(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tctx, err := tenantctx.Current(ctx)
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("%w: %v", ErrMissingContext, err)
	}
	tctx.TenantID = nil
	tctx.SchemaName = "public"

	var tag pgconn.CommandTag
	runErr := e.runRetryable(ctx, func() error {
		return e.withSchema(ctx, tctx, func(ctx context.Context, tx pgx.Tx) error {
			var execErr error
			tag, execErr = tx.Exec(ctx, sql, args...)
			return execErr
		})
	})
	return tag, runErr
}

// WithPublicTransaction runs work inside a transaction forced to the public
// schema regardless of the ambient context's tenant binding, for
// provisioning's multi-statement registry writes.
func (e *Executor) WithPublicTransaction(ctx context.Context, work func(ctx context.Context, tx pgx.Tx) error) error {
	return e.runRetryable(ctx, func() error {
		tctx := tenantctx.Context{SchemaName: "public"}
		if current, err := tenantctx.Current(ctx); err == nil {
			tctx.Role = current.Role
			tctx.RequestID = current.RequestID
		}
		return e.withSchema(ctx, tctx, work)
	})
}

// GetRawRunner is the escape hatch for provisioning, which must create a
// schema and run migrations before any tenant schema binding is possible.
// The caller owns releasing the connection.
func (e *Executor) GetRawRunner(ctx context.Context) (*pgxpool.Conn, error) {
	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("txscope: acquire raw connection: %w", err)
	}
	return conn, nil
}

func (e *Executor) withSchema(ctx context.Context, tctx tenantctx.Context, work func(context.Context, pgx.Tx) error) error {
	if !tenant.ValidSchemaName(tctx.SchemaName) {
		return fmt.Errorf("%w: %q", ErrInvalidSchemaName, tctx.SchemaName)
	}

	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("txscope: acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("txscope: begin transaction: %w", err)
	}

	if err := bindSchema(ctx, tx, tctx); err != nil {
		rollback(tx)
		return err
	}

	if err := work(ctx, tx); err != nil {
		rollback(tx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("txscope: commit: %w", err)
	}
	return nil
}

// bindSchema sets search_path, the app.tenant_id RLS variable, and the
// connection's effective role for the lifetime of this transaction only
// (SET LOCAL). search_path cannot take a bind parameter since it is an
// identifier list, not a string literal — tenant.ValidSchemaName having
// already rejected anything but the pattern is the sole defense against
// schema injection here. app.tenant_id carries an arbitrary string and is
// set through set_config so it is bound as data. The connection role is
// drawn from a fixed, code-controlled mapping (connectionRoleFor), never
// from caller input, so interpolating it directly carries no injection
// risk the way an arbitrary identifier would.
func bindSchema(ctx context.Context, tx pgx.Tx, tctx tenantctx.Context) error {
	searchPathSQL := fmt.Sprintf("SET LOCAL search_path TO %s, public", tctx.SchemaName)
	if _, err := tx.Exec(ctx, searchPathSQL); err != nil {
		return fmt.Errorf("txscope: bind schema: %w", err)
	}
	if _, err := tx.Exec(ctx, "SELECT set_config('app.tenant_id', $1, true)", rlsValue(tctx)); err != nil {
		return fmt.Errorf("txscope: set rls variable: %w", err)
	}
	roleSQL := fmt.Sprintf("SET LOCAL ROLE %s", connectionRoleFor(tctx.Role))
	if _, err := tx.Exec(ctx, roleSQL); err != nil {
		return fmt.Errorf("txscope: set connection role: %w", err)
	}
	return nil
}

// connectionRoleFor maps a tenantctx.Role to the least-privileged database
// role allowed for it (tenant.TenantRole/ReadOnlyRole/MigrationRole/JobRole):
// SYSTEM_READONLY gets a role with SELECT-only grants, SYSTEM_MIGRATION the
// role allowed to run DDL, SYSTEM_JOB the role background workers run
// under, and every end-user business role (ADMIN, MANAGER, ANALYST, STAFF)
// the one tenant role with full read/write access to its own schema.
func connectionRoleFor(role tenantctx.Role) string {
	switch role {
	case tenantctx.RoleSystemReadonly:
		return tenant.ReadOnlyRole
	case tenantctx.RoleSystemMigration:
		return tenant.MigrationRole
	case tenantctx.RoleSystemJob:
		return tenant.JobRole
	default:
		return tenant.TenantRole
	}
}

// rlsValue is either the tenant id, one of the synthetic system role names,
// or PUBLIC_ACCESS for lobby work with no tenant and no system role.
func rlsValue(tctx tenantctx.Context) string {
	switch {
	case tctx.HasTenant():
		return tctx.TenantID.String()
	case tctx.IsSystem():
		return string(tctx.Role)
	default:
		return "PUBLIC_ACCESS"
	}
}

func rollback(tx pgx.Tx) {
	rbCtx, cancel := context.WithTimeout(context.Background(), rollbackGracePeriod)
	defer cancel()
	_ = tx.Rollback(rbCtx)
}

// runRetryable runs fn up to maxRetryAttempts times in total, retrying with
// exponential backoff only after a deadlock or serialization failure; any
// other error, or a canceled ctx, stops retrying immediately.
func (e *Executor) runRetryable(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxRetryAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !pg.IsRetryableError(err) {
			return err
		}
		lastErr = err
		if attempt == maxRetryAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(defaultRetryBackoff.interval(attempt)):
		}
	}
	return lastErr
}
