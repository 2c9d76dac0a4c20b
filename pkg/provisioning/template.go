package provisioning

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridianhq/platform/pkg/tenant"
)

// tenantSchemaTemplate creates the business tables every tenant schema
// starts with. It runs once, directly after the registry transaction
// commits, against a single raw connection with search_path bound to the
// new schema (pool connections are never sticky to a schema otherwise), per
// spec.md §4.6 step 8.
const tenantSchemaTemplate = `
CREATE TABLE IF NOT EXISTS invoices (
	id             uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	external_id    text NOT NULL,
	customer_name  text NOT NULL,
	invoice_number text NOT NULL,
	amount         numeric(14,2) NOT NULL,
	status         text NOT NULL DEFAULT 'pending',
	currency       text NOT NULL DEFAULT 'USD',
	due_date       date,
	metadata       jsonb NOT NULL DEFAULT '{}'::jsonb,
	is_encrypted   boolean NOT NULL DEFAULT true,
	created_at     timestamptz NOT NULL DEFAULT now(),
	updated_at     timestamptz NOT NULL DEFAULT now(),
	UNIQUE (external_id)
);

CREATE TABLE IF NOT EXISTS quarantine_records (
	id          uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	source_type text NOT NULL,
	raw_data    jsonb NOT NULL,
	errors      jsonb NOT NULL,
	status      text NOT NULL DEFAULT 'pending',
	created_at  timestamptz NOT NULL DEFAULT now()
);
`

// tenantSchemaGrants grants each of the least-privilege connection roles
// (internal/db/migrations/00004_connection_roles.sql) its standing
// privileges on a freshly created tenant schema: tenant_role and job_role
// get ordinary read/write, readonly_role gets SELECT only, and
// migration_role gets everything, matching spec.md §4.5 step 5's
// SYSTEM_READONLY/SYSTEM_MIGRATION/SYSTEM_JOB/end-user role split.
func tenantSchemaGrants(schemaName string) string {
	return fmt.Sprintf(`
GRANT USAGE ON SCHEMA %[1]s TO %[2]s, %[3]s, %[4]s, %[5]s;
GRANT SELECT, INSERT, UPDATE, DELETE ON ALL TABLES IN SCHEMA %[1]s TO %[2]s;
GRANT SELECT, INSERT, UPDATE, DELETE ON ALL TABLES IN SCHEMA %[1]s TO %[4]s;
GRANT SELECT ON ALL TABLES IN SCHEMA %[1]s TO %[3]s;
GRANT ALL PRIVILEGES ON ALL TABLES IN SCHEMA %[1]s TO %[5]s;
`, schemaName, tenant.TenantRole, tenant.ReadOnlyRole, tenant.JobRole, tenant.MigrationRole)
}

// createTenantSchemaTx issues CREATE SCHEMA inside the caller's registry
// transaction (spec.md §4.6 step 5), so it rolls back automatically if a
// later step in that transaction fails. schemaName must pass
// tenant.ValidSchemaName before it reaches this interpolation; deriveNames
// is the only producer today, but that is an accident of the current call
// graph, not a property this function may rely on.
func createTenantSchemaTx(ctx context.Context, tx pgx.Tx, schemaName string) error {
	if !tenant.ValidSchemaName(schemaName) || schemaName == "public" {
		return fmt.Errorf("%w: %q", tenant.ErrInvalidSchemaName, schemaName)
	}
	_, err := tx.Exec(ctx, fmt.Sprintf(`CREATE SCHEMA %s`, schemaName))
	if err != nil {
		return fmt.Errorf("provisioning: create schema: %w", err)
	}
	return nil
}

// applyTenantTemplate runs the business-table template against an
// already-committed schema, outside the registry transaction. It binds the
// connection to schemaName with SET LOCAL inside its own transaction rather
// than a bare SET: a bare SET is session-scoped and conn.Release() would
// hand the connection back to the pool with search_path still pinned to
// this tenant's schema, leaking it into whichever caller acquires that
// physical connection next.
func applyTenantTemplate(ctx context.Context, pool *pgxpool.Pool, schemaName string) error {
	if !tenant.ValidSchemaName(schemaName) || schemaName == "public" {
		return fmt.Errorf("%w: %q", tenant.ErrInvalidSchemaName, schemaName)
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("provisioning: acquire connection for template: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("provisioning: begin template transaction: %w", err)
	}

	if _, err := tx.Exec(ctx, fmt.Sprintf(`SET LOCAL search_path TO %s, public`, schemaName)); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("provisioning: bind schema for template: %w", err)
	}
	if _, err := tx.Exec(ctx, tenantSchemaTemplate); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("provisioning: apply template: %w", err)
	}
	if _, err := tx.Exec(ctx, tenantSchemaGrants(schemaName)); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("provisioning: grant connection roles on template: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("provisioning: commit template: %w", err)
	}
	return nil
}

// dropTenantSchema is the compensating action when migration fails or a
// later step in CreateOrganization fails after the schema already exists.
// It tolerates a schema that was never created.
func dropTenantSchema(ctx context.Context, pool *pgxpool.Pool, schemaName string) error {
	_, err := pool.Exec(ctx, fmt.Sprintf(`DROP SCHEMA IF EXISTS %s CASCADE`, schemaName))
	if err != nil {
		return fmt.Errorf("provisioning: drop schema %s: %w", schemaName, err)
	}
	return nil
}
