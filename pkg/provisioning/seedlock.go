package provisioning

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridianhq/platform/pkg/environment"
)

// seedRestoreLockKey is the constant key test/dev tooling takes a Postgres
// advisory lock on while truncating and reseeding tenant schemas, per
// spec.md §5: "Provisioning holds an advisory lock on a constant key during
// the brief seed-restore phase of test/dev cleanup to serialize concurrent
// workers." Production tenant creation is single-coordinator per tenant and
// never takes this lock.
const seedRestoreLockKey int64 = 9_184_002_771

// WithSeedRestoreLock serializes fn against every other caller holding the
// same advisory lock, for the duration of a test/dev fixture reset. It
// refuses to run outside development or staging: production provisioning
// does not use advisory locks at all, so a caller that reaches this in
// production has mis-wired its environment.
func WithSeedRestoreLock(ctx context.Context, pool *pgxpool.Pool, env environment.Environment, fn func(ctx context.Context) error) error {
	if env == environment.Production {
		return fmt.Errorf("provisioning: seed-restore lock refused in %s", env)
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("provisioning: acquire connection for seed-restore lock: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, seedRestoreLockKey); err != nil {
		return fmt.Errorf("provisioning: acquire seed-restore lock: %w", err)
	}
	defer func() {
		_, _ = conn.Exec(context.WithoutCancel(ctx), `SELECT pg_advisory_unlock($1)`, seedRestoreLockKey)
	}()

	return fn(ctx)
}
