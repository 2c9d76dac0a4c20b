package etl

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meridianhq/platform/pkg/queue"
	"github.com/meridianhq/platform/pkg/tenantctx"
)

// RetryQuarantineBatchTask is the background-retry payload for a batch of
// quarantine ids. A queue worker has no request in flight to inherit an
// ambient tenant context from, so the task carries the tenant identity
// itself and the handler re-establishes the scope before calling Service.
type RetryQuarantineBatchTask struct {
	TenantID   uuid.UUID   `json:"tenant_id"`
	SchemaName string      `json:"schema_name"`
	IDs        []uuid.UUID `json:"ids"`
}

// EnqueueQuarantineRetry schedules a background retry of ids under the
// caller's ambient tenant scope. Used by callers that want a retry to
// happen off the request path, e.g. a scheduled sweep of old quarantine
// rows rather than an operator-initiated RetryQuarantineBatch call.
func EnqueueQuarantineRetry(ctx context.Context, enqueuer *queue.Enqueuer, ids []uuid.UUID) error {
	tctx, err := tenantctx.Current(ctx)
	if err != nil {
		return fmt.Errorf("etl: %w", err)
	}
	if tctx.TenantID == nil {
		return fmt.Errorf("etl: ambient context is not tenant-scoped")
	}

	return enqueuer.Enqueue(ctx, RetryQuarantineBatchTask{
		TenantID:   *tctx.TenantID,
		SchemaName: tctx.SchemaName,
		IDs:        ids,
	})
}

// NewRetryQuarantineBatchHandler wires svc into a queue.Handler for
// RetryQuarantineBatchTask, for registration on a pkg/queue.Worker.
func NewRetryQuarantineBatchHandler(svc *Service) queue.Handler {
	return queue.NewTaskHandler(func(ctx context.Context, task RetryQuarantineBatchTask) error {
		tctx := tenantctx.Context{
			TenantID:   &task.TenantID,
			SchemaName: task.SchemaName,
			Role:       tenantctx.RoleSystemJob,
		}
		return tenantctx.Run(ctx, tctx, func(ctx context.Context) error {
			result, err := svc.RetryQuarantineBatch(ctx, task.IDs)
			if err != nil {
				return fmt.Errorf("etl: background retry: %w", err)
			}
			if len(result.Failed) > 0 {
				return fmt.Errorf("etl: background retry: %d of %d rows still failing", len(result.Failed), result.TotalProcessed)
			}
			return nil
		})
	})
}
