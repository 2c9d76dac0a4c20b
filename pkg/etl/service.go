package etl

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meridianhq/platform/pkg/async"
	"github.com/meridianhq/platform/pkg/audit"
	"github.com/meridianhq/platform/pkg/envelope"
	"github.com/meridianhq/platform/pkg/tenant"
	"github.com/meridianhq/platform/pkg/tenantctx"
	"github.com/meridianhq/platform/pkg/txscope"
)

// Service runs the invoice intake pipeline and its quarantine repair
// operations, scoped to whatever tenant the caller's ambient context
// names.
type Service struct {
	executor    *txscope.Executor
	tenants     *tenant.Registry
	masterKey   []byte
	auditLogger audit.Logger
}

// NewService builds a Service. auditLogger may be nil, in which case audit
// emission is skipped entirely rather than erroring.
func NewService(executor *txscope.Executor, tenants *tenant.Registry, masterKey []byte, auditLogger audit.Logger) *Service {
	return &Service{
		executor:    executor,
		tenants:     tenants,
		masterKey:   masterKey,
		auditLogger: auditLogger,
	}
}

// RunInvoiceETL normalizes, validates, and persists a batch of raw rows
// under the tenant scope the caller already established. Rows that fail
// validation are quarantined rather than rejecting the whole batch.
func (s *Service) RunInvoiceETL(ctx context.Context, rawRows []map[string]any, sourceTag string) (*SyncResult, error) {
	tenantID, secret, err := s.currentTenantSecret(ctx)
	if err != nil {
		return nil, err
	}

	invoices, quarantines := s.processRows(rawRows, sourceTag, secret)

	err = s.executor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := upsertInvoicesTx(ctx, tx, invoices); err != nil {
			return err
		}
		_, err := insertQuarantineRecordsTx(ctx, tx, quarantines)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("etl: run invoice sync: %w", err)
	}

	result := &SyncResult{
		Total:       len(rawRows),
		Synced:      len(invoices),
		Quarantined: len(quarantines),
	}

	s.logAsync(ctx, "etl.invoice_sync.completed",
		audit.WithResource("tenant", tenantID.String()),
		audit.WithMetadata("source", sourceTag),
		audit.WithMetadata("total", result.Total),
		audit.WithMetadata("synced", result.Synced),
		audit.WithMetadata("quarantined", result.Quarantined),
	)

	return result, nil
}

// processRows runs normalization, validation, and encryption for every raw
// row, splitting the batch into invoices ready to persist and quarantine
// records carrying their row-numbered error lists. Pulled out of
// RunInvoiceETL so the split itself is testable without a database.
func (s *Service) processRows(rawRows []map[string]any, sourceTag string, tenantSecret []byte) ([]Invoice, []QuarantineRecord) {
	var invoices []Invoice
	var quarantines []QuarantineRecord

	for i, raw := range rawRows {
		rowNum := i + 1
		normalized := normalizeFieldAliases(raw)
		vr, msgs := validateRow(normalized)

		if len(msgs) == 0 {
			inv := toInvoiceRecord(vr)
			if err := encryptInvoiceFields(&inv, tenantSecret); err != nil {
				msgs = append(msgs, fmt.Sprintf("encrypt: %v", err))
			} else {
				invoices = append(invoices, inv)
				continue
			}
		}

		quarantines = append(quarantines, toQuarantineRecord(sourceTag, normalized, prefixRowNumber(rowNum, msgs)))
	}

	return invoices, quarantines
}

func prefixRowNumber(rowNum int, msgs []string) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = fmt.Sprintf("row %d: %s", rowNum, m)
	}
	return out
}

// RetryQuarantineBatch re-validates a set of quarantined rows as stored,
// upserting whichever succeed and deleting only those ids. Rows that still
// fail validation are left untouched.
func (s *Service) RetryQuarantineBatch(ctx context.Context, ids []uuid.UUID) (*RetryBatchResult, error) {
	_, secret, err := s.currentTenantSecret(ctx)
	if err != nil {
		return nil, err
	}

	var succeededIDs []uuid.UUID
	var failed []RetryFailure

	err = s.executor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		rows, err := fetchQuarantineRowsTx(ctx, tx, ids)
		if err != nil {
			return err
		}

		var invoices []Invoice
		for _, row := range rows {
			vr, msgs := validateRow(row.RawData)
			if len(msgs) > 0 {
				failed = append(failed, RetryFailure{ID: row.ID, Errors: msgs})
				continue
			}

			inv := toInvoiceRecord(vr)
			if err := encryptInvoiceFields(&inv, secret); err != nil {
				failed = append(failed, RetryFailure{ID: row.ID, Errors: []string{err.Error()}})
				continue
			}

			invoices = append(invoices, inv)
			succeededIDs = append(succeededIDs, row.ID)
		}

		if err := upsertInvoicesTx(ctx, tx, invoices); err != nil {
			return err
		}
		return deleteQuarantineRecordsTx(ctx, tx, succeededIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("etl: retry quarantine batch: %w", err)
	}

	s.logRetriedIDsAsync(ctx, succeededIDs)

	return &RetryBatchResult{
		TotalProcessed: len(ids),
		Succeeded:      len(succeededIDs),
		Failed:         failed,
	}, nil
}

// RetryQuarantineRecord re-validates a single quarantined row with fixed
// fields overlaid on its stored raw data. On success the row is upserted
// and deleted, returning (nil, nil). On validation failure the row is left
// intact and the errors are returned with a nil error — that is not a
// failure of the retry operation itself, only of the data it was given.
func (s *Service) RetryQuarantineRecord(ctx context.Context, id uuid.UUID, fixedFields map[string]any) ([]string, error) {
	_, secret, err := s.currentTenantSecret(ctx)
	if err != nil {
		return nil, err
	}

	var validationErrs []string

	err = s.executor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		row, err := fetchQuarantineRowTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if row.Status != QuarantinePending {
			return fmt.Errorf("%w: %s", ErrQuarantineNotPending, id)
		}

		merged := mergeFixedFields(row.RawData, fixedFields)
		vr, msgs := validateRow(merged)
		if len(msgs) > 0 {
			validationErrs = msgs
			return nil
		}

		inv := toInvoiceRecord(vr)
		if err := encryptInvoiceFields(&inv, secret); err != nil {
			return fmt.Errorf("etl: encrypt retried row: %w", err)
		}

		if err := upsertInvoicesTx(ctx, tx, []Invoice{inv}); err != nil {
			return err
		}
		return deleteQuarantineRecordsTx(ctx, tx, []uuid.UUID{id})
	})
	if err != nil {
		return nil, fmt.Errorf("etl: retry quarantine record: %w", err)
	}
	if len(validationErrs) > 0 {
		return validationErrs, nil
	}

	s.logRetriedIDsAsync(ctx, []uuid.UUID{id})

	return nil, nil
}

// DiscardQuarantineRecord permanently drops a row that cannot be repaired,
// e.g. a malformed submission nobody will ever fix.
func (s *Service) DiscardQuarantineRecord(ctx context.Context, id uuid.UUID) error {
	return s.executor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		row, err := fetchQuarantineRowTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if !validQuarantineTransition(row.Status, QuarantineDeleted) {
			return fmt.Errorf("%w: %s", ErrQuarantineNotPending, id)
		}
		return deleteQuarantineRecordsTx(ctx, tx, []uuid.UUID{id})
	})
}

// currentTenantSecret unwraps the ambient tenant's own secret from the
// registry, used to encrypt and decrypt this tenant's sensitive fields.
func (s *Service) currentTenantSecret(ctx context.Context) (uuid.UUID, []byte, error) {
	tctx, err := tenantctx.Current(ctx)
	if err != nil {
		return uuid.UUID{}, nil, fmt.Errorf("etl: %w", err)
	}
	if tctx.TenantID == nil {
		return uuid.UUID{}, nil, fmt.Errorf("etl: ambient context is not tenant-scoped")
	}

	t, err := s.tenants.FindByID(ctx, *tctx.TenantID)
	if err != nil {
		return uuid.UUID{}, nil, fmt.Errorf("etl: look up tenant: %w", err)
	}

	secret, err := envelope.Unwrap(t.EncryptedSecret, s.masterKey)
	if err != nil {
		return uuid.UUID{}, nil, fmt.Errorf("etl: unwrap tenant secret: %w", err)
	}

	return *tctx.TenantID, secret, nil
}

// logAsync fires one audit event in the background, detached from ctx's
// cancellation since the caller is not expected to wait on it.
func (s *Service) logAsync(ctx context.Context, action string, opts ...audit.EventOption) {
	if s.auditLogger == nil {
		return
	}
	detached := context.WithoutCancel(ctx)
	async.Async(detached, struct{}{}, func(ctx context.Context, _ struct{}) (struct{}, error) {
		return struct{}{}, s.auditLogger.Log(ctx, action, opts...)
	})
}

// logRetriedIDsAsync emits one audit event per successfully retried
// quarantine id, satisfying the at-most-once-per-successful-retry
// invariant without making the caller wait on the audit sink.
func (s *Service) logRetriedIDsAsync(ctx context.Context, ids []uuid.UUID) {
	if s.auditLogger == nil || len(ids) == 0 {
		return
	}
	detached := context.WithoutCancel(ctx)
	async.Async(detached, ids, func(ctx context.Context, ids []uuid.UUID) (struct{}, error) {
		for _, id := range ids {
			_ = s.auditLogger.Log(ctx, "etl.quarantine.retried", audit.WithResource("quarantine_record", id.String()))
		}
		return struct{}{}, nil
	})
}
