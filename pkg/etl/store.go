package etl

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meridianhq/platform/pkg/pg"
)

// upsertInvoicesTx bulk-upserts invoices on the (schema-scoped) natural key
// external_id, via one parameterized multi-row INSERT: placeholder
// positions are built from the slice index, values never touch the SQL
// string directly. Isolation from other tenants' invoices comes from
// search_path already being bound to this tenant's schema for the
// transaction's lifetime (see pkg/txscope) — there is no tenant_id column
// to filter by, because each tenant owns its own physical copy of this
// table.
func upsertInvoicesTx(ctx context.Context, tx pgx.Tx, invoices []Invoice) error {
	if len(invoices) == 0 {
		return nil
	}

	const colsPerRow = 9
	var sb strings.Builder
	sb.WriteString(`INSERT INTO invoices (id, external_id, customer_name, invoice_number, amount, status, currency, due_date, metadata) VALUES `)

	args := make([]any, 0, len(invoices)*colsPerRow)
	for i, inv := range invoices {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * colsPerRow
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9)
		args = append(args, uuid.New(), inv.ExternalID, inv.CustomerName, inv.InvoiceNumber,
			inv.Amount, inv.Status, inv.Currency, inv.DueDate, inv.Metadata)
	}

	sb.WriteString(`
		ON CONFLICT (external_id) DO UPDATE SET
			amount         = EXCLUDED.amount,
			status         = EXCLUDED.status,
			customer_name  = EXCLUDED.customer_name,
			invoice_number = EXCLUDED.invoice_number,
			metadata       = EXCLUDED.metadata,
			updated_at     = now()
	`)

	if _, err := tx.Exec(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("etl: upsert invoices: %w", err)
	}
	return nil
}

// insertQuarantineRecordsTx bulk-inserts quarantine rows, one parameterized
// multi-row INSERT per call, and returns their generated ids in the same
// order the records were given.
func insertQuarantineRecordsTx(ctx context.Context, tx pgx.Tx, records []QuarantineRecord) ([]uuid.UUID, error) {
	if len(records) == 0 {
		return nil, nil
	}

	const colsPerRow = 3
	var sb strings.Builder
	sb.WriteString(`INSERT INTO quarantine_records (source_type, raw_data, errors) VALUES `)

	args := make([]any, 0, len(records)*colsPerRow)
	for i, r := range records {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * colsPerRow
		fmt.Fprintf(&sb, "($%d, $%d, $%d)", base+1, base+2, base+3)
		args = append(args, r.SourceTag, r.RawData, r.Errors)
	}
	sb.WriteString(` RETURNING id`)

	rows, err := tx.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("etl: insert quarantine records: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0, len(records))
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("etl: scan quarantine id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const quarantineColumns = `id, source_type, raw_data, errors, status, created_at`

func scanQuarantineRecord(row pgx.Row) (*QuarantineRecord, error) {
	var r QuarantineRecord
	var status string
	err := row.Scan(&r.ID, &r.SourceTag, &r.RawData, &r.Errors, &status, &r.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrQuarantineNotFound
		}
		return nil, fmt.Errorf("etl: scan quarantine record: %w", err)
	}
	r.Status = QuarantineStatus(status)
	return &r, nil
}

// fetchQuarantineRowsTx loads pending quarantine rows by id, locking each
// row for the duration of the transaction so two concurrent retry attempts
// on the same record cannot both succeed.
func fetchQuarantineRowsTx(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) ([]QuarantineRecord, error) {
	rows, err := tx.Query(ctx, `
		SELECT `+quarantineColumns+`
		FROM quarantine_records
		WHERE id = ANY($1) AND status = $2
		FOR UPDATE`,
		ids, string(QuarantinePending),
	)
	if err != nil {
		return nil, fmt.Errorf("etl: fetch quarantine rows: %w", err)
	}
	defer rows.Close()

	var out []QuarantineRecord
	for rows.Next() {
		r, err := scanQuarantineRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// fetchQuarantineRowTx loads and locks a single quarantine row whatever its
// status; callers check the status themselves.
func fetchQuarantineRowTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*QuarantineRecord, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+quarantineColumns+`
		FROM quarantine_records
		WHERE id = $1
		FOR UPDATE`,
		id,
	)
	return scanQuarantineRecord(row)
}

// deleteQuarantineRecordsTx removes rows whose retry just succeeded. Only
// ever called with the subset of ids that were actually synced — a failed
// retry leaves its quarantine row intact, per spec.
func deleteQuarantineRecordsTx(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := tx.Exec(ctx, `DELETE FROM quarantine_records WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("etl: delete quarantine records: %w", err)
	}
	return nil
}
