package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStorage persists audit events to public.audit_events. It is the only
// Storage implementation this module ships; every other backend in tests
// is a mock, since the teacher's audit package deliberately leaves storage
// pluggable.
type PgStorage struct {
	pool *pgxpool.Pool
}

// NewPgStorage builds a PgStorage against pool. pool must already have the
// public.audit_events table migrated.
func NewPgStorage(pool *pgxpool.Pool) *PgStorage {
	return &PgStorage{pool: pool}
}

// Store inserts events in a single batch. A failure for any one event fails
// the whole call; callers that cannot afford to lose events should pair
// this with NewAsyncWriter's fallback-to-sync behavior.
func (s *PgStorage) Store(ctx context.Context, events ...Event) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range events {
		metadata, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("audit: marshal metadata: %w", err)
		}
		batch.Queue(`
			INSERT INTO public.audit_events
				(id, tenant_id, user_id, session_id, action, resource, resource_id,
				 result, error, request_id, ip, user_agent, metadata, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
			ON CONFLICT (id) DO NOTHING`,
			e.ID, e.TenantID, e.UserID, e.SessionID, e.Action, e.Resource, e.ResourceID,
			string(e.Result), e.Error, e.RequestID, e.IP, e.UserAgent, metadata, e.CreatedAt)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range events {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("audit: store event: %w", err)
		}
	}
	return nil
}

// Query returns events matching criteria, newest first.
func (s *PgStorage) Query(ctx context.Context, criteria Criteria) ([]Event, error) {
	where := make([]string, 0, 8)
	args := make([]any, 0, 8)

	add := func(col string, val any) {
		args = append(args, val)
		where = append(where, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if criteria.TenantID != "" {
		add("tenant_id", criteria.TenantID)
	}
	if criteria.UserID != "" {
		add("user_id", criteria.UserID)
	}
	if criteria.SessionID != "" {
		add("session_id", criteria.SessionID)
	}
	if criteria.Action != "" {
		add("action", criteria.Action)
	}
	if criteria.Resource != "" {
		add("resource", criteria.Resource)
	}
	if criteria.ResourceID != "" {
		add("resource_id", criteria.ResourceID)
	}
	if criteria.Result != "" {
		add("result", string(criteria.Result))
	}
	if !criteria.StartTime.IsZero() {
		args = append(args, criteria.StartTime)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if !criteria.EndTime.IsZero() {
		args = append(args, criteria.EndTime)
		where = append(where, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	query := `SELECT id, tenant_id, user_id, session_id, action, resource, resource_id,
		result, error, request_id, ip, user_agent, metadata, created_at
		FROM public.audit_events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := criteria.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if criteria.Offset > 0 {
		args = append(args, criteria.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("audit: query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var result string
		var metadata []byte
		var createdAt time.Time
		if err := rows.Scan(&e.ID, &e.TenantID, &e.UserID, &e.SessionID, &e.Action, &e.Resource,
			&e.ResourceID, &result, &e.Error, &e.RequestID, &e.IP, &e.UserAgent, &metadata, &createdAt); err != nil {
			return nil, fmt.Errorf("audit: scan event: %w", err)
		}
		e.Result = Result(result)
		e.CreatedAt = createdAt
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
				return nil, fmt.Errorf("audit: unmarshal metadata: %w", err)
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Count returns the number of events matching criteria, ignoring its
// Limit/Offset/Cursor fields. Implements StorageCounter.
func (s *PgStorage) Count(ctx context.Context, criteria Criteria) (int64, error) {
	where := make([]string, 0, 8)
	args := make([]any, 0, 8)

	add := func(col string, val any) {
		args = append(args, val)
		where = append(where, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if criteria.TenantID != "" {
		add("tenant_id", criteria.TenantID)
	}
	if criteria.UserID != "" {
		add("user_id", criteria.UserID)
	}
	if criteria.Action != "" {
		add("action", criteria.Action)
	}
	if criteria.Result != "" {
		add("result", string(criteria.Result))
	}

	query := `SELECT count(*) FROM public.audit_events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	var count int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("audit: count events: %w", err)
	}
	return count, nil
}
