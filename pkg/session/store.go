package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridianhq/platform/pkg/pg"
)

// Store is the Postgres-backed refresh token store.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore builds a Store over an existing connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const refreshTokenColumns = `id, user_id, tenant_id, token, expires_at, created_at, revoked_at`

func scanRefreshToken(row pgx.Row) (*RefreshToken, error) {
	var rt RefreshToken
	err := row.Scan(&rt.ID, &rt.UserID, &rt.TenantID, &rt.Token, &rt.ExpiresAt, &rt.CreatedAt, &rt.RevokedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("session: scan row: %w", err)
	}
	return &rt, nil
}

// Create persists a new refresh token row.
func (s *Store) Create(ctx context.Context, rt *RefreshToken) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO public.refresh_tokens (id, user_id, tenant_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rt.ID, rt.UserID, rt.TenantID, rt.Token, rt.ExpiresAt, rt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("session: create refresh token: %w", err)
	}
	return nil
}

// FindByToken looks up a refresh token by its opaque value. Callers must
// check IsValid before trusting the result: a found-but-expired-or-revoked
// row is still returned so callers can log which case applied.
func (s *Store) FindByToken(ctx context.Context, token string) (*RefreshToken, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+refreshTokenColumns+` FROM public.refresh_tokens WHERE token = $1`, token)
	return scanRefreshToken(row)
}

// Revoke marks a refresh token as used, so it cannot be redeemed again.
// Rotation always revokes the presented token before minting its
// replacement, whether or not the replacement succeeds.
func (s *Store) Revoke(ctx context.Context, token string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE public.refresh_tokens SET revoked_at = now() WHERE token = $1 AND revoked_at IS NULL`,
		token,
	)
	if err != nil {
		return fmt.Errorf("session: revoke refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTokenRevoked
	}
	return nil
}

// DeleteExpired removes every refresh token past its expiry. Intended to
// run periodically from a background job; not wired to any request path.
func (s *Store) DeleteExpired(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM public.refresh_tokens WHERE expires_at < now()`)
	if err != nil {
		return fmt.Errorf("session: delete expired refresh tokens: %w", err)
	}
	return nil
}

// DeleteByUserID revokes every outstanding refresh token for a user,
// e.g. on password reset, so a stolen credential from before the reset
// cannot be redeemed afterward.
func (s *Store) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM public.refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("session: delete refresh tokens for user: %w", err)
	}
	return nil
}
