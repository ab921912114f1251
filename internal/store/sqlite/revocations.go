package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RevocationStore keeps revoked token ids in the revoked_tokens table.
type RevocationStore struct {
	db *sql.DB
}

// Revoke records tokenID as revoked until expiresAt. Revoking twice is not an error.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO revoked_tokens (token_id, expires_at) VALUES (?, ?) ON CONFLICT(token_id) DO NOTHING",
		tokenID, expiresAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE token_id = ?)", tokenID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return exists, nil
}

// PurgeExpired deletes entries whose tokens have expired by now.
func (s *RevocationStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM revoked_tokens WHERE expires_at <= ?", now.Unix())
	if err != nil {
		return 0, fmt.Errorf("purge revoked tokens: %w", err)
	}
	return res.RowsAffected()
}
