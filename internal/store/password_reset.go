package store

import (
	"context"
	"time"
)

func (s *Store) CreatePasswordReset(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO password_resets (token_hash, user_id, expires_at) VALUES ($1,$2,$3)`,
		tokenHash, userID, expiresAt,
	)
	return err
}

// ConsumePasswordReset marks an unused, unexpired reset token as used and
// returns its user.
func (s *Store) ConsumePasswordReset(ctx context.Context, tokenHash string) (string, error) {
	var userID string
	err := s.pool.QueryRow(ctx,
		`UPDATE password_resets SET used_at = NOW()
		 WHERE token_hash = $1 AND used_at IS NULL AND expires_at > NOW()
		 RETURNING user_id::text`, tokenHash,
	).Scan(&userID)
	if err != nil {
		return "", mapErr(err)
	}
	return userID, nil
}
