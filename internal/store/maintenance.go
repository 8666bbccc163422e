package store

import (
	"context"
	"time"

	"salon-booking/internal/model"
)

// PurgeExpiredTokens deletes refresh tokens past expiry and reset tokens that
// are used or expired. It returns the number of rows removed.
func (s *Store) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	rt, err := tx.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	pr, err := tx.Exec(ctx, `DELETE FROM password_resets WHERE expires_at < NOW() OR used_at IS NOT NULL`)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return rt.RowsAffected() + pr.RowsAffected(), nil
}

// DueReminders lists confirmed appointments starting within the window whose
// owners keep SMS reminders on (the default when unset) and that were not
// reminded yet.
func (s *Store) DueReminders(ctx context.Context, within time.Duration) ([]model.Reminder, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT a.id::text, a.user_id::text, COALESCE(p.full_name, ''), COALESCE(p.phone, ''),
		        a.service_id, a.start_time
		 FROM appointments a
		 LEFT JOIN profiles p ON p.user_id = a.user_id
		 WHERE a.status = 'confirmed'
		   AND a.reminded_at IS NULL
		   AND a.start_time > NOW()
		   AND a.start_time <= NOW() + $1::interval
		   AND COALESCE((p.preferences->>'smsReminders')::boolean, true)
		 ORDER BY a.start_time`, within,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Reminder
	for rows.Next() {
		var r model.Reminder
		if err := rows.Scan(&r.AppointmentID, &r.UserID, &r.FullName, &r.Phone, &r.ServiceID, &r.StartTime); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) MarkReminded(ctx context.Context, appointmentID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE appointments SET reminded_at = NOW() WHERE id = $1`, appointmentID)
	return err
}
