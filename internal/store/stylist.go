package store

import (
	"context"

	"github.com/google/uuid"

	"salon-booking/internal/booking"
	"salon-booking/internal/model"
)

// ListStylists orders by display name and leaves out excludeUserID, so a
// stylist booking for themselves is never offered to themselves.
func (s *Store) ListStylists(ctx context.Context, excludeUserID string) ([]model.Stylist, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT profile_id::text, display_name, bio, specialties, avatar_url, is_active
		 FROM stylists
		 WHERE $1 = '' OR profile_id::text <> $1
		 ORDER BY display_name`, excludeUserID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Stylist
	for rows.Next() {
		var st model.Stylist
		if err := rows.Scan(&st.ID, &st.Name, &st.Bio, &st.Specialties, &st.AvatarURL, &st.Available); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// AddStylist inserts a stylist; an empty ID gets a fresh one.
func (s *Store) AddStylist(ctx context.Context, st *model.Stylist) error {
	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	if st.Specialties == nil {
		st.Specialties = []string{}
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO stylists (profile_id, display_name, bio, specialties, avatar_url, is_active)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		st.ID, st.Name, st.Bio, st.Specialties, st.AvatarURL, st.Available,
	)
	return mapErr(err)
}

func (s *Store) SetStylistActive(ctx context.Context, id string, active bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE stylists SET is_active = $1 WHERE profile_id = $2`, active, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return booking.ErrNotFound
	}
	return nil
}
