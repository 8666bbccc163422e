package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"salon-booking/internal/booking"
	"salon-booking/internal/model"
)

// LoadProfile returns nil, nil when the user has not saved a profile yet.
// Null columns fall back to the defaults.
func (s *Store) LoadProfile(ctx context.Context, userID string) (*model.Profile, error) {
	var (
		fullName, phone, tz, avatar *string
		prefs                       []byte
	)
	p := model.DefaultProfile(userID)
	err := s.pool.QueryRow(ctx,
		`SELECT full_name, phone, timezone, avatar_url, preferences, loyalty_points, created_at, updated_at
		 FROM profiles WHERE user_id = $1`, userID,
	).Scan(&fullName, &phone, &tz, &avatar, &prefs, &p.LoyaltyPoints, &p.CreatedAt, &p.UpdatedAt)
	if err := mapErr(err); errors.Is(err, booking.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	p.FullName = deref(fullName)
	p.Phone = deref(phone)
	p.AvatarURL = deref(avatar)
	if t := deref(tz); t != "" {
		p.Timezone = t
	}
	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &p.Preferences); err != nil {
			return nil, fmt.Errorf("profile preferences: %w", err)
		}
	}
	return p, nil
}

// SaveProfile upserts on user_id. Loyalty points are not client writable.
func (s *Store) SaveProfile(ctx context.Context, p *model.Profile) error {
	prefs, err := json.Marshal(p.Preferences)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, full_name, phone, timezone, avatar_url, preferences)
		 VALUES ($1,$2,$3,$4,$5,$6::jsonb)
		 ON CONFLICT (user_id) DO UPDATE SET
		   full_name = EXCLUDED.full_name,
		   phone = EXCLUDED.phone,
		   timezone = EXCLUDED.timezone,
		   avatar_url = EXCLUDED.avatar_url,
		   preferences = EXCLUDED.preferences,
		   updated_at = NOW()`,
		p.UserID, p.FullName, p.Phone, p.Timezone, p.AvatarURL, string(prefs),
	)
	return mapErr(err)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
