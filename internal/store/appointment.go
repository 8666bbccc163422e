package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"salon-booking/internal/booking"
	"salon-booking/internal/model"
)

// BusySlots reads the confirmed intervals of a date through get_busy_slots.
func (s *Store) BusySlots(ctx context.Context, date, stylistID string) ([]model.BusySlot, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT stylist_id::text, start_time, end_time FROM get_busy_slots($1::date, $2::uuid)`,
		date, nullable(stylistID),
	)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []model.BusySlot
	for rows.Next() {
		var b model.BusySlot
		if err := rows.Scan(&b.StylistID, &b.Start, &b.End); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func checkAvailability(ctx context.Context, q querier, req booking.Request) (model.Availability, error) {
	var (
		av      model.Availability
		stylist *string
		reason  *string
	)
	err := q.QueryRow(ctx,
		`SELECT available, stylist_id::text, reason
		 FROM check_availability($1::date, $2, $3, $4::uuid, $5::uuid, $6)`,
		req.Date, req.Time, int(req.End.Sub(req.Start)/time.Minute),
		nullable(req.StylistID), nullable(req.UserID), req.Start.Location().String(),
	).Scan(&av.Available, &stylist, &reason)
	if err != nil {
		return av, mapErr(err)
	}
	av.StylistID = deref(stylist)
	av.Reason = deref(reason)
	return av, nil
}

// CheckAvailability expects a validated request (Start/End set).
func (s *Store) CheckAvailability(ctx context.Context, req booking.Request) (model.Availability, error) {
	return checkAvailability(ctx, s.pool, req)
}

// BookAppointment serialises bookings of one date with an advisory lock,
// re-checks the slot, inserts, and lets assign_stylist_for_appointment pick
// a stylist when none was chosen. The exclusion constraint backs this up.
func (s *Store) BookAppointment(ctx context.Context, req booking.Request) (*model.Appointment, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, req.Date); err != nil {
		return nil, err
	}
	av, err := checkAvailability(ctx, tx, req)
	if err != nil {
		return nil, err
	}
	if !av.Available {
		return nil, &booking.UnavailableError{Reason: av.Reason}
	}

	a := &model.Appointment{
		UserID:    req.UserID,
		ServiceID: req.ServiceID,
		StylistID: req.StylistID,
		Date:      req.Date,
		Time:      req.Time,
		StartTime: req.Start,
		EndTime:   req.End,
		Notes:     req.Notes,
		Status:    model.StatusConfirmed,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO appointments (user_id, service_id, stylist_id, date, "time", start_time, end_time, notes, status)
		 VALUES ($1,$2,$3::uuid,$4::date,$5,$6,$7,$8,$9)
		 RETURNING id::text, created_at`,
		a.UserID, a.ServiceID, nullable(a.StylistID), a.Date, a.Time, a.StartTime, a.EndTime, a.Notes, a.Status,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}

	if a.StylistID == "" {
		if err := tx.QueryRow(ctx,
			`SELECT assign_stylist_for_appointment($1)::text`, a.ID,
		).Scan(&a.StylistID); err != nil {
			return nil, mapErr(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, mapErr(err)
	}
	return a, nil
}

const appointmentCols = `id::text, user_id::text, service_id, COALESCE(stylist_id::text, ''),
	to_char(date, 'YYYY-MM-DD'), "time", start_time, end_time, notes, status, created_at`

func scanAppointment(row pgx.Row, a *model.Appointment) error {
	return row.Scan(&a.ID, &a.UserID, &a.ServiceID, &a.StylistID,
		&a.Date, &a.Time, &a.StartTime, &a.EndTime, &a.Notes, &a.Status, &a.CreatedAt)
}

// ListAppointments returns every appointment of the user, cancelled ones
// included, ordered by date then time.
func (s *Store) ListAppointments(ctx context.Context, userID string) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+appointmentCols+` FROM appointments
		 WHERE user_id = $1
		 ORDER BY date, "time"`, userID,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := scanAppointment(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	a := &model.Appointment{}
	row := s.pool.QueryRow(ctx, `SELECT `+appointmentCols+` FROM appointments WHERE id = $1`, id)
	if err := scanAppointment(row, a); err != nil {
		return nil, mapErr(err)
	}
	return a, nil
}

// CancelAppointment is a soft cancel restricted to the owner.
func (s *Store) CancelAppointment(ctx context.Context, id, userID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE appointments SET status = 'cancelled', updated_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND status = 'confirmed'`, id, userID,
	)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return booking.ErrNotFound
	}
	return nil
}
