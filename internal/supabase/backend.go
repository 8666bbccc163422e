package supabase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"salon-booking/internal/booking"
	"salon-booking/internal/model"
)

// Backend implements booking.Backend against the project's tables and
// database functions.
type Backend struct {
	c *Client
}

func NewBackend(c *Client) *Backend {
	return &Backend{c: c}
}

var _ booking.Backend = (*Backend)(nil)

func (b *Backend) Ping(ctx context.Context) error {
	return b.c.Health(ctx)
}

type stylistRow struct {
	ProfileID   string   `json:"profile_id"`
	DisplayName string   `json:"display_name"`
	Bio         *string  `json:"bio"`
	Specialties []string `json:"specialties"`
	AvatarURL   *string  `json:"avatar_url"`
	IsActive    bool     `json:"is_active"`
}

func (b *Backend) ListStylists(ctx context.Context, excludeUserID string) ([]model.Stylist, error) {
	q := b.c.From("stylists").
		Select("profile_id,display_name,bio,specialties,avatar_url,is_active").
		Order("display_name", true)
	if excludeUserID != "" {
		q.Neq("profile_id", excludeUserID)
	}
	var rows []stylistRow
	if err := q.Get(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]model.Stylist, 0, len(rows))
	for _, r := range rows {
		st := model.Stylist{
			ID:          r.ProfileID,
			Name:        r.DisplayName,
			Bio:         str(r.Bio),
			Specialties: r.Specialties,
			Available:   r.IsActive,
			AvatarURL:   str(r.AvatarURL),
		}
		if st.Specialties == nil {
			st.Specialties = []string{}
		}
		out = append(out, st)
	}
	return out, nil
}

type busyRow struct {
	StylistID string    `json:"stylist_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func (b *Backend) BusySlots(ctx context.Context, date, stylistID string) ([]model.BusySlot, error) {
	var rows []busyRow
	err := b.c.RPC(ctx, "get_busy_slots", map[string]any{
		"p_date":       date,
		"p_stylist_id": optional(stylistID),
	}, &rows)
	if err != nil {
		return nil, err
	}
	out := make([]model.BusySlot, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.BusySlot{StylistID: r.StylistID, Start: r.StartTime, End: r.EndTime})
	}
	return out, nil
}

type availabilityRow struct {
	Available bool    `json:"available"`
	StylistID *string `json:"stylist_id"`
	Reason    *string `json:"reason"`
}

func (b *Backend) CheckAvailability(ctx context.Context, req booking.Request) (model.Availability, error) {
	var rows []availabilityRow
	err := b.c.RPC(ctx, "check_availability", map[string]any{
		"p_date":             req.Date,
		"p_time":             req.Time,
		"p_duration_minutes": int(req.End.Sub(req.Start) / time.Minute),
		"p_stylist_id":       optional(req.StylistID),
		"p_user_id":          optional(req.UserID),
		"p_tz":               req.Start.Location().String(),
	}, &rows)
	if err != nil {
		return model.Availability{}, err
	}
	if len(rows) == 0 {
		return model.Availability{}, nil
	}
	return model.Availability{
		Available: rows[0].Available,
		StylistID: str(rows[0].StylistID),
		Reason:    str(rows[0].Reason),
	}, nil
}

type appointmentRow struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"user_id"`
	ServiceID string    `json:"service_id"`
	StylistID *string   `json:"stylist_id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Notes     *string   `json:"notes"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type appointmentInsert struct {
	UserID    string    `json:"user_id"`
	ServiceID string    `json:"service_id"`
	StylistID *string   `json:"stylist_id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Notes     string    `json:"notes"` // NOT NULL column
	Status    string    `json:"status"`
}

func (r appointmentRow) model() model.Appointment {
	return model.Appointment{
		ID:        r.ID,
		UserID:    r.UserID,
		ServiceID: r.ServiceID,
		StylistID: str(r.StylistID),
		Date:      r.Date,
		Time:      r.Time,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Notes:     str(r.Notes),
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
}

const appointmentSelect = "id,user_id,service_id,stylist_id,date,time,start_time,end_time,notes,status,created_at"

// BookAppointment inserts the row and, without a chosen stylist, lets
// assign_stylist_for_appointment pick one. A failed assignment cancels the
// row so it does not hold a slot.
func (b *Backend) BookAppointment(ctx context.Context, req booking.Request) (*model.Appointment, error) {
	var row appointmentRow
	err := b.c.From("appointments").Select(appointmentSelect).Insert(ctx, appointmentInsert{
		UserID:    req.UserID,
		ServiceID: req.ServiceID,
		StylistID: optionalPtr(req.StylistID),
		Date:      req.Date,
		Time:      req.Time,
		StartTime: req.Start,
		EndTime:   req.End,
		Notes:     req.Notes,
		Status:    model.StatusConfirmed,
	}, &row)
	if err != nil {
		return nil, err
	}
	if row.ID == "" {
		return nil, errors.New("appointment created but no id returned")
	}

	if req.StylistID == "" {
		var stylistID string
		if err := b.c.RPC(ctx, "assign_stylist_for_appointment", map[string]any{"appointment_id": row.ID}, &stylistID); err != nil {
			if _, cerr := b.c.From("appointments").Eq("id", row.ID).Update(ctx, map[string]string{"status": model.StatusCancelled}); cerr != nil {
				b.c.log.Warn("cancel unassigned appointment", zap.String("appointment_id", row.ID), zap.Error(cerr))
			}
			return nil, err
		}
		row.StylistID = &stylistID
	}
	a := row.model()
	return &a, nil
}

func (b *Backend) ListAppointments(ctx context.Context, userID string) ([]model.Appointment, error) {
	var rows []appointmentRow
	err := b.c.From("appointments").
		Select(appointmentSelect).
		Eq("user_id", userID).
		Order("date", true).
		Order("time", true).
		Get(ctx, &rows)
	if err != nil {
		return nil, err
	}
	out := make([]model.Appointment, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out, nil
}

func (b *Backend) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	var row appointmentRow
	ok, err := b.c.From("appointments").Select(appointmentSelect).Eq("id", id).MaybeSingle(ctx, &row)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, booking.ErrNotFound
	}
	a := row.model()
	return &a, nil
}

func (b *Backend) CancelAppointment(ctx context.Context, id, userID string) error {
	n, err := b.c.From("appointments").
		Eq("id", id).
		Eq("user_id", userID).
		Eq("status", model.StatusConfirmed).
		Update(ctx, map[string]string{"status": model.StatusCancelled})
	if err != nil {
		return err
	}
	if n == 0 {
		return booking.ErrNotFound
	}
	return nil
}

type profileRow struct {
	UserID        string             `json:"user_id"`
	FullName      *string            `json:"full_name"`
	Phone         *string            `json:"phone"`
	Timezone      *string            `json:"timezone"`
	AvatarURL     *string            `json:"avatar_url"`
	Preferences   *model.Preferences `json:"preferences"`
	LoyaltyPoints int                `json:"loyalty_points,omitempty"`
	CreatedAt     *time.Time         `json:"created_at,omitempty"`
	UpdatedAt     *time.Time         `json:"updated_at,omitempty"`
}

func (b *Backend) LoadProfile(ctx context.Context, userID string) (*model.Profile, error) {
	var row profileRow
	ok, err := b.c.From("profiles").Select("*").Eq("user_id", userID).MaybeSingle(ctx, &row)
	if err != nil || !ok {
		return nil, err
	}
	p := model.DefaultProfile(userID)
	p.FullName = str(row.FullName)
	p.Phone = str(row.Phone)
	p.AvatarURL = str(row.AvatarURL)
	p.LoyaltyPoints = row.LoyaltyPoints
	if tz := str(row.Timezone); tz != "" {
		p.Timezone = tz
	}
	if row.Preferences != nil {
		p.Preferences = *row.Preferences
	}
	if row.CreatedAt != nil {
		p.CreatedAt = *row.CreatedAt
	}
	if row.UpdatedAt != nil {
		p.UpdatedAt = *row.UpdatedAt
	}
	return p, nil
}

// SaveProfile upserts on user_id. Loyalty points are left to the database.
func (b *Backend) SaveProfile(ctx context.Context, p *model.Profile) error {
	prefs := p.Preferences
	return b.c.From("profiles").Upsert(ctx, profileRow{
		UserID:      p.UserID,
		FullName:    &p.FullName,
		Phone:       &p.Phone,
		Timezone:    &p.Timezone,
		AvatarURL:   optionalPtr(p.AvatarURL),
		Preferences: &prefs,
	}, "user_id", nil)
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func optionalPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
