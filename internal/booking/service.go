package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"salon-booking/internal/model"
)

// Backend is the system of record: slot availability, stylist assignment and
// the booking transaction all happen behind it.
type Backend interface {
	Ping(ctx context.Context) error
	ListStylists(ctx context.Context, excludeUserID string) ([]model.Stylist, error)
	BusySlots(ctx context.Context, date, stylistID string) ([]model.BusySlot, error)
	CheckAvailability(ctx context.Context, req Request) (model.Availability, error)
	BookAppointment(ctx context.Context, req Request) (*model.Appointment, error)
	ListAppointments(ctx context.Context, userID string) ([]model.Appointment, error)
	GetAppointment(ctx context.Context, id string) (*model.Appointment, error)
	CancelAppointment(ctx context.Context, id, userID string) error
	LoadProfile(ctx context.Context, userID string) (*model.Profile, error)
	SaveProfile(ctx context.Context, p *model.Profile) error
}

// Cache is an optional read-through cache for stylists and busy slots.
type Cache interface {
	GetJSON(ctx context.Context, key string, v any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const (
	stylistsKey = "stylists"
	stylistsTTL = 5 * time.Minute
	busyTTL     = 30 * time.Second
)

func busyKey(date string) string { return "busy:" + date }

type Service struct {
	backend Backend
	cache   Cache
	log     *zap.Logger
	loc     *time.Location
	now     func() time.Time
	observe func(op string, start time.Time, err error)
}

type Option func(*Service)

func WithCache(c Cache) Option { return func(s *Service) { s.cache = c } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithObserver is called after every backend call, e.g. to record metrics.
func WithObserver(fn func(op string, start time.Time, err error)) Option {
	return func(s *Service) { s.observe = fn }
}

func NewService(b Backend, loc *time.Location, log *zap.Logger, opts ...Option) *Service {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{backend: b, loc: loc, log: log, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Location() *time.Location { return s.loc }

func (s *Service) Now() time.Time { return s.now().In(s.loc) }

func (s *Service) track(op string, start time.Time, err error) {
	if s.observe != nil {
		s.observe(op, start, err)
	}
}

func (s *Service) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.backend.Ping(ctx)
	s.track("ping", start, err)
	return err
}

// Stylists lists stylists ordered by name, leaving out excludeUserID.
func (s *Service) Stylists(ctx context.Context, excludeUserID string) ([]model.Stylist, error) {
	if s.cache == nil {
		start := time.Now()
		list, err := s.backend.ListStylists(ctx, excludeUserID)
		s.track("list_stylists", start, err)
		return list, err
	}

	var all []model.Stylist
	if ok, err := s.cache.GetJSON(ctx, stylistsKey, &all); err != nil {
		s.log.Warn("stylist cache read", zap.Error(err))
	} else if !ok {
		start := time.Now()
		all, err = s.backend.ListStylists(ctx, "")
		s.track("list_stylists", start, err)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetJSON(ctx, stylistsKey, all, stylistsTTL); err != nil {
			s.log.Warn("stylist cache write", zap.Error(err))
		}
	}
	out := make([]model.Stylist, 0, len(all))
	for _, st := range all {
		if excludeUserID != "" && st.ID == excludeUserID {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

// Available keeps the stylists that take bookings.
func Available(list []model.Stylist) []model.Stylist {
	var out []model.Stylist
	for _, st := range list {
		if st.Available {
			out = append(out, st)
		}
	}
	return out
}

func (s *Service) busy(ctx context.Context, date string) ([]model.BusySlot, error) {
	var out []model.BusySlot
	if s.cache != nil {
		if ok, err := s.cache.GetJSON(ctx, busyKey(date), &out); err == nil && ok {
			return out, nil
		}
	}
	start := time.Now()
	out, err := s.backend.BusySlots(ctx, date, "")
	s.track("busy_slots", start, err)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, busyKey(date), out, busyTTL); err != nil {
			s.log.Warn("busy cache write", zap.Error(err))
		}
	}
	return out, nil
}

// BusySlots returns the raw occupied intervals of a date.
func (s *Service) BusySlots(ctx context.Context, date, stylistID string) ([]model.BusySlot, error) {
	if _, err := ParseDate(date, s.loc); err != nil {
		return nil, invalid("date", "Please select a valid date.")
	}
	all, err := s.busy(ctx, date)
	if err != nil {
		return nil, err
	}
	if stylistID == "" || stylistID == AnyStylist {
		return all, nil
	}
	var out []model.BusySlot
	for _, b := range all {
		if b.StylistID == stylistID {
			out = append(out, b)
		}
	}
	return out, nil
}

// Slots builds the slot grid for a date, service and stylist choice.
func (s *Service) Slots(ctx context.Context, date, serviceID, stylistID, excludeUserID string) ([]Slot, error) {
	d, err := ParseDate(date, s.loc)
	if err != nil {
		return nil, invalid("date", "Please select a valid date.")
	}
	now := s.Now()
	if !InWindow(d, now) {
		return nil, invalid("date", "Select a date within the next 45 days.")
	}
	svc, _ := ServiceByID(DefaultServiceID(serviceID))
	if stylistID == AnyStylist {
		stylistID = ""
	}

	busy, err := s.busy(ctx, date)
	if err != nil {
		return nil, err
	}
	var eligible map[string]bool
	if stylistID == "" {
		list, err := s.Stylists(ctx, excludeUserID)
		if err != nil {
			return nil, err
		}
		eligible = Eligible(list)
	}
	return Grid(d, now, time.Duration(svc.DurationMinutes)*time.Minute, busy, stylistID, eligible), nil
}

// Check validates the request and asks the backend whether the slot is free.
func (s *Service) Check(ctx context.Context, req *Request) (model.Availability, error) {
	if err := req.Validate(s.Now(), s.loc); err != nil {
		return model.Availability{}, err
	}
	start := time.Now()
	av, err := s.backend.CheckAvailability(ctx, *req)
	s.track("check_availability", start, err)
	return av, err
}

// Book runs the availability check and then the booking call. The backend's
// answer is final: a refusal from either step is returned as is.
func (s *Service) Book(ctx context.Context, req *Request) (*model.Appointment, error) {
	if req.UserID == "" {
		return nil, ErrNotAuthenticated
	}
	av, err := s.Check(ctx, req)
	if err != nil {
		return nil, err
	}
	if !av.Available {
		s.log.Info("slot refused", zap.String("date", req.Date), zap.String("time", req.Time), zap.String("reason", av.Reason))
		return nil, &UnavailableError{Reason: av.Reason}
	}

	start := time.Now()
	appt, err := s.backend.BookAppointment(ctx, *req)
	s.track("book_appointment", start, err)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, req.Date)
	s.log.Info("appointment booked",
		zap.String("appointment_id", appt.ID),
		zap.String("user_id", req.UserID),
		zap.String("stylist_id", appt.StylistID),
		zap.String("date", appt.Date),
		zap.String("time", appt.Time),
	)
	return appt, nil
}

func (s *Service) invalidate(ctx context.Context, date string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, busyKey(date)); err != nil {
		s.log.Warn("busy cache invalidate", zap.Error(err))
	}
}

func (s *Service) Appointments(ctx context.Context, userID string) ([]model.Appointment, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	start := time.Now()
	list, err := s.backend.ListAppointments(ctx, userID)
	s.track("list_appointments", start, err)
	return list, err
}

// Appointment hides other users' appointments behind ErrNotFound.
func (s *Service) Appointment(ctx context.Context, id, userID string) (*model.Appointment, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if id == "" {
		return nil, invalid("id", "id required")
	}
	start := time.Now()
	appt, err := s.backend.GetAppointment(ctx, id)
	s.track("get_appointment", start, err)
	if err != nil {
		return nil, err
	}
	if appt.UserID != userID {
		return nil, ErrNotFound
	}
	return appt, nil
}

func (s *Service) Cancel(ctx context.Context, id, userID string) error {
	appt, err := s.Appointment(ctx, id, userID)
	if err != nil {
		return err
	}
	if appt.Status == model.StatusCancelled {
		return nil
	}
	start := time.Now()
	err = s.backend.CancelAppointment(ctx, id, userID)
	s.track("cancel_appointment", start, err)
	if err != nil {
		return err
	}
	s.invalidate(ctx, appt.Date)
	s.log.Info("appointment cancelled", zap.String("appointment_id", id), zap.String("user_id", userID))
	return nil
}

// Profile returns the stored profile, or the defaults with found=false.
func (s *Service) Profile(ctx context.Context, userID string) (*model.Profile, bool, error) {
	if userID == "" {
		return nil, false, ErrNotAuthenticated
	}
	start := time.Now()
	p, err := s.backend.LoadProfile(ctx, userID)
	s.track("load_profile", start, err)
	if err != nil {
		return nil, false, err
	}
	if p == nil {
		return model.DefaultProfile(userID), false, nil
	}
	if p.Timezone == "" {
		p.Timezone = model.DefaultProfile(userID).Timezone
	}
	return p, true, nil
}

func (s *Service) SaveProfile(ctx context.Context, p *model.Profile) error {
	if p.UserID == "" {
		return ErrNotAuthenticated
	}
	if err := ValidateProfile(p); err != nil {
		return err
	}
	if p.Timezone == "" {
		p.Timezone = model.DefaultProfile(p.UserID).Timezone
	}
	start := time.Now()
	err := s.backend.SaveProfile(ctx, p)
	s.track("save_profile", start, err)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// UserMessage maps an error to the text shown next to a form.
func UserMessage(err error) string {
	var ve *ValidationError
	var ue *UnavailableError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Error()
	case errors.As(err, &ue):
		return ue.Error()
	case errors.Is(err, ErrNotAuthenticated):
		return "Not authenticated."
	case errors.Is(err, ErrBackendNotConfigured):
		return "Supabase environment not configured."
	case errors.Is(err, ErrNotFound):
		return "Appointment not found."
	case errors.Is(err, ErrSlotUnavailable):
		return "The selected time is no longer available."
	}
	return err.Error()
}
