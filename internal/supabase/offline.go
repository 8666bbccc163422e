package supabase

import (
	"context"

	"salon-booking/internal/auth"
	"salon-booking/internal/booking"
	"salon-booking/internal/model"
)

// Offline stands in for the hosted backend when its environment is missing.
// The server still starts and every call reports ErrBackendNotConfigured.
type Offline struct{}

var errOffline = booking.ErrBackendNotConfigured

func (Offline) Ping(context.Context) error { return errOffline }

func (Offline) ListStylists(context.Context, string) ([]model.Stylist, error) { return nil, errOffline }

func (Offline) BusySlots(context.Context, string, string) ([]model.BusySlot, error) {
	return nil, errOffline
}

func (Offline) CheckAvailability(context.Context, booking.Request) (model.Availability, error) {
	return model.Availability{}, errOffline
}

func (Offline) BookAppointment(context.Context, booking.Request) (*model.Appointment, error) {
	return nil, errOffline
}

func (Offline) ListAppointments(context.Context, string) ([]model.Appointment, error) {
	return nil, errOffline
}

func (Offline) GetAppointment(context.Context, string) (*model.Appointment, error) {
	return nil, errOffline
}

func (Offline) CancelAppointment(context.Context, string, string) error { return errOffline }

func (Offline) LoadProfile(context.Context, string) (*model.Profile, error) { return nil, errOffline }

func (Offline) SaveProfile(context.Context, *model.Profile) error { return errOffline }

func (Offline) SignUp(context.Context, string, string, string) (*auth.Session, error) {
	return nil, errOffline
}

func (Offline) SignIn(context.Context, string, string) (*auth.Session, error) { return nil, errOffline }

func (Offline) Refresh(context.Context, string) (*auth.Session, error) { return nil, errOffline }

func (Offline) SignOut(context.Context, string, string) error { return errOffline }

func (Offline) RequestPasswordReset(context.Context, string, string) error { return errOffline }

func (Offline) ResetPassword(context.Context, string, string) error { return errOffline }

func (Offline) Verify(context.Context, string) (auth.Identity, error) {
	return auth.Identity{}, errOffline
}

var (
	_ booking.Backend = Offline{}
	_ auth.Provider   = Offline{}
	_ auth.Verifier   = Offline{}
)
