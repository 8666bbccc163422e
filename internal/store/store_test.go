package store_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"salon-booking/internal/auth"
	"salon-booking/internal/booking"
	"salon-booking/internal/migrate"
	"salon-booking/internal/model"
	"salon-booking/internal/store"
)

func setup(t *testing.T) *store.Store {
	t.Helper()
	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}
	r, err := migrate.New(dbURL, nil)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := r.Up(context.Background()); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(pool.Close)
	return store.New(pool)
}

func newUser(t *testing.T, st *store.Store) *model.User {
	t.Helper()
	u := &model.User{
		ID:           uuid.New().String(),
		Email:        fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8]),
		PasswordHash: "x",
		Name:         "Test User",
	}
	if err := st.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func newStylist(t *testing.T, st *store.Store) string {
	t.Helper()
	s := &model.Stylist{Name: "zz-test-" + uuid.New().String()[:6], Available: true}
	if err := st.AddStylist(context.Background(), s); err != nil {
		t.Fatalf("add stylist: %v", err)
	}
	// keep other tests' auto-assignment away from this stylist
	t.Cleanup(func() { _ = st.SetStylistActive(context.Background(), s.ID, false) })
	return s.ID
}

// far enough ahead that no other test run shares the date
func request(t *testing.T, userID, stylistID string, daysAhead int, slot string) booking.Request {
	t.Helper()
	loc, _ := time.LoadLocation("Asia/Hong_Kong")
	date := booking.FormatDate(time.Now().In(loc).AddDate(0, 0, daysAhead))
	r := booking.Request{UserID: userID, ServiceID: "restyle", StylistID: stylistID, Date: date, Time: slot}
	if err := r.Validate(time.Now(), loc); err != nil {
		t.Fatalf("validate: %v", err)
	}
	return r
}

func TestUserLookup(t *testing.T) {
	st := setup(t)
	u := newUser(t, st)

	got, err := st.UserByEmail(context.Background(), u.Email)
	if err != nil {
		t.Fatalf("by email: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("id mismatch: %s", got.ID)
	}

	if _, err := st.UserByEmail(context.Background(), "missing@test.com"); !errors.Is(err, booking.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	dup := *u
	dup.ID = uuid.New().String()
	if err := st.CreateUser(context.Background(), &dup); !errors.Is(err, auth.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	st := setup(t)
	u := newUser(t, st)
	ctx := context.Background()

	_, hash, _ := auth.GenerateRefreshToken()
	id, err := st.CreateRefreshToken(ctx, u.ID, hash, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, newHash, _ := auth.GenerateRefreshToken()
	newID := uuid.New().String()
	if err := st.RotateRefreshToken(ctx, id, newID, u.ID, newHash, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("rotate: %v", err)
	}

	old, err := st.GetRefreshTokenByHash(ctx, hash)
	if err != nil {
		t.Fatalf("get old: %v", err)
	}
	if !old.Revoked || old.ReplacedBy == nil || *old.ReplacedBy != newID {
		t.Errorf("old token not linked: %+v", old)
	}

	// a second rotation of the same token loses
	if err := st.RotateRefreshToken(ctx, id, uuid.New().String(), u.ID, "other", time.Now().Add(time.Hour)); !errors.Is(err, booking.ErrNotFound) {
		t.Errorf("expected ErrNotFound on double rotation, got %v", err)
	}
}

func TestPasswordResetSingleUse(t *testing.T) {
	st := setup(t)
	u := newUser(t, st)
	ctx := context.Background()

	_, hash, _ := auth.GenerateRefreshToken()
	if err := st.CreatePasswordReset(ctx, u.ID, hash, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := st.ConsumePasswordReset(ctx, hash)
	if err != nil || got != u.ID {
		t.Fatalf("consume: %q %v", got, err)
	}
	if _, err := st.ConsumePasswordReset(ctx, hash); !errors.Is(err, booking.ErrNotFound) {
		t.Errorf("expected ErrNotFound on reuse, got %v", err)
	}
}

func TestProfileUpsert(t *testing.T) {
	st := setup(t)
	u := newUser(t, st)
	ctx := context.Background()

	p, err := st.LoadProfile(ctx, u.ID)
	if err != nil || p != nil {
		t.Fatalf("expected no profile, got %+v %v", p, err)
	}

	in := model.DefaultProfile(u.ID)
	in.FullName = "Ana Lee"
	in.Phone = "91234567"
	in.Preferences.SMSReminders = false
	if err := st.SaveProfile(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	in.FullName = "Ana B. Lee"
	if err := st.SaveProfile(ctx, in); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err := st.LoadProfile(ctx, u.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.FullName != "Ana B. Lee" || got.Preferences.SMSReminders || !got.Preferences.MarketingEmails {
		t.Errorf("unexpected profile: %+v", got)
	}
}

func TestBookWithChosenStylist(t *testing.T) {
	st := setup(t)
	ctx := context.Background()
	u := newUser(t, st)
	stylist := newStylist(t, st)

	req := request(t, u.ID, stylist, 30, "11:00")
	av, err := st.CheckAvailability(ctx, req)
	if err != nil || !av.Available {
		t.Fatalf("check: %+v %v", av, err)
	}
	a, err := st.BookAppointment(ctx, req)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if a.StylistID != stylist || a.Status != model.StatusConfirmed {
		t.Errorf("unexpected appointment: %+v", a)
	}

	busy, err := st.BusySlots(ctx, req.Date, stylist)
	if err != nil || len(busy) != 1 {
		t.Fatalf("busy: %+v %v", busy, err)
	}

	// another customer, same stylist, overlapping slot
	other := newUser(t, st)
	clash := request(t, other.ID, stylist, 30, "11:30")
	av, err = st.CheckAvailability(ctx, clash)
	if err != nil || av.Available {
		t.Fatalf("expected refusal, got %+v %v", av, err)
	}
	_, err = st.BookAppointment(ctx, clash)
	if !errors.Is(err, booking.ErrSlotUnavailable) {
		t.Errorf("expected ErrSlotUnavailable, got %v", err)
	}
}

func TestAutoAssignAndSelfOverlap(t *testing.T) {
	st := setup(t)
	ctx := context.Background()
	u := newUser(t, st)
	newStylist(t, st)

	req := request(t, u.ID, "", 31, "14:00")
	a, err := st.BookAppointment(ctx, req)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if a.StylistID == "" {
		t.Fatal("no stylist assigned")
	}

	// same customer cannot hold two overlapping bookings
	again := request(t, u.ID, "", 31, "14:30")
	av, err := st.CheckAvailability(ctx, again)
	if err != nil || av.Available {
		t.Fatalf("expected self overlap refusal, got %+v %v", av, err)
	}
}

func TestListGetCancel(t *testing.T) {
	st := setup(t)
	ctx := context.Background()
	u := newUser(t, st)
	stylist := newStylist(t, st)

	late, err := st.BookAppointment(ctx, request(t, u.ID, stylist, 32, "16:00"))
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	early, err := st.BookAppointment(ctx, request(t, u.ID, stylist, 32, "10:00"))
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	list, err := st.ListAppointments(ctx, u.ID)
	if err != nil || len(list) != 2 {
		t.Fatalf("list: %d %v", len(list), err)
	}
	if list[0].ID != early.ID || list[1].ID != late.ID {
		t.Error("expected date/time order")
	}

	if err := st.CancelAppointment(ctx, early.ID, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, booking.ErrNotFound) {
		t.Errorf("foreign cancel: %v", err)
	}
	if err := st.CancelAppointment(ctx, early.ID, u.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	got, err := st.GetAppointment(ctx, early.ID)
	if err != nil || got.Status != model.StatusCancelled {
		t.Fatalf("get: %+v %v", got, err)
	}

	if _, err := st.GetAppointment(ctx, "not-a-uuid"); !errors.Is(err, booking.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestConcurrentBooking(t *testing.T) {
	st := setup(t)
	ctx := context.Background()
	stylist := newStylist(t, st)

	const n = 5
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < n; i++ {
		u := newUser(t, st)
		wg.Add(1)
		go func() {
			defer wg.Done()
			loc, _ := time.LoadLocation("Asia/Hong_Kong")
			r := booking.Request{UserID: u.ID, ServiceID: "restyle", StylistID: stylist,
				Date: booking.FormatDate(time.Now().In(loc).AddDate(0, 0, 33)), Time: "12:00"}
			if err := r.Validate(time.Now(), loc); err != nil {
				return
			}
			if _, err := st.BookAppointment(ctx, r); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if ok != 1 {
		t.Errorf("expected exactly 1 booking to win, got %d", ok)
	}
}

func TestPurgeAndReminders(t *testing.T) {
	st := setup(t)
	ctx := context.Background()
	u := newUser(t, st)

	_, hash, _ := auth.GenerateRefreshToken()
	if _, err := st.CreateRefreshToken(ctx, u.ID, hash, time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("create: %v", err)
	}
	n, err := st.PurgeExpiredTokens(ctx)
	if err != nil || n < 1 {
		t.Fatalf("purge: %d %v", n, err)
	}

	if _, err := st.DueReminders(ctx, 24*time.Hour); err != nil {
		t.Fatalf("reminders: %v", err)
	}
}
