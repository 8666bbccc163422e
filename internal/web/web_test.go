package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salon-booking/internal/auth"
	"salon-booking/internal/booking"
	"salon-booking/internal/metrics"
	"salon-booking/internal/model"
)

const secret = "web-test-secret"

type memBackend struct {
	mu       sync.Mutex
	stylists []model.Stylist
	appts    map[string]*model.Appointment
	profiles map[string]*model.Profile
	refuse   string
	listErr  error
	pingErr  error
	seq      int
	loads    int
}

func newMemBackend() *memBackend {
	return &memBackend{
		stylists: []model.Stylist{{ID: "st-1", Name: "Amy", Available: true}, {ID: "st-2", Name: "Ben"}},
		appts:    map[string]*model.Appointment{},
		profiles: map[string]*model.Profile{},
	}
}

func (b *memBackend) Ping(context.Context) error { return b.pingErr }

func (b *memBackend) ListStylists(_ context.Context, exclude string) ([]model.Stylist, error) {
	var out []model.Stylist
	for _, s := range b.stylists {
		if s.ID != exclude {
			out = append(out, s)
		}
	}
	return out, nil
}

func (b *memBackend) BusySlots(context.Context, string, string) ([]model.BusySlot, error) {
	return nil, nil
}

func (b *memBackend) CheckAvailability(context.Context, booking.Request) (model.Availability, error) {
	if b.refuse != "" {
		return model.Availability{Reason: b.refuse}, nil
	}
	return model.Availability{Available: true, StylistID: "st-1"}, nil
}

func (b *memBackend) BookAppointment(_ context.Context, r booking.Request) (*model.Appointment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	a := &model.Appointment{
		ID: "appt-" + string(rune('0'+b.seq)), UserID: r.UserID, ServiceID: r.ServiceID, StylistID: "st-1",
		Date: r.Date, Time: r.Time, StartTime: r.Start, EndTime: r.End, Notes: r.Notes, Status: model.StatusConfirmed,
	}
	b.appts[a.ID] = a
	return a, nil
}

func (b *memBackend) ListAppointments(_ context.Context, userID string) ([]model.Appointment, error) {
	if b.listErr != nil {
		return nil, b.listErr
	}
	var out []model.Appointment
	for _, a := range b.appts {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (b *memBackend) GetAppointment(_ context.Context, id string) (*model.Appointment, error) {
	a, ok := b.appts[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (b *memBackend) CancelAppointment(_ context.Context, id, _ string) error {
	b.appts[id].Status = model.StatusCancelled
	return nil
}

func (b *memBackend) LoadProfile(_ context.Context, userID string) (*model.Profile, error) {
	b.loads++
	return b.profiles[userID], nil
}

func (b *memBackend) SaveProfile(_ context.Context, p *model.Profile) error {
	b.profiles[p.UserID] = p
	return nil
}

type memAccounts struct {
	pendingSignup bool
	resets        int
	signedOut     string
}

func session(t *testing.T, uid, email string) *auth.Session {
	tok, err := auth.MakeToken(uid, email, secret)
	require.NoError(t, err)
	return &auth.Session{AccessToken: tok, RefreshToken: "refresh-" + uid, ExpiresAt: time.Now().Add(auth.AccessTTL), UserID: uid, Email: email}
}

type accountsFor struct {
	*memAccounts
	t *testing.T
}

func (a accountsFor) SignUp(_ context.Context, email, _, _ string) (*auth.Session, error) {
	if a.pendingSignup {
		return &auth.Session{UserID: "u-new", Email: email}, nil
	}
	return session(a.t, "u-new", email), nil
}

func (a accountsFor) SignIn(_ context.Context, email, password string) (*auth.Session, error) {
	if password != "testpass123" {
		return nil, auth.ErrInvalidCredentials
	}
	return session(a.t, "user-1", email), nil
}

func (a accountsFor) Refresh(_ context.Context, rt string) (*auth.Session, error) {
	if rt != "refresh-user-1" {
		return nil, auth.ErrBadToken
	}
	return session(a.t, "user-1", "a@b.com"), nil
}

func (a accountsFor) SignOut(_ context.Context, userID, _ string) error {
	a.signedOut = userID
	return nil
}

func (a accountsFor) RequestPasswordReset(context.Context, string, string) error {
	a.resets++
	return nil
}

func (a accountsFor) ResetPassword(_ context.Context, token, _ string) error {
	if token != "good" {
		return auth.ErrBadToken
	}
	return nil
}

func fixedNow() time.Time {
	loc, _ := time.LoadLocation("Asia/Hong_Kong")
	return time.Date(2030, 1, 6, 9, 0, 0, 0, loc)
}

type env struct {
	srv      *Server
	backend  *memBackend
	accounts *memAccounts
	metrics  *metrics.Metrics
	t        *testing.T
}

func newEnv(t *testing.T) *env {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Hong_Kong")
	require.NoError(t, err)
	b := newMemBackend()
	acc := &memAccounts{}
	m := metrics.New()
	svc := booking.NewService(b, loc, nil, booking.WithClock(fixedNow))
	srv, err := New(svc, accountsFor{acc, t}, auth.JWTVerifier{Secret: secret},
		Options{BaseURL: "http://salon.test", Backend: "supabase", EnvReady: true}, nil, WithMetrics(m))
	require.NoError(t, err)
	return &env{srv: srv, backend: b, accounts: acc, metrics: m, t: t}
}

func (e *env) do(method, target string, form url.Values, uid string) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if uid != "" {
		req.AddCookie(&http.Cookie{Name: accessCookie, Value: session(e.t, uid, uid+"@test.com").AccessToken})
	}
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func TestIsActive(t *testing.T) {
	tests := []struct {
		href, path string
		want       bool
	}{
		{"/", "/", true},
		{"/", "/services", false},
		{"/services", "/services", true},
		{"/appointments", "/appointments/new", true},
		{"/profile", "/appointments", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsActive(tt.href, tt.path), "%s on %s", tt.href, tt.path)
	}
}

func TestHome(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/auth/login"`)
	assert.Contains(t, rec.Body.String(), `href="/" class="active"`)

	rec = e.do(http.MethodGet, "/", nil, "user-1")
	assert.Contains(t, rec.Body.String(), "Signed in as: <strong>user-1@test.com</strong>")
}

func TestServicesPage(t *testing.T) {
	e := newEnv(t)
	rec := e.do(http.MethodGet, "/services", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Keratin Treatment")
	assert.Contains(t, body, "$35.00")
	assert.Contains(t, body, "/appointments/new?service=restyle")
	assert.Contains(t, body, `href="/services" class="active"`)
}

func TestLogin(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodPost, "/auth/login", url.Values{"email": {"a@b.com"}, "password": {"testpass123"}}, "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?flash=Logged+in+successfully.", rec.Header().Get("Location"))
	var names []string
	for _, c := range rec.Result().Cookies() {
		names = append(names, c.Name)
		assert.True(t, c.HttpOnly)
	}
	assert.ElementsMatch(t, []string{accessCookie, refreshCookie}, names)

	rec = e.do(http.MethodPost, "/auth/login", url.Values{"email": {"a@b.com"}, "password": {"wrongpass1"}}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password.")

	rec = e.do(http.MethodPost, "/auth/login", url.Values{"email": {"a@b.com"}, "password": {"short"}}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password must be at least 8 characters.")
}

func TestSignupAwaitingConfirmation(t *testing.T) {
	e := newEnv(t)
	e.accounts.pendingSignup = true
	rec := e.do(http.MethodPost, "/auth/signup", url.Values{"email": {"new@b.com"}, "password": {"testpass123"}}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Check your email if confirmations are enabled.")
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogoutClearsCookies(t *testing.T) {
	e := newEnv(t)
	rec := e.do(http.MethodPost, "/auth/logout", url.Values{}, "user-1")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "user-1", e.accounts.signedOut)
	for _, c := range rec.Result().Cookies() {
		assert.Negative(t, c.MaxAge)
	}
}

func TestRefreshCookieRenewsSession(t *testing.T) {
	e := newEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookie, Value: "refresh-user-1"})
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)

	assert.Contains(t, rec.Body.String(), "Signed in as")
	assert.NotEmpty(t, rec.Result().Cookies())
}

func TestAppointmentsNeedSignIn(t *testing.T) {
	e := newEnv(t)
	rec := e.do(http.MethodGet, "/appointments", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sign in is required to view your appointments.")
	assert.Contains(t, rec.Body.String(), "Book without account")
}

func TestAppointmentsEnvIssue(t *testing.T) {
	e := newEnv(t)
	e.backend.listErr = booking.ErrBackendNotConfigured
	rec := e.do(http.MethodGet, "/appointments", nil, "user-1")
	assert.Contains(t, rec.Body.String(), "Sign in is required")
}

func TestBookThenList(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodGet, "/appointments/new?service=restyle&date=2030-01-07", nil, "user-1")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="11:00"`)
	assert.Contains(t, body, ">Amy</option>")
	assert.NotContains(t, body, ">Ben</option>", "unavailable stylists are not offered")

	form := url.Values{"service": {"restyle"}, "stylist": {"ANY"}, "date": {"2030-01-07"}, "time": {"11:00"}, "notes": {"short fringe"}}
	rec = e.do(http.MethodPost, "/appointments/new", form, "user-1")
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/appointments?flash="))

	rec = e.do(http.MethodGet, "/appointments", nil, "user-1")
	body = rec.Body.String()
	assert.Contains(t, body, "Jan 7, 2030 at 11:00")
	assert.Contains(t, body, "Stylist: Amy")
	assert.Contains(t, body, "Restyle Cut")
	assert.Contains(t, body, "short fringe")

	// another user's list stays empty
	rec = e.do(http.MethodGet, "/appointments", nil, "user-2")
	assert.Contains(t, rec.Body.String(), "Book New Appointment")
}

func TestUnknownStylistName(t *testing.T) {
	e := newEnv(t)
	e.backend.appts["x"] = &model.Appointment{ID: "x", UserID: "user-1", ServiceID: "blowout", StylistID: "gone", Date: "2030-01-08", Time: "10:00", Status: model.StatusConfirmed}
	rec := e.do(http.MethodGet, "/appointments", nil, "user-1")
	assert.Contains(t, rec.Body.String(), "Stylist: Unknown")
}

func TestBookShowsBackendAnswer(t *testing.T) {
	e := newEnv(t)
	e.backend.refuse = "No stylist is free at that time."
	form := url.Values{"service": {"restyle"}, "date": {"2030-01-07"}, "time": {"11:00"}}

	rec := e.do(http.MethodPost, "/appointments/new", form, "user-1")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "No stylist is free at that time.")

	rec = e.do(http.MethodPost, "/appointments/new", url.Values{"service": {"restyle"}, "date": {"2030-01-07"}}, "user-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please select a service, date, and time.")

	rec = e.do(http.MethodPost, "/appointments/new", form, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), signInToBook)

	metricsRec := e.do(http.MethodGet, "/metrics", nil, "")
	assert.Contains(t, metricsRec.Body.String(), `salon_bookings_total{outcome="unavailable"} 1`)
}

func TestCancel(t *testing.T) {
	e := newEnv(t)
	form := url.Values{"service": {"blowout"}, "date": {"2030-01-09"}, "time": {"15:00"}}
	require.Equal(t, http.StatusSeeOther, e.do(http.MethodPost, "/appointments/new", form, "user-1").Code)
	var id string
	for k := range e.backend.appts {
		id = k
	}

	rec := e.do(http.MethodPost, "/appointments/"+id+"/cancel", url.Values{}, "user-2")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, model.StatusConfirmed, e.backend.appts[id].Status)

	rec = e.do(http.MethodPost, "/appointments/"+id+"/cancel", url.Values{}, "user-1")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/appointments?flash=Appointment+cancelled.", rec.Header().Get("Location"))
	assert.Equal(t, model.StatusCancelled, e.backend.appts[id].Status)
}

func TestProfile(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodGet, "/profile", nil, "")
	assert.Contains(t, rec.Body.String(), signInToProfile)

	rec = e.do(http.MethodGet, "/profile", nil, "user-1")
	assert.Contains(t, rec.Body.String(), `name="fullName"`, "a new profile opens in edit mode")

	rec = e.do(http.MethodPost, "/profile", url.Values{"fullName": {""}, "phone": {"12"}}, "user-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Full name is required")
	assert.Contains(t, rec.Body.String(), "Phone must be 8 digits")

	rec = e.do(http.MethodPost, "/profile", url.Values{"fullName": {"Ann Lee"}, "phone": {"9123 4567"}, "timezone": {"Asia/Tokyo"}}, "user-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), profileSaved)
	assert.Contains(t, rec.Body.String(), "Loyalty points: 0")

	saved := e.backend.profiles["user-1"]
	require.NotNil(t, saved)
	assert.Equal(t, "Asia/Tokyo", saved.Timezone)
	assert.True(t, saved.Preferences.SMSReminders, "preferences keep their defaults")

	// header now greets by name
	rec = e.do(http.MethodGet, "/services", nil, "user-1")
	assert.Contains(t, rec.Body.String(), ">Ann Lee</a>")
}

func TestProfileLoadedOncePerRequest(t *testing.T) {
	e := newEnv(t)
	e.backend.profiles["user-1"] = &model.Profile{UserID: "user-1", FullName: "Ann Lee"}

	for _, path := range []string{"/", "/services", "/appointments", "/profile"} {
		e.backend.loads = 0
		rec := e.do(http.MethodGet, path, nil, "user-1")
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), ">Ann Lee</a>", path)
		assert.Equal(t, 1, e.backend.loads, path)
	}

	e.backend.loads = 0
	rec := e.do(http.MethodPost, "/profile", url.Values{"fullName": {"Ann Chan"}, "phone": {"9123 4567"}}, "user-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ">Ann Chan</a>", "header shows the saved name")
	assert.Equal(t, 1, e.backend.loads)

	e.backend.loads = 0
	e.do(http.MethodGet, "/services", nil, "")
	assert.Zero(t, e.backend.loads, "anonymous pages never look up a profile")
}

func TestForgotPassword(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodPost, "/auth/forgot", url.Values{"email": {"nope"}}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enter a valid email to request reset.")

	rec = e.do(http.MethodPost, "/auth/forgot", url.Values{"email": {"ghost@b.com"}}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), resetSent)
	assert.Equal(t, 1, e.accounts.resets)
}

func TestResetPassword(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodPost, "/auth/reset", url.Values{"password": {"newpass123"}, "confirm": {"newpass123"}}, "")
	assert.Contains(t, rec.Body.String(), "Recovery link not detected.")

	rec = e.do(http.MethodPost, "/auth/reset", url.Values{"token": {"good"}, "password": {"newpass123"}, "confirm": {"other1234"}}, "")
	assert.Contains(t, rec.Body.String(), "Passwords do not match.")

	rec = e.do(http.MethodPost, "/auth/reset", url.Values{"token": {"stale"}, "password": {"newpass123"}, "confirm": {"newpass123"}}, "")
	assert.Contains(t, rec.Body.String(), "invalid or has expired")

	rec = e.do(http.MethodPost, "/auth/reset?access_token=good", url.Values{"password": {"newpass123"}, "confirm": {"newpass123"}}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password updated. You can now continue.")
}

func TestStatusAndHealth(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, "ok", rec.Body.String())

	rec = e.do(http.MethodGet, "/status", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Supabase env OK")
	assert.Contains(t, rec.Body.String(), "Backend reachable")

	e.backend.pingErr = booking.ErrBackendNotConfigured
	rec = e.do(http.MethodGet, "/status", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Backend unreachable")
}

func TestNotFound(t *testing.T) {
	e := newEnv(t)
	rec := e.do(http.MethodGet, "/nowhere", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not be found")
}

func TestMetricsUseRouteTemplates(t *testing.T) {
	e := newEnv(t)
	e.do(http.MethodGet, "/services", nil, "")
	rec := e.do(http.MethodGet, "/metrics", nil, "")
	assert.Contains(t, rec.Body.String(), `salon_web_http_requests_total{method="GET",route="/services",status="200"} 1`)
}
