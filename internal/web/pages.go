package web

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"salon-booking/internal/auth"
	"salon-booking/internal/booking"
	"salon-booking/internal/model"
)

const (
	signInToBook    = "Sign in is required to book appointments."
	signInToView    = "Sign in is required to view your appointments."
	signInToProfile = "Please sign in to save your profile."
	profileSaved    = "Profile saved successfully."
)

// authOrEnvIssue recognises failures the user fixes by signing in or by
// configuring the deployment, rather than by retrying.
var authOrEnvIssue = regexp.MustCompile(`(?i)not authenticated|supabase environment not configured`)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// handleStatus shows the env badge and a live backend ping.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"Title": "Status", "Backend": s.opts.Backend}
	switch {
	case s.opts.Backend == "supabase" && s.opts.EnvReady:
		data["Env"] = "Supabase env OK"
	case s.opts.Backend == "supabase":
		data["Env"] = "Supabase env missing"
	default:
		data["Env"] = "Database configured"
	}
	status := http.StatusOK
	if err := s.svc.Ping(r.Context()); err != nil {
		status = http.StatusServiceUnavailable
		data["PingError"] = booking.UserMessage(err)
	}
	s.render(w, r, status, "status", data)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "notfound", map[string]any{"Title": "Not found"})
}

func (s *Server) handleServices(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "services", map[string]any{
		"Title":    "Services",
		"Services": booking.Services(),
	})
}

type serviceCard struct {
	model.Service
	Selected bool
}

type bookForm struct {
	ServiceID string
	StylistID string
	Date      string
	Time      string
	Notes     string
}

// bookPage gathers everything the booking form shows. Stylist and slot
// failures are reported inline so the rest of the form still renders.
func (s *Server) bookPage(r *http.Request, f bookForm) map[string]any {
	ctx := r.Context()
	uid := auth.UserID(ctx)
	f.ServiceID = booking.DefaultServiceID(f.ServiceID)
	if f.StylistID == "" {
		f.StylistID = booking.AnyStylist
	}

	cards := make([]serviceCard, 0, len(booking.Services()))
	for _, svc := range booking.Services() {
		cards = append(cards, serviceCard{Service: svc, Selected: svc.ID == f.ServiceID})
	}
	from, to := booking.Window(s.svc.Now())
	data := map[string]any{
		"Title":    "Book an appointment",
		"Services": cards,
		"Form":     f,
		"MinDate":  booking.FormatDate(from),
		"MaxDate":  booking.FormatDate(to),
		"SignedIn": uid != "",
	}

	stylists, err := s.svc.Stylists(ctx, uid)
	if err != nil {
		data["StylistsError"] = booking.UserMessage(err)
	} else {
		data["Stylists"] = booking.Available(stylists)
	}

	if f.Date != "" {
		slots, err := s.svc.Slots(ctx, f.Date, f.ServiceID, f.StylistID, uid)
		if err != nil {
			data["SlotsError"] = booking.UserMessage(err)
		} else {
			data["Slots"] = slots
		}
	}
	return data
}

func formFromRequest(r *http.Request) bookForm {
	return bookForm{
		ServiceID: strings.TrimSpace(r.FormValue("service")),
		StylistID: strings.TrimSpace(r.FormValue("stylist")),
		Date:      strings.TrimSpace(r.FormValue("date")),
		Time:      strings.TrimSpace(r.FormValue("time")),
		Notes:     strings.TrimSpace(r.FormValue("notes")),
	}
}

func (s *Server) handleBookForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "book", s.bookPage(r, formFromRequest(r)))
}

// handleBook runs the check-then-book flow and shows the backend's answer
// unchanged. Success redirects to the list (post/redirect/get).
func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	f := formFromRequest(r)
	id, ok := auth.FromContext(r.Context())
	if !ok {
		data := s.bookPage(r, f)
		data["Error"] = signInToBook
		s.render(w, r, http.StatusUnauthorized, "book", data)
		return
	}

	appt, err := s.svc.Book(r.Context(), &booking.Request{
		UserID:    id.UserID,
		ServiceID: f.ServiceID,
		StylistID: f.StylistID,
		Date:      f.Date,
		Time:      f.Time,
		Notes:     f.Notes,
	})
	if s.metrics != nil {
		s.metrics.Booking(err)
	}
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, booking.ErrSlotUnavailable):
			status = http.StatusConflict
		case errors.Is(err, booking.ErrInvalidInput):
		default:
			status = http.StatusBadGateway
			s.log.Error("book appointment", zap.String("user_id", id.UserID), zap.Error(err))
		}
		data := s.bookPage(r, f)
		data["Error"] = booking.UserMessage(err)
		s.render(w, r, status, "book", data)
		return
	}
	redirectWithFlash(w, r, "/appointments", "Appointment booked for "+displayDate(appt.Date)+" at "+appt.Time+".")
}

type appointmentView struct {
	ID          string
	When        string
	Service     string
	Stylist     string
	Notes       string
	Status      string
	Cancellable bool
}

// displayDate renders YYYY-MM-DD as "Jan 2, 2006", leaving anything else as is.
func displayDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2, 2006")
}

func (s *Server) handleAppointments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := map[string]any{"Title": "Appointments"}

	list, err := s.svc.Appointments(ctx, auth.UserID(ctx))
	if err != nil {
		msg := booking.UserMessage(err)
		if authOrEnvIssue.MatchString(err.Error()) {
			data["SignInRequired"] = signInToView
		} else {
			s.log.Error("list appointments", zap.Error(err))
			data["Error"] = msg
		}
		s.render(w, r, http.StatusOK, "appointments", data)
		return
	}

	names := map[string]string{}
	if stylists, err := s.svc.Stylists(ctx, ""); err != nil {
		data["StylistsError"] = booking.UserMessage(err)
	} else {
		for _, st := range stylists {
			names[st.ID] = st.Name
		}
	}

	views := make([]appointmentView, 0, len(list))
	for _, a := range list {
		stylist := names[a.StylistID]
		if stylist == "" {
			stylist = "Unknown"
		}
		service := a.ServiceID
		if svc, ok := booking.ServiceByID(a.ServiceID); ok {
			service = svc.Name
		}
		views = append(views, appointmentView{
			ID:          a.ID,
			When:        displayDate(a.Date) + " at " + a.Time,
			Service:     service,
			Stylist:     stylist,
			Notes:       a.Notes,
			Status:      a.Status,
			Cancellable: a.Status == model.StatusConfirmed && a.StartTime.After(s.svc.Now()),
		})
	}
	data["Appointments"] = views
	s.render(w, r, http.StatusOK, "appointments", data)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	err := s.svc.Cancel(r.Context(), id, auth.UserID(r.Context()))
	switch {
	case err == nil:
		redirectWithFlash(w, r, "/appointments", "Appointment cancelled.")
	case errors.Is(err, booking.ErrNotAuthenticated):
		redirectWithFlash(w, r, "/auth/login", signInToView)
	default:
		if !errors.Is(err, booking.ErrNotFound) {
			s.log.Error("cancel appointment", zap.String("appointment_id", id), zap.Error(err))
		}
		redirectWithFlash(w, r, "/appointments", booking.UserMessage(err))
	}
}

var timezones = []string{
	"America/New_York",
	"America/Los_Angeles",
	"Europe/London",
	"Europe/Berlin",
	"Asia/Tokyo",
	"Asia/Hong_Kong",
}

func timezoneChoices(current string) []string {
	for _, tz := range timezones {
		if tz == current {
			return timezones
		}
	}
	if current == "" {
		return timezones
	}
	return append([]string{current}, timezones...)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := map[string]any{"Title": "Profile"}
	uid := auth.UserID(ctx)
	if uid == "" {
		data["SignInRequired"] = signInToProfile
		s.render(w, r, http.StatusOK, "profile", data)
		return
	}
	p, found, err := s.profileOf(r)
	if err != nil {
		s.log.Error("load profile", zap.String("user_id", uid), zap.Error(err))
		data["Error"] = booking.UserMessage(err)
		s.render(w, r, http.StatusOK, "profile", data)
		return
	}
	data["Profile"] = p
	data["Exists"] = found
	data["Editing"] = r.URL.Query().Get("edit") == "1" || !found
	data["Timezones"] = timezoneChoices(p.Timezone)
	s.render(w, r, http.StatusOK, "profile", data)
}

func (s *Server) handleProfileSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := map[string]any{"Title": "Profile"}
	uid := auth.UserID(ctx)
	if uid == "" {
		data["SignInRequired"] = signInToProfile
		s.render(w, r, http.StatusUnauthorized, "profile", data)
		return
	}
	current, _, err := s.profileOf(r)
	if err != nil {
		current = model.DefaultProfile(uid)
	}

	// preferences and loyalty points are not editable here
	p := &model.Profile{
		UserID:        uid,
		FullName:      strings.TrimSpace(r.PostFormValue("fullName")),
		Phone:         strings.TrimSpace(r.PostFormValue("phone")),
		Timezone:      strings.TrimSpace(r.PostFormValue("timezone")),
		AvatarURL:     strings.TrimSpace(r.PostFormValue("avatarUrl")),
		Preferences:   current.Preferences,
		LoyaltyPoints: current.LoyaltyPoints,
	}
	data["Profile"] = p
	data["Timezones"] = timezoneChoices(p.Timezone)

	if err := s.svc.SaveProfile(ctx, p); err != nil {
		var ve *booking.ValidationError
		status := http.StatusBadRequest
		if errors.As(err, &ve) {
			data["FieldErrors"] = ve.Fields
		} else {
			status = http.StatusBadGateway
			s.log.Error("save profile", zap.String("user_id", uid), zap.Error(err))
			data["Error"] = "Failed to save profile"
		}
		data["Editing"] = true
		s.render(w, r, status, "profile", data)
		return
	}
	rememberProfile(r, p)
	data["Exists"] = true
	data["Editing"] = false
	data["Message"] = profileSaved
	s.render(w, r, http.StatusOK, "profile", data)
}
