package booking

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"salon-booking/internal/model"
)

const MinPasswordLen = 8

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidEmail(email string) bool { return emailRe.MatchString(email) }

// ValidateCredentials mirrors the sign-in rules. It does not replace the
// provider's own checks.
func ValidateCredentials(email, password string) error {
	if email == "" || !ValidEmail(email) {
		return invalid("email", "Please enter a valid email.")
	}
	if len(password) < MinPasswordLen {
		return invalid("password", "Password must be at least 8 characters.")
	}
	return nil
}

func ValidateNewPassword(password, confirm string) error {
	if len(password) < MinPasswordLen {
		return invalid("password", "Password must be at least 8 characters.")
	}
	if password != confirm {
		return invalid("confirm", "Passwords do not match.")
	}
	return nil
}

// ValidateProfile returns every failing field at once so forms can show them together.
func ValidateProfile(p *model.Profile) error {
	fields := map[string]string{}
	if strings.TrimSpace(p.FullName) == "" {
		fields["fullName"] = "Full name is required"
	}
	if digits(p.Phone) != 8 {
		fields["phone"] = "Phone must be 8 digits"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func digits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// Request is a booking attempt as entered on the form.
type Request struct {
	UserID    string
	ServiceID string
	StylistID string // empty means any available stylist
	Date      string
	Time      string
	Notes     string

	// filled by Validate
	Start time.Time
	End   time.Time
}

// AnyStylist is the form value for "Any available stylist".
const AnyStylist = "ANY"

// Validate checks the form and resolves Start/End in loc.
func (r *Request) Validate(now time.Time, loc *time.Location) error {
	if r.StylistID == AnyStylist {
		r.StylistID = ""
	}
	if r.ServiceID == "" || r.Date == "" || r.Time == "" {
		return invalid("form", "Please select a service, date, and time.")
	}
	svc, ok := ServiceByID(r.ServiceID)
	if !ok {
		return invalid("serviceId", "Unknown service.")
	}
	date, err := ParseDate(r.Date, loc)
	if err != nil {
		return invalid("date", "Please select a valid date.")
	}
	if !InWindow(date, now) {
		return invalid("date", "Select a date within the next 45 days.")
	}
	if !IsGridSlot(r.Time) {
		return invalid("time", "Please select a valid time slot.")
	}
	if !SlotOpen(date, r.Time, now) {
		return invalid("time", "That time has already passed.")
	}
	r.Start, _ = SlotStart(date, r.Time)
	r.End = r.Start.Add(time.Duration(svc.DurationMinutes) * time.Minute)
	return nil
}
