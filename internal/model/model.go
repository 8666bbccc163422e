package model

import "time"

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type RefreshToken struct {
	ID         string
	UserID     string
	TokenHash  string
	ExpiresAt  time.Time
	Revoked    bool
	ReplacedBy *string
	CreatedAt  time.Time
}

type Preferences struct {
	MarketingEmails bool `json:"marketingEmails"`
	SMSReminders    bool `json:"smsReminders"`
}

type Profile struct {
	UserID        string
	FullName      string
	Phone         string
	Timezone      string
	AvatarURL     string
	Preferences   Preferences
	LoyaltyPoints int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DefaultProfile is what a signed-in user sees before saving anything.
func DefaultProfile(userID string) *Profile {
	return &Profile{
		UserID:      userID,
		Timezone:    "America/New_York",
		Preferences: Preferences{MarketingEmails: true, SMSReminders: true},
	}
}

type Stylist struct {
	ID          string
	Name        string
	Bio         string
	Specialties []string
	Available   bool
	AvatarURL   string
}

type Service struct {
	ID              string
	Name            string
	Description     string
	DurationMinutes int
	PriceCents      int
	Category        string
	Popular         bool
}

type Appointment struct {
	ID        string
	UserID    string
	ServiceID string
	StylistID string
	Date      string // YYYY-MM-DD, salon local
	Time      string // HH:MM, salon local
	StartTime time.Time
	EndTime   time.Time
	Notes     string
	Status    string
	CreatedAt time.Time
}

type BusySlot struct {
	StylistID string
	Start     time.Time
	End       time.Time
}

type Availability struct {
	Available bool
	StylistID string
	Reason    string
}

// Reminder is an upcoming appointment whose owner opted into SMS reminders.
type Reminder struct {
	AppointmentID string
	UserID        string
	FullName      string
	Phone         string
	ServiceID     string
	StartTime     time.Time
}
