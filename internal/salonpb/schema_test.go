package salonpb

import (
	"os"
	"regexp"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	messageDecl = regexp.MustCompile(`(?m)^message (\w+) \{([^}]*)\}`)
	fieldDecl   = regexp.MustCompile(`(?m)^\s+(?:repeated )?[\w.]+ \w+ = (\d+);`)
	rpcDecl     = regexp.MustCompile(`rpc (\w+)\((\w+)\) returns \((\w+)\)`)
)

func readSchema(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile("../../proto/salon/v1/salon.proto")
	require.NoError(t, err)
	return string(b)
}

// schemaFields maps every message in the .proto file to its field numbers.
func schemaFields(t *testing.T) map[string][]int {
	t.Helper()
	out := map[string][]int{}
	for _, m := range messageDecl.FindAllStringSubmatch(readSchema(t), -1) {
		nums := []int{}
		for _, f := range fieldDecl.FindAllStringSubmatch(m[2], -1) {
			n, err := strconv.Atoi(f[1])
			require.NoError(t, err)
			nums = append(nums, n)
		}
		sort.Ints(nums)
		out[m[1]] = nums
	}
	return out
}

func wireFields(t *testing.T, m Message) []int {
	t.Helper()
	seen := map[int]bool{}
	require.NoError(t, walk(m.MarshalWire(), func(f field) error {
		seen[int(f.num)] = true
		return nil
	}))
	nums := []int{}
	for n := range seen {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

func TestSchemaMatchesWireFormat(t *testing.T) {
	at := time.Date(2025, 3, 11, 2, 0, 0, 0, time.UTC)
	profile := &Profile{FullName: "Mei", Phone: "+852", Timezone: "Asia/Hong_Kong", AvatarUrl: "a.png",
		MarketingEmails: true, SmsReminders: true, LoyaltyPoints: 40}
	appt := &Appointment{Id: "a1", UserId: "u1", ServiceId: "blowout", StylistId: "s1", Date: "2025-03-11",
		Time: "10:00", StartTime: at, EndTime: at.Add(time.Hour), Notes: "n", Status: "confirmed", CreatedAt: at}

	// every field set, so each number shows up on the wire
	full := map[string]Message{
		"Empty":                &Empty{},
		"RegisterRequest":      &RegisterRequest{Email: "e", Password: "p", Name: "n"},
		"LoginRequest":         &LoginRequest{Email: "e", Password: "p"},
		"RefreshRequest":       &RefreshRequest{RefreshToken: "r"},
		"AuthResponse":         &AuthResponse{AccessToken: "a", RefreshToken: "r", UserId: "u", Name: "n", Email: "e", ExpiresAt: at},
		"PasswordResetRequest": &PasswordResetRequest{Email: "e", RedirectTo: "/reset"},
		"ResetPasswordRequest": &ResetPasswordRequest{Token: "t", Password: "p", Confirm: "p"},
		"MessageResponse":      &MessageResponse{Message: "m"},
		"Profile":              profile,
		"GetProfileResponse":   &GetProfileResponse{Profile: profile, Exists: true},
		"SaveProfileRequest":   &SaveProfileRequest{Profile: profile},
		"Service": &Service{Id: "blowout", Name: "Blowout", Description: "d", DurationMinutes: 45,
			PriceCents: 4500, Category: "styling", Popular: true},
		"ListServicesResponse": &ListServicesResponse{Services: []*Service{{Id: "blowout"}}},
		"Stylist": &Stylist{Id: "s1", Name: "Ana", Bio: "b", Specialties: []string{"color"},
			Available: true, AvatarUrl: "a.png"},
		"ListStylistsResponse":     &ListStylistsResponse{Stylists: []*Stylist{{Id: "s1"}}},
		"BusySlotsRequest":         &BusySlotsRequest{Date: "2025-03-11", StylistId: "ANY", ServiceId: "blowout"},
		"Slot":                     &Slot{Time: "10:00", Available: true},
		"BusySlot":                 &BusySlot{StylistId: "s1", Start: at, End: at.Add(time.Hour)},
		"BusySlotsResponse":        &BusySlotsResponse{Slots: []*Slot{{Time: "10:00"}}, Busy: []*BusySlot{{StylistId: "s1"}}},
		"BookingRequest":           &BookingRequest{ServiceId: "blowout", StylistId: "s1", Date: "2025-03-11", Time: "10:00", Notes: "n"},
		"AvailabilityResponse":     &AvailabilityResponse{Available: true, StylistId: "s1", Reason: "r"},
		"Appointment":              appt,
		"AppointmentResponse":      &AppointmentResponse{Appointment: appt},
		"ListAppointmentsResponse": &ListAppointmentsResponse{Appointments: []*Appointment{appt}},
		"IDRequest":                &IDRequest{Id: "a1"},
	}

	schema := schemaFields(t)
	require.Len(t, schema, len(full), "message count in salon.proto")
	for name, m := range full {
		t.Run(name, func(t *testing.T) {
			want, ok := schema[name]
			require.True(t, ok, "%s missing from salon.proto", name)
			assert.Equal(t, want, wireFields(t, m))
		})
	}
}

func TestSchemaListsEveryMethod(t *testing.T) {
	declared := map[string]bool{}
	for _, m := range rpcDecl.FindAllStringSubmatch(readSchema(t), -1) {
		declared[m[1]] = true
	}
	require.Len(t, declared, len(ServiceDesc.Methods))
	for _, m := range ServiceDesc.Methods {
		assert.True(t, declared[m.MethodName], "%s missing from salon.proto", m.MethodName)
	}
	assert.Equal(t, "salon/v1/salon.proto", ServiceDesc.Metadata)
	assert.Contains(t, readSchema(t), "package salon.v1;")
}
