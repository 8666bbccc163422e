package salonpb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func TestAppointmentWire(t *testing.T) {
	start := time.Date(2025, 3, 11, 2, 0, 0, 0, time.UTC)
	in := &ListAppointmentsResponse{Appointments: []*Appointment{
		{Id: "a1", UserId: "u1", ServiceId: "blowout", Date: "2025-03-11", Time: "10:00",
			StartTime: start, EndTime: start.Add(45 * time.Minute), Status: "confirmed"},
		{Id: "a2", Notes: "fringe only"},
	}}

	var out ListAppointmentsResponse
	require.NoError(t, out.UnmarshalWire(in.MarshalWire()))
	require.Len(t, out.Appointments, 2)
	assert.Equal(t, *in.Appointments[0], *out.Appointments[0])
	assert.Equal(t, "fringe only", out.Appointments[1].Notes)
	assert.True(t, out.Appointments[1].StartTime.IsZero())
}

func TestUnknownFieldsSkipped(t *testing.T) {
	b := (&LoginRequest{Email: "a@b.co", Password: "secret123"}).MarshalWire()
	b = protowire.AppendTag(b, 9, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, 42)
	b = protowire.AppendTag(b, 10, protowire.BytesType)
	b = protowire.AppendString(b, "ignored")

	var got LoginRequest
	require.NoError(t, got.UnmarshalWire(b))
	assert.Equal(t, "a@b.co", got.Email)
	assert.Equal(t, "secret123", got.Password)

	assert.Error(t, got.UnmarshalWire([]byte{0x0a, 0x10, 'x'}))
}

func TestRepeatedAndNested(t *testing.T) {
	in := &ListStylistsResponse{Stylists: []*Stylist{{Id: "s1", Name: "Ana", Specialties: []string{"Color", "Cuts"}, Available: true}}}
	var out ListStylistsResponse
	require.NoError(t, out.UnmarshalWire(in.MarshalWire()))
	assert.Equal(t, []string{"Color", "Cuts"}, out.Stylists[0].Specialties)
	assert.True(t, out.Stylists[0].Available)

	p := &GetProfileResponse{Profile: &Profile{FullName: "Ana", SmsReminders: true, LoyaltyPoints: 120}, Exists: true}
	var q GetProfileResponse
	require.NoError(t, q.UnmarshalWire(p.MarshalWire()))
	assert.Equal(t, *p.Profile, *q.Profile)
	assert.True(t, q.Exists)
}

func TestCodecFallsBackForGeneratedMessages(t *testing.T) {
	c := encoding.GetCodec("proto")
	require.NotNil(t, c)

	b, err := c.Marshal(&IDRequest{Id: "x"})
	require.NoError(t, err)
	var id IDRequest
	require.NoError(t, c.Unmarshal(b, &id))
	assert.Equal(t, "x", id.Id)

	ts := timestamppb.New(time.Unix(1700000000, 5))
	b, err = c.Marshal(ts)
	require.NoError(t, err)
	var back timestamppb.Timestamp
	require.NoError(t, c.Unmarshal(b, &back))
	assert.Equal(t, ts.Seconds, back.Seconds)
	assert.Equal(t, ts.Nanos, back.Nanos)
}
