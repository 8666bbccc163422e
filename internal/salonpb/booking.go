package salonpb

import "time"

type Service struct {
	Id              string
	Name            string
	Description     string
	DurationMinutes int64
	PriceCents      int64
	Category        string
	Popular         bool
}

func (m *Service) MarshalWire() []byte {
	var e encoder
	e.str(1, m.Id)
	e.str(2, m.Name)
	e.str(3, m.Description)
	e.int(4, m.DurationMinutes)
	e.int(5, m.PriceCents)
	e.str(6, m.Category)
	e.boolean(7, m.Popular)
	return e.b
}

func (m *Service) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			m.Id = f.str()
		case 2:
			m.Name = f.str()
		case 3:
			m.Description = f.str()
		case 4:
			m.DurationMinutes = f.int()
		case 5:
			m.PriceCents = f.int()
		case 6:
			m.Category = f.str()
		case 7:
			m.Popular = f.boolean()
		}
		return nil
	})
}

type ListServicesResponse struct {
	Services []*Service
}

func (m *ListServicesResponse) MarshalWire() []byte {
	var e encoder
	for _, s := range m.Services {
		e.msg(1, s)
	}
	return e.b
}

func (m *ListServicesResponse) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		if f.num != 1 {
			return nil
		}
		s := &Service{}
		m.Services = append(m.Services, s)
		return f.into(s)
	})
}

type Stylist struct {
	Id          string
	Name        string
	Bio         string
	Specialties []string
	Available   bool
	AvatarUrl   string
}

func (m *Stylist) MarshalWire() []byte {
	var e encoder
	e.str(1, m.Id)
	e.str(2, m.Name)
	e.str(3, m.Bio)
	e.strs(4, m.Specialties)
	e.boolean(5, m.Available)
	e.str(6, m.AvatarUrl)
	return e.b
}

func (m *Stylist) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			m.Id = f.str()
		case 2:
			m.Name = f.str()
		case 3:
			m.Bio = f.str()
		case 4:
			m.Specialties = append(m.Specialties, f.str())
		case 5:
			m.Available = f.boolean()
		case 6:
			m.AvatarUrl = f.str()
		}
		return nil
	})
}

type ListStylistsResponse struct {
	Stylists []*Stylist
}

func (m *ListStylistsResponse) MarshalWire() []byte {
	var e encoder
	for _, s := range m.Stylists {
		e.msg(1, s)
	}
	return e.b
}

func (m *ListStylistsResponse) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		if f.num != 1 {
			return nil
		}
		s := &Stylist{}
		m.Stylists = append(m.Stylists, s)
		return f.into(s)
	})
}

type BusySlotsRequest struct {
	Date      string
	StylistId string
	ServiceId string
}

func (m *BusySlotsRequest) MarshalWire() []byte {
	var e encoder
	e.str(1, m.Date)
	e.str(2, m.StylistId)
	e.str(3, m.ServiceId)
	return e.b
}

func (m *BusySlotsRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			m.Date = f.str()
		case 2:
			m.StylistId = f.str()
		case 3:
			m.ServiceId = f.str()
		}
		return nil
	})
}

type Slot struct {
	Time      string
	Available bool
}

func (m *Slot) MarshalWire() []byte {
	var e encoder
	e.str(1, m.Time)
	e.boolean(2, m.Available)
	return e.b
}

func (m *Slot) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			m.Time = f.str()
		case 2:
			m.Available = f.boolean()
		}
		return nil
	})
}

type BusySlot struct {
	StylistId string
	Start     time.Time
	End       time.Time
}

func (m *BusySlot) MarshalWire() []byte {
	var e encoder
	e.str(1, m.StylistId)
	e.time(2, m.Start)
	e.time(3, m.End)
	return e.b
}

func (m *BusySlot) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.StylistId = f.str()
		case 2:
			m.Start, err = f.time()
		case 3:
			m.End, err = f.time()
		}
		return err
	})
}

type BusySlotsResponse struct {
	Slots []*Slot
	Busy  []*BusySlot
}

func (m *BusySlotsResponse) MarshalWire() []byte {
	var e encoder
	for _, s := range m.Slots {
		e.msg(1, s)
	}
	for _, s := range m.Busy {
		e.msg(2, s)
	}
	return e.b
}

func (m *BusySlotsResponse) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			s := &Slot{}
			m.Slots = append(m.Slots, s)
			return f.into(s)
		case 2:
			s := &BusySlot{}
			m.Busy = append(m.Busy, s)
			return f.into(s)
		}
		return nil
	})
}

// BookingRequest is used by CheckAvailability and BookAppointment. An empty
// or "ANY" stylist id asks the backend to assign one.
type BookingRequest struct {
	ServiceId string
	StylistId string
	Date      string
	Time      string
	Notes     string
}

func (m *BookingRequest) MarshalWire() []byte {
	var e encoder
	e.str(1, m.ServiceId)
	e.str(2, m.StylistId)
	e.str(3, m.Date)
	e.str(4, m.Time)
	e.str(5, m.Notes)
	return e.b
}

func (m *BookingRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			m.ServiceId = f.str()
		case 2:
			m.StylistId = f.str()
		case 3:
			m.Date = f.str()
		case 4:
			m.Time = f.str()
		case 5:
			m.Notes = f.str()
		}
		return nil
	})
}

type AvailabilityResponse struct {
	Available bool
	StylistId string
	Reason    string
}

func (m *AvailabilityResponse) MarshalWire() []byte {
	var e encoder
	e.boolean(1, m.Available)
	e.str(2, m.StylistId)
	e.str(3, m.Reason)
	return e.b
}

func (m *AvailabilityResponse) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			m.Available = f.boolean()
		case 2:
			m.StylistId = f.str()
		case 3:
			m.Reason = f.str()
		}
		return nil
	})
}

type Appointment struct {
	Id        string
	UserId    string
	ServiceId string
	StylistId string
	Date      string
	Time      string
	StartTime time.Time
	EndTime   time.Time
	Notes     string
	Status    string
	CreatedAt time.Time
}

func (m *Appointment) MarshalWire() []byte {
	var e encoder
	e.str(1, m.Id)
	e.str(2, m.UserId)
	e.str(3, m.ServiceId)
	e.str(4, m.StylistId)
	e.str(5, m.Date)
	e.str(6, m.Time)
	e.time(7, m.StartTime)
	e.time(8, m.EndTime)
	e.str(9, m.Notes)
	e.str(10, m.Status)
	e.time(11, m.CreatedAt)
	return e.b
}

func (m *Appointment) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Id = f.str()
		case 2:
			m.UserId = f.str()
		case 3:
			m.ServiceId = f.str()
		case 4:
			m.StylistId = f.str()
		case 5:
			m.Date = f.str()
		case 6:
			m.Time = f.str()
		case 7:
			m.StartTime, err = f.time()
		case 8:
			m.EndTime, err = f.time()
		case 9:
			m.Notes = f.str()
		case 10:
			m.Status = f.str()
		case 11:
			m.CreatedAt, err = f.time()
		}
		return err
	})
}

type AppointmentResponse struct {
	Appointment *Appointment
}

func (m *AppointmentResponse) MarshalWire() []byte {
	var e encoder
	if m.Appointment != nil {
		e.msg(1, m.Appointment)
	}
	return e.b
}

func (m *AppointmentResponse) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		if f.num == 1 {
			m.Appointment = &Appointment{}
			return f.into(m.Appointment)
		}
		return nil
	})
}

type ListAppointmentsResponse struct {
	Appointments []*Appointment
}

func (m *ListAppointmentsResponse) MarshalWire() []byte {
	var e encoder
	for _, a := range m.Appointments {
		e.msg(1, a)
	}
	return e.b
}

func (m *ListAppointmentsResponse) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		if f.num != 1 {
			return nil
		}
		a := &Appointment{}
		m.Appointments = append(m.Appointments, a)
		return f.into(a)
	})
}

type IDRequest struct {
	Id string
}

func (m *IDRequest) MarshalWire() []byte {
	var e encoder
	e.str(1, m.Id)
	return e.b
}

func (m *IDRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		if f.num == 1 {
			m.Id = f.str()
		}
		return nil
	})
}
