package salonpb

type Profile struct {
	FullName        string
	Phone           string
	Timezone        string
	AvatarUrl       string
	MarketingEmails bool
	SmsReminders    bool
	LoyaltyPoints   int64
}

func (m *Profile) MarshalWire() []byte {
	var e encoder
	e.str(1, m.FullName)
	e.str(2, m.Phone)
	e.str(3, m.Timezone)
	e.str(4, m.AvatarUrl)
	e.boolean(5, m.MarketingEmails)
	e.boolean(6, m.SmsReminders)
	e.int(7, m.LoyaltyPoints)
	return e.b
}

func (m *Profile) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			m.FullName = f.str()
		case 2:
			m.Phone = f.str()
		case 3:
			m.Timezone = f.str()
		case 4:
			m.AvatarUrl = f.str()
		case 5:
			m.MarketingEmails = f.boolean()
		case 6:
			m.SmsReminders = f.boolean()
		case 7:
			m.LoyaltyPoints = f.int()
		}
		return nil
	})
}

type GetProfileResponse struct {
	Profile *Profile
	Exists  bool
}

func (m *GetProfileResponse) MarshalWire() []byte {
	var e encoder
	if m.Profile != nil {
		e.msg(1, m.Profile)
	}
	e.boolean(2, m.Exists)
	return e.b
}

func (m *GetProfileResponse) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			m.Profile = &Profile{}
			return f.into(m.Profile)
		case 2:
			m.Exists = f.boolean()
		}
		return nil
	})
}

type SaveProfileRequest struct {
	Profile *Profile
}

func (m *SaveProfileRequest) MarshalWire() []byte {
	var e encoder
	if m.Profile != nil {
		e.msg(1, m.Profile)
	}
	return e.b
}

func (m *SaveProfileRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		if f.num == 1 {
			m.Profile = &Profile{}
			return f.into(m.Profile)
		}
		return nil
	})
}
