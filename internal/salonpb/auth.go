package salonpb

import "time"

type RegisterRequest struct {
	Email    string
	Password string
	Name     string
}

func (m *RegisterRequest) MarshalWire() []byte {
	var e encoder
	e.str(1, m.Email)
	e.str(2, m.Password)
	e.str(3, m.Name)
	return e.b
}

func (m *RegisterRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			m.Email = f.str()
		case 2:
			m.Password = f.str()
		case 3:
			m.Name = f.str()
		}
		return nil
	})
}

type LoginRequest struct {
	Email    string
	Password string
}

func (m *LoginRequest) MarshalWire() []byte {
	var e encoder
	e.str(1, m.Email)
	e.str(2, m.Password)
	return e.b
}

func (m *LoginRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			m.Email = f.str()
		case 2:
			m.Password = f.str()
		}
		return nil
	})
}

// RefreshRequest is used by Refresh and Logout.
type RefreshRequest struct {
	RefreshToken string
}

func (m *RefreshRequest) MarshalWire() []byte {
	var e encoder
	e.str(1, m.RefreshToken)
	return e.b
}

func (m *RefreshRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		if f.num == 1 {
			m.RefreshToken = f.str()
		}
		return nil
	})
}

type AuthResponse struct {
	AccessToken  string
	RefreshToken string
	UserId       string
	Name         string
	Email        string
	ExpiresAt    time.Time
}

func (m *AuthResponse) MarshalWire() []byte {
	var e encoder
	e.str(1, m.AccessToken)
	e.str(2, m.RefreshToken)
	e.str(3, m.UserId)
	e.str(4, m.Name)
	e.str(5, m.Email)
	e.time(6, m.ExpiresAt)
	return e.b
}

func (m *AuthResponse) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.AccessToken = f.str()
		case 2:
			m.RefreshToken = f.str()
		case 3:
			m.UserId = f.str()
		case 4:
			m.Name = f.str()
		case 5:
			m.Email = f.str()
		case 6:
			m.ExpiresAt, err = f.time()
		}
		return err
	})
}

type PasswordResetRequest struct {
	Email      string
	RedirectTo string
}

func (m *PasswordResetRequest) MarshalWire() []byte {
	var e encoder
	e.str(1, m.Email)
	e.str(2, m.RedirectTo)
	return e.b
}

func (m *PasswordResetRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			m.Email = f.str()
		case 2:
			m.RedirectTo = f.str()
		}
		return nil
	})
}

type ResetPasswordRequest struct {
	Token    string
	Password string
	Confirm  string
}

func (m *ResetPasswordRequest) MarshalWire() []byte {
	var e encoder
	e.str(1, m.Token)
	e.str(2, m.Password)
	e.str(3, m.Confirm)
	return e.b
}

func (m *ResetPasswordRequest) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			m.Token = f.str()
		case 2:
			m.Password = f.str()
		case 3:
			m.Confirm = f.str()
		}
		return nil
	})
}

type MessageResponse struct {
	Message string
}

func (m *MessageResponse) MarshalWire() []byte {
	var e encoder
	e.str(1, m.Message)
	return e.b
}

func (m *MessageResponse) UnmarshalWire(b []byte) error {
	return walk(b, func(f field) error {
		if f.num == 1 {
			m.Message = f.str()
		}
		return nil
	})
}

type Empty struct{}

func (*Empty) MarshalWire() []byte { return nil }

func (*Empty) UnmarshalWire(b []byte) error {
	return walk(b, func(field) error { return nil })
}
