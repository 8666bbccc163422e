package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"salon-booking/internal/booking"
	"salon-booking/internal/model"
)

// UserStore is the persistence Local needs. Lookups return
// booking.ErrNotFound for missing rows.
type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UserByID(ctx context.Context, id string) (*model.User, error)
	UpdatePassword(ctx context.Context, userID, hash string) error

	CreateRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (string, error)
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	RotateRefreshToken(ctx context.Context, oldID, newID, userID, newHash string, newExpiry time.Time) error
	RevokeAllRefreshTokens(ctx context.Context, userID string) error

	CreatePasswordReset(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	ConsumePasswordReset(ctx context.Context, tokenHash string) (string, error)
}

// ResetSender delivers password reset links.
type ResetSender interface {
	SendReset(ctx context.Context, email, link string) error
}

// LogSender writes reset links to the log instead of sending mail.
type LogSender struct {
	Log *zap.Logger
}

func (s LogSender) SendReset(_ context.Context, email, link string) error {
	s.Log.Info("password reset link", zap.String("email", email), zap.String("link", link))
	return nil
}

// Local authenticates against this service's own users table.
type Local struct {
	users      UserStore
	secret     string
	refreshTTL time.Duration
	resetTTL   time.Duration
	resetURL   string
	sender     ResetSender
	log        *zap.Logger
	now        func() time.Time
}

type LocalOption func(*Local)

func WithRefreshTTL(d time.Duration) LocalOption { return func(l *Local) { l.refreshTTL = d } }

func WithResetTTL(d time.Duration) LocalOption { return func(l *Local) { l.resetTTL = d } }

// WithResetURL sets the page reset links point at when the caller gives none.
func WithResetURL(u string) LocalOption { return func(l *Local) { l.resetURL = u } }

func WithResetSender(s ResetSender) LocalOption { return func(l *Local) { l.sender = s } }

func NewLocal(users UserStore, secret string, log *zap.Logger, opts ...LocalOption) *Local {
	if log == nil {
		log = zap.NewNop()
	}
	l := &Local{
		users:      users,
		secret:     secret,
		refreshTTL: 7 * 24 * time.Hour,
		resetTTL:   time.Hour,
		sender:     LogSender{Log: log},
		log:        log,
		now:        time.Now,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *Local) SignUp(ctx context.Context, email, password, name string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := booking.ValidateCredentials(email, password); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{ID: uuid.New().String(), Email: email, PasswordHash: hash, Name: name}
	if err := l.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	l.log.Info("user registered", zap.String("user_id", u.ID))
	return l.issue(ctx, u)
}

func (l *Local) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := l.users.UserByEmail(ctx, email)
	if errors.Is(err, booking.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return l.issue(ctx, u)
}

func (l *Local) issue(ctx context.Context, u *model.User) (*Session, error) {
	access, err := MakeToken(u.ID, u.Email, l.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	raw, hash, err := GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	if _, err := l.users.CreateRefreshToken(ctx, u.ID, hash, l.now().Add(l.refreshTTL)); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &Session{
		AccessToken:  access,
		RefreshToken: raw,
		ExpiresAt:    l.now().Add(AccessTTL),
		UserID:       u.ID,
		Email:        u.Email,
		Name:         u.Name,
	}, nil
}

// Refresh rotates a refresh token. Presenting an already rotated token
// revokes every token of that user.
func (l *Local) Refresh(ctx context.Context, raw string) (*Session, error) {
	if raw == "" {
		return nil, ErrBadToken
	}
	rt, err := l.users.GetRefreshTokenByHash(ctx, HashRefreshToken(raw))
	if errors.Is(err, booking.ErrNotFound) {
		return nil, ErrBadToken
	}
	if err != nil {
		return nil, err
	}
	if rt.Revoked {
		l.log.Warn("refresh token reuse", zap.String("user_id", rt.UserID))
		if err := l.users.RevokeAllRefreshTokens(ctx, rt.UserID); err != nil {
			return nil, err
		}
		return nil, ErrBadToken
	}
	if l.now().After(rt.ExpiresAt) {
		return nil, ErrBadToken
	}

	u, err := l.users.UserByID(ctx, rt.UserID)
	if err != nil {
		return nil, err
	}
	newRaw, newHash, err := GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	err = l.users.RotateRefreshToken(ctx, rt.ID, uuid.New().String(), u.ID, newHash, l.now().Add(l.refreshTTL))
	if errors.Is(err, booking.ErrNotFound) {
		return nil, ErrBadToken
	}
	if err != nil {
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	access, err := MakeToken(u.ID, u.Email, l.secret)
	if err != nil {
		return nil, err
	}
	return &Session{
		AccessToken:  access,
		RefreshToken: newRaw,
		ExpiresAt:    l.now().Add(AccessTTL),
		UserID:       u.ID,
		Email:        u.Email,
		Name:         u.Name,
	}, nil
}

func (l *Local) SignOut(ctx context.Context, userID, _ string) error {
	if userID == "" {
		return nil
	}
	return l.users.RevokeAllRefreshTokens(ctx, userID)
}

// RequestPasswordReset never reports whether the address exists.
func (l *Local) RequestPasswordReset(ctx context.Context, email, redirectTo string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !booking.ValidEmail(email) {
		return nil
	}
	u, err := l.users.UserByEmail(ctx, email)
	if errors.Is(err, booking.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	raw, hash, err := GenerateRefreshToken()
	if err != nil {
		return err
	}
	if err := l.users.CreatePasswordReset(ctx, u.ID, hash, l.now().Add(l.resetTTL)); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	link, err := resetLink(redirectTo, l.resetURL, raw)
	if err != nil {
		return err
	}
	return l.sender.SendReset(ctx, u.Email, link)
}

func resetLink(redirectTo, fallback, token string) (string, error) {
	base := redirectTo
	if base == "" {
		base = fallback
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("reset url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (l *Local) ResetPassword(ctx context.Context, token, password string) error {
	if len(password) < booking.MinPasswordLen {
		return booking.ValidateNewPassword(password, password)
	}
	if token == "" {
		return ErrBadToken
	}
	userID, err := l.users.ConsumePasswordReset(ctx, HashRefreshToken(token))
	if errors.Is(err, booking.ErrNotFound) {
		return ErrBadToken
	}
	if err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if err := l.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	l.log.Info("password reset", zap.String("user_id", userID))
	return l.users.RevokeAllRefreshTokens(ctx, userID)
}
