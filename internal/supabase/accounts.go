package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"salon-booking/internal/auth"
)

// Accounts is auth.Provider backed by the GoTrue endpoints.
type Accounts struct {
	c   *Client
	now func() time.Time
}

func NewAccounts(c *Client) *Accounts {
	return &Accounts{c: c, now: time.Now}
}

var _ auth.Provider = (*Accounts)(nil)

func (a *Accounts) post(ctx context.Context, path string, body any) ([]byte, error) {
	resp, err := a.c.do(a.c.request(ctx).SetBody(body), http.MethodPost, path)
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// SignUp returns a session without tokens when the project requires e-mail
// confirmation.
func (a *Accounts) SignUp(ctx context.Context, email, password, name string) (*auth.Session, error) {
	body, err := a.post(ctx, "/auth/v1/signup", map[string]any{
		"email":    strings.ToLower(strings.TrimSpace(email)),
		"password": password,
		"data":     map[string]string{"full_name": name},
	})
	if err != nil {
		return nil, err
	}
	return a.session(body), nil
}

func (a *Accounts) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	body, err := a.post(ctx, "/auth/v1/token?grant_type=password", map[string]string{
		"email":    strings.ToLower(strings.TrimSpace(email)),
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	return a.session(body), nil
}

func (a *Accounts) Refresh(ctx context.Context, refreshToken string) (*auth.Session, error) {
	body, err := a.post(ctx, "/auth/v1/token?grant_type=refresh_token", map[string]string{
		"refresh_token": refreshToken,
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status < 500 {
			return nil, fmt.Errorf("%w: %s", auth.ErrBadToken, apiErr.Message)
		}
		return nil, err
	}
	return a.session(body), nil
}

// SignOut revokes the refresh tokens of the session behind accessToken.
func (a *Accounts) SignOut(ctx context.Context, _ string, accessToken string) error {
	r := a.c.request(ctx).SetAuthToken(accessToken)
	_, err := a.c.do(r, http.MethodPost, "/auth/v1/logout")
	return err
}

func (a *Accounts) RequestPasswordReset(ctx context.Context, email, redirectTo string) error {
	r := a.c.request(ctx).SetBody(map[string]string{"email": strings.ToLower(strings.TrimSpace(email))})
	if redirectTo != "" {
		r.SetQueryParam("redirect_to", redirectTo)
	}
	_, err := a.c.do(r, http.MethodPost, "/auth/v1/recover")
	return err
}

// ResetPassword updates the password of the recovery session token.
func (a *Accounts) ResetPassword(ctx context.Context, token, password string) error {
	r := a.c.request(ctx).SetAuthToken(token).SetBody(map[string]string{"password": password})
	_, err := a.c.do(r, http.MethodPut, "/auth/v1/user")
	return err
}

// Verify resolves an access token to its user.
func (a *Accounts) Verify(ctx context.Context, token string) (auth.Identity, error) {
	resp, err := a.c.do(a.c.request(ctx).SetAuthToken(token), http.MethodGet, "/auth/v1/user")
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden) {
			return auth.Identity{}, auth.ErrBadToken
		}
		return auth.Identity{}, err
	}
	u := gjson.ParseBytes(resp.Body())
	if u.Get("id").String() == "" {
		return auth.Identity{}, auth.ErrBadToken
	}
	return auth.Identity{UserID: u.Get("id").String(), Email: u.Get("email").String(), Token: token}, nil
}

func (a *Accounts) session(body []byte) *auth.Session {
	g := gjson.ParseBytes(body)
	user := g.Get("user")
	if !user.Exists() {
		user = g
	}
	s := &auth.Session{
		AccessToken:  g.Get("access_token").String(),
		RefreshToken: g.Get("refresh_token").String(),
		UserID:       user.Get("id").String(),
		Email:        user.Get("email").String(),
		Name:         user.Get("user_metadata.full_name").String(),
	}
	switch {
	case g.Get("expires_at").Int() > 0:
		s.ExpiresAt = time.Unix(g.Get("expires_at").Int(), 0)
	case g.Get("expires_in").Int() > 0:
		s.ExpiresAt = a.now().Add(time.Duration(g.Get("expires_in").Int()) * time.Second)
	}
	return s
}
