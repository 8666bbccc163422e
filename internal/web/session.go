package web

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"salon-booking/internal/auth"
	"salon-booking/internal/model"
)

const (
	accessCookie  = "salon_session"
	refreshCookie = "salon_refresh"
	refreshMaxAge = 7 * 24 * time.Hour
)

func (s *Server) setSession(w http.ResponseWriter, sess *auth.Session) {
	maxAge := int(time.Until(sess.ExpiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = int(auth.AccessTTL.Seconds())
	}
	http.SetCookie(w, s.cookie(accessCookie, sess.AccessToken, maxAge))
	if sess.RefreshToken != "" {
		http.SetCookie(w, s.cookie(refreshCookie, sess.RefreshToken, int(refreshMaxAge.Seconds())))
	}
}

func (s *Server) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie(accessCookie, "", -1))
	http.SetCookie(w, s.cookie(refreshCookie, "", -1))
}

func (s *Server) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// withSession resolves the session cookie into an auth.Identity on the
// request context. An expired access token is renewed once from the refresh
// cookie; anything else just leaves the request anonymous.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := s.identify(w, r); ok {
			ctx := auth.WithIdentity(r.Context(), id)
			r = r.WithContext(context.WithValue(ctx, viewerKey{}, &viewer{}))
		}
		next.ServeHTTP(w, r)
	})
}

type viewerKey struct{}

// viewer holds the signed-in user's profile for the rest of one request, so
// the page and the layout header share a single lookup.
type viewer struct {
	loaded  bool
	profile *model.Profile
	found   bool
	err     error
}

// profileOf loads the signed-in user's profile at most once per request.
func (s *Server) profileOf(r *http.Request) (*model.Profile, bool, error) {
	v, _ := r.Context().Value(viewerKey{}).(*viewer)
	if v == nil {
		return s.svc.Profile(r.Context(), auth.UserID(r.Context()))
	}
	if !v.loaded {
		v.profile, v.found, v.err = s.svc.Profile(r.Context(), auth.UserID(r.Context()))
		v.loaded = true
	}
	return v.profile, v.found, v.err
}

// rememberProfile replaces the request's profile after a successful save.
func rememberProfile(r *http.Request, p *model.Profile) {
	if v, _ := r.Context().Value(viewerKey{}).(*viewer); v != nil {
		v.profile, v.found, v.err, v.loaded = p, true, nil, true
	}
}

func (s *Server) identify(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	if c, err := r.Cookie(accessCookie); err == nil && c.Value != "" {
		if id, err := s.verifier.Verify(r.Context(), c.Value); err == nil {
			return id, true
		}
	}
	c, err := r.Cookie(refreshCookie)
	if err != nil || c.Value == "" {
		return auth.Identity{}, false
	}
	sess, err := s.accounts.Refresh(r.Context(), c.Value)
	if err != nil {
		s.log.Debug("session refresh failed", zap.Error(err))
		s.clearSession(w)
		return auth.Identity{}, false
	}
	s.setSession(w, sess)
	id, err := s.verifier.Verify(r.Context(), sess.AccessToken)
	if err != nil {
		return auth.Identity{}, false
	}
	return id, true
}
