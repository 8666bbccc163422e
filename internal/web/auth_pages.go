package web

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"salon-booking/internal/auth"
	"salon-booking/internal/booking"
)

const (
	resetSent     = "If an account exists for this email, we sent a reset link."
	authMissing   = "Auth unavailable: missing env"
	signupPending = "Signup successful. Check your email if confirmations are enabled."
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "home", map[string]any{"Title": "Salon Booking App"})
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", map[string]any{"Title": "Login", "Mode": "login"})
}

func (s *Server) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", map[string]any{"Title": "Sign up", "Mode": "signup"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.credentials(w, r, "login")
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	s.credentials(w, r, "signup")
}

func (s *Server) credentials(w http.ResponseWriter, r *http.Request, mode string) {
	data := map[string]any{"Title": "Login", "Mode": mode}
	if mode == "signup" {
		data["Title"] = "Sign up"
	}
	if !s.opts.EnvReady {
		data["Error"] = authMissing
		s.render(w, r, http.StatusServiceUnavailable, "login", data)
		return
	}
	if err := r.ParseForm(); err != nil {
		data["Error"] = "Invalid form."
		s.render(w, r, http.StatusBadRequest, "login", data)
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	data["Email"] = email

	if err := booking.ValidateCredentials(email, password); err != nil {
		data["Error"] = booking.UserMessage(err)
		s.render(w, r, http.StatusBadRequest, "login", data)
		return
	}

	var (
		sess *auth.Session
		err  error
	)
	if mode == "signup" {
		sess, err = s.accounts.SignUp(r.Context(), email, password, r.PostFormValue("name"))
	} else {
		sess, err = s.accounts.SignIn(r.Context(), email, password)
	}
	if err != nil {
		status, msg := authFailure(err)
		if status == http.StatusInternalServerError {
			s.log.Error("auth form", zap.String("mode", mode), zap.Error(err))
		}
		data["Error"] = msg
		s.render(w, r, status, "login", data)
		return
	}
	if sess.AccessToken == "" {
		data["Message"] = signupPending
		s.render(w, r, http.StatusOK, "login", data)
		return
	}
	s.setSession(w, sess)
	msg := "Logged in successfully."
	if mode == "signup" {
		msg = "Signup successful."
	}
	redirectWithFlash(w, r, "/", msg)
}

func authFailure(err error) (int, string) {
	switch {
	case errors.Is(err, booking.ErrInvalidInput):
		return http.StatusBadRequest, booking.UserMessage(err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password."
	case errors.Is(err, auth.ErrEmailTaken):
		return http.StatusConflict, "Signup failed. Try signing in instead."
	case errors.Is(err, booking.ErrBackendNotConfigured):
		return http.StatusServiceUnavailable, authMissing
	}
	return http.StatusInternalServerError, "Something went wrong. Please try again."
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if id, ok := auth.FromContext(r.Context()); ok {
		if err := s.accounts.SignOut(r.Context(), id.UserID, id.Token); err != nil {
			s.log.Warn("sign out", zap.String("user_id", id.UserID), zap.Error(err))
		}
	}
	s.clearSession(w)
	redirectWithFlash(w, r, "/", "Logged out.")
}

func (s *Server) handleForgotForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "forgot", map[string]any{"Title": "Forgot password"})
}

// handleForgot gives the same answer whether or not the address is known.
func (s *Server) handleForgot(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"Title": "Forgot password"}
	email := strings.TrimSpace(r.PostFormValue("email"))
	data["Email"] = email
	if !booking.ValidEmail(email) {
		data["Error"] = "Enter a valid email to request reset."
		s.render(w, r, http.StatusBadRequest, "forgot", data)
		return
	}
	redirectTo := strings.TrimRight(s.opts.BaseURL, "/") + "/auth/reset"
	if err := s.accounts.RequestPasswordReset(r.Context(), email, redirectTo); err != nil {
		s.log.Warn("password reset request", zap.Error(err))
	}
	data["Message"] = resetSent
	s.render(w, r, http.StatusOK, "forgot", data)
}

// resetToken accepts the local ?token= link and the hosted provider's
// access_token, which the page script moves from the fragment to the query.
func resetToken(r *http.Request) string {
	for _, key := range []string{"token", "access_token"} {
		if v := strings.TrimSpace(r.FormValue(key)); v != "" {
			return v
		}
	}
	return ""
}

func (s *Server) handleResetForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "reset", map[string]any{
		"Title": "Reset Password",
		"Token": resetToken(r),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	token := resetToken(r)
	data := map[string]any{"Title": "Reset Password", "Token": token}
	if token == "" {
		data["Error"] = "Recovery link not detected. Please open the reset link from your email."
		s.render(w, r, http.StatusBadRequest, "reset", data)
		return
	}
	password, confirm := r.PostFormValue("password"), r.PostFormValue("confirm")
	if err := booking.ValidateNewPassword(password, confirm); err != nil {
		data["Error"] = booking.UserMessage(err)
		s.render(w, r, http.StatusBadRequest, "reset", data)
		return
	}
	if err := s.accounts.ResetPassword(r.Context(), token, password); err != nil {
		if errors.Is(err, auth.ErrBadToken) {
			data["Error"] = "This reset link is invalid or has expired."
			s.render(w, r, http.StatusBadRequest, "reset", data)
			return
		}
		s.log.Error("reset password", zap.Error(err))
		data["Error"] = "Something went wrong. Please try again."
		s.render(w, r, http.StatusInternalServerError, "reset", data)
		return
	}
	data["Token"] = ""
	data["Message"] = "Password updated. You can now continue."
	s.render(w, r, http.StatusOK, "reset", data)
}
