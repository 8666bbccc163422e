// Package web is the server-rendered salon frontend. It keeps no booking rules
// of its own: forms are checked with the booking validation mirror and every
// decision is left to booking.Service and its backend.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"salon-booking/internal/auth"
	"salon-booking/internal/booking"
	"salon-booking/internal/grpcweb"
	"salon-booking/internal/metrics"
	"salon-booking/internal/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options are the deployment facts the pages need.
type Options struct {
	CookieSecure bool
	BaseURL      string // used to build password reset links
	Backend      string // "postgres" or "supabase"
	EnvReady     bool   // backend credentials present
}

type Server struct {
	svc      *booking.Service
	accounts auth.Provider
	verifier auth.Verifier
	opts     Options
	tpl      *template.Template
	router   *mux.Router
	metrics  *metrics.Metrics
	limiter  *middleware.RateLimiter
	bridge   http.Handler
	log      *zap.Logger
}

type Option func(*Server)

// WithMetrics instruments every route and serves /metrics.
func WithMetrics(m *metrics.Metrics) Option { return func(s *Server) { s.metrics = m } }

// WithLimiter throttles the auth form posts.
func WithLimiter(rl *middleware.RateLimiter) Option { return func(s *Server) { s.limiter = rl } }

// WithBridge mounts the grpc-web bridge under its service prefix.
func WithBridge(h http.Handler) Option { return func(s *Server) { s.bridge = h } }

func New(svc *booking.Service, accounts auth.Provider, verifier auth.Verifier, opts Options, log *zap.Logger, options ...Option) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	tpl, err := template.New("base").Funcs(template.FuncMap{
		"price":    booking.FormatPrice,
		"isActive": IsActive,
	}).ParseFS(sub, "*.html")
	if err != nil {
		return nil, err
	}
	s := &Server{
		svc:      svc,
		accounts: accounts,
		verifier: verifier,
		opts:     opts,
		tpl:      tpl,
		router:   mux.NewRouter(),
		log:      log,
	}
	for _, o := range options {
		o(s)
	}
	s.routes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

func (s *Server) routes() {
	r := s.router
	if s.metrics != nil {
		r.Use(middleware.Instrument(s.metrics, s.log))
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}
	if s.limiter != nil {
		r.Use(mux.MiddlewareFunc(middleware.LimitForms(s.limiter, "/auth/login", "/auth/signup", "/auth/forgot", "/auth/reset")))
	}
	if s.bridge != nil {
		r.PathPrefix(grpcweb.Prefix).Handler(s.bridge)
	}

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)

	pages := r.NewRoute().Subrouter()
	pages.Use(s.withSession)
	pages.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	pages.HandleFunc("/services", s.handleServices).Methods(http.MethodGet)
	pages.HandleFunc("/appointments", s.handleAppointments).Methods(http.MethodGet)
	pages.HandleFunc("/appointments/new", s.handleBookForm).Methods(http.MethodGet)
	pages.HandleFunc("/appointments/new", s.handleBook).Methods(http.MethodPost)
	pages.HandleFunc("/appointments/{id}/cancel", s.handleCancel).Methods(http.MethodPost)
	pages.HandleFunc("/profile", s.handleProfile).Methods(http.MethodGet)
	pages.HandleFunc("/profile", s.handleProfileSave).Methods(http.MethodPost)
	pages.HandleFunc("/auth/login", s.handleLoginForm).Methods(http.MethodGet)
	pages.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	pages.HandleFunc("/auth/signup", s.handleSignupForm).Methods(http.MethodGet)
	pages.HandleFunc("/auth/signup", s.handleSignup).Methods(http.MethodPost)
	pages.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	pages.HandleFunc("/auth/forgot", s.handleForgotForm).Methods(http.MethodGet)
	pages.HandleFunc("/auth/forgot", s.handleForgot).Methods(http.MethodPost)
	pages.HandleFunc("/auth/reset", s.handleResetForm).Methods(http.MethodGet)
	pages.HandleFunc("/auth/reset", s.handleReset).Methods(http.MethodPost)

	r.NotFoundHandler = s.withSession(http.HandlerFunc(s.handleNotFound))
}

// render adds the layout data every page shares.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["Path"] = r.URL.Path
	data["Nav"] = NavItems
	data["EnvReady"] = s.opts.EnvReady
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = flashFromRequest(r)
	}
	if id, ok := auth.FromContext(r.Context()); ok {
		data["User"] = id
		data["UserName"] = s.displayName(r, id)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tpl.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("template render failed", zap.String("template", name), zap.Error(err))
	}
}

// displayName prefers the profile's full name and falls back to the email.
func (s *Server) displayName(r *http.Request, id auth.Identity) string {
	p, found, err := s.profileOf(r)
	if err == nil && found && strings.TrimSpace(p.FullName) != "" {
		return p.FullName
	}
	return id.Email
}

func flashFromRequest(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("flash"))
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, target, message string) {
	u, err := url.Parse(target)
	if err != nil || target == "" {
		u = &url.URL{Path: "/"}
	}
	if message != "" {
		q := u.Query()
		q.Set("flash", message)
		u.RawQuery = q.Encode()
	}
	http.Redirect(w, r, u.String(), http.StatusSeeOther)
}
