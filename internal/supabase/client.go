// Package supabase is the hosted backend: a PostgREST and GoTrue client over
// resty, plus implementations of booking.Backend and auth.Provider on top of it.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"salon-booking/internal/auth"
	"salon-booking/internal/booking"
)

// Config configures the client. URL and AnonKey come from the environment.
type Config struct {
	URL       string
	AnonKey   string
	Timeout   time.Duration
	Retries   int
	RetryWait time.Duration
	Breaker   BreakerConfig
	Logger    *zap.Logger
}

// EnvReady reports whether url is an http(s) URL and key is non-blank.
func EnvReady(rawURL, key string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return strings.TrimSpace(key) != ""
}

type Client struct {
	http    *resty.Client
	breaker *Breaker
	anonKey string
	log     *zap.Logger
}

// New returns booking.ErrBackendNotConfigured when the environment is not ready.
func New(cfg Config) (*Client, error) {
	if !EnvReady(cfg.URL, cfg.AnonKey) {
		return nil, booking.ErrBackendNotConfigured
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Retries == 0 {
		cfg.Retries = 3
	}
	if cfg.RetryWait == 0 {
		cfg.RetryWait = 100 * time.Millisecond
	}
	if cfg.Breaker == (BreakerConfig{}) {
		cfg.Breaker = DefaultBreakerConfig()
	}

	key := strings.TrimSpace(cfg.AnonKey)
	log := cfg.Logger.With(zap.String("component", "supabase"))
	hc := resty.New().
		SetBaseURL(strings.TrimRight(strings.TrimSpace(cfg.URL), "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("apikey", key).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetLogger(log.Sugar()).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(20 * cfg.RetryWait).
		AddRetryCondition(retryable).
		AddRetryHook(func(resp *resty.Response, err error) {
			status := 0
			if resp != nil {
				status = resp.StatusCode()
			}
			log.Warn("retrying request", zap.Int("status", status), zap.Error(err))
		})

	return &Client{
		http:    hc,
		breaker: NewBreaker(cfg.Breaker),
		anonKey: key,
		log:     log,
	}, nil
}

// retryable retries throttling always and server errors only on reads, so
// an insert is never sent twice.
func retryable(resp *resty.Response, err error) bool {
	if resp == nil || resp.Request == nil {
		return false
	}
	if resp.StatusCode() == http.StatusTooManyRequests {
		return true
	}
	switch resp.Request.Method {
	case http.MethodGet, http.MethodHead:
		return err != nil || resp.StatusCode() >= 500
	}
	return false
}

// request starts a call as the signed-in user when ctx carries one, so row
// level security applies; otherwise as the anonymous role.
func (c *Client) request(ctx context.Context) *resty.Request {
	token := c.anonKey
	if id, ok := auth.FromContext(ctx); ok && id.Token != "" {
		token = id.Token
	}
	return c.http.R().SetContext(ctx).SetAuthToken(token)
}

func (c *Client) do(r *resty.Request, method, path string) (*resty.Response, error) {
	if err := c.breaker.Allow(); err != nil {
		return nil, err
	}
	resp, err := r.Execute(method, path)
	if err != nil {
		c.breaker.Failure()
		return nil, fmt.Errorf("supabase %s %s: %w", method, path, err)
	}
	if resp.StatusCode() >= 500 || resp.StatusCode() == http.StatusTooManyRequests {
		c.breaker.Failure()
	} else {
		c.breaker.Success()
	}
	if resp.IsError() {
		return resp, parseError(resp.StatusCode(), resp.Body())
	}
	return resp, nil
}

// Health pings the auth service.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(c.request(ctx), http.MethodGet, "/auth/v1/health")
	return err
}

// RPC calls a database function through PostgREST and decodes the result
// into out when out is not nil.
func (c *Client) RPC(ctx context.Context, fn string, params, out any) error {
	if params == nil {
		params = map[string]any{}
	}
	resp, err := c.do(c.request(ctx).SetBody(params), http.MethodPost, "/rest/v1/rpc/"+fn)
	if err != nil {
		return err
	}
	return decode(resp.Body(), out)
}

func decode(body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode supabase response: %w", err)
	}
	return nil
}

// APIError is a non-2xx answer from PostgREST or GoTrue.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Is maps well-known codes onto the booking and auth sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case booking.ErrNotFound:
		return e.Code == "PGRST116" || e.Code == "22P02" || e.Code == "P0002"
	case booking.ErrSlotUnavailable:
		return e.Code == "23P01" || e.Code == "23505"
	case booking.ErrNotAuthenticated:
		return e.Status == http.StatusUnauthorized
	case auth.ErrInvalidCredentials:
		return e.Code == "invalid_credentials" || e.Code == "invalid_grant"
	case auth.ErrEmailTaken:
		return e.Code == "user_already_exists" || e.Code == "email_exists"
	}
	return false
}

var messageKeys = []string{"msg", "message", "error_description", "error"}

func parseError(status int, body []byte) *APIError {
	e := &APIError{Status: status}
	for _, k := range messageKeys {
		if v := gjson.GetBytes(body, k); v.Type == gjson.String && v.String() != "" {
			e.Message = v.String()
			break
		}
	}
	for _, k := range []string{"error_code", "code", "error"} {
		if v := gjson.GetBytes(body, k); v.Exists() && v.String() != "" {
			e.Code = v.String()
			break
		}
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("supabase: status %d", status)
	}
	return e
}
