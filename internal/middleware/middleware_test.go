package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"salon-booking/internal/auth"
	"salon-booking/internal/metrics"
	pb "salon-booking/internal/salonpb"
)

const secret = "test-secret"

func info(method string) *grpc.UnaryServerInfo {
	return &grpc.UnaryServerInfo{FullMethod: pb.FullMethod(method)}
}

func withToken(tok string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+tok))
}

// echoes the caller's id
func whoami(ctx context.Context, _ any) (any, error) { return auth.UserID(ctx), nil }

func TestAuthInterceptor(t *testing.T) {
	intercept := Auth(auth.JWTVerifier{Secret: secret})
	good, err := auth.MakeToken("user-1", "a@b.com", secret)
	require.NoError(t, err)
	forged, err := auth.MakeToken("user-1", "a@b.com", "other-secret")
	require.NoError(t, err)

	tests := []struct {
		name   string
		ctx    context.Context
		method string
		code   codes.Code
		uid    string
	}{
		{"open without token", context.Background(), "ListServices", codes.OK, ""},
		{"open with token", withToken(good), "ListStylists", codes.OK, "user-1"},
		{"open with bad token", withToken(forged), "GetBusySlots", codes.OK, ""},
		{"protected without token", context.Background(), "BookAppointment", codes.Unauthenticated, ""},
		{"protected with forged token", withToken(forged), "GetProfile", codes.Unauthenticated, ""},
		{"protected with token", withToken(good), "ListAppointments", codes.OK, "user-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := intercept(tt.ctx, nil, info(tt.method), whoami)
			assert.Equal(t, tt.code, status.Code(err))
			if err == nil {
				assert.Equal(t, tt.uid, resp)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "", BearerToken(context.Background()))
	assert.Equal(t, "abc", BearerToken(withToken("abc")))
}

func fromPeer(ip string, md metadata.MD) context.Context {
	ctx := peer.NewContext(context.Background(), &peer.Peer{Addr: &net.TCPAddr{IP: net.ParseIP(ip), Port: 4000}})
	if md != nil {
		ctx = metadata.NewIncomingContext(ctx, md)
	}
	return ctx
}

func TestRateLimitInterceptor(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	defer rl.Close()
	var hits []string
	rl.OnLimit = func(route string) { hits = append(hits, route) }
	intercept := RateLimit(rl)

	ctx := fromPeer("10.0.0.5", nil)
	_, err := intercept(ctx, nil, info("Login"), whoami)
	require.NoError(t, err)
	_, err = intercept(ctx, nil, info("Login"), whoami)
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
	assert.Equal(t, []string{pb.FullMethod("Login")}, hits)

	// unlimited methods pass regardless
	_, err = intercept(ctx, nil, info("ListServices"), whoami)
	assert.NoError(t, err)

	// another client has its own bucket
	_, err = intercept(fromPeer("10.0.0.6", nil), nil, info("Login"), whoami)
	assert.NoError(t, err)
}

func TestClientKeyUsesForwardedOnLoopback(t *testing.T) {
	md := metadata.Pairs("x-forwarded-for", "203.0.113.9")
	assert.Equal(t, "203.0.113.9", clientKey(fromPeer("127.0.0.1", md)))
	// a remote peer can't pick its own key
	assert.Equal(t, "10.0.0.5", clientKey(fromPeer("10.0.0.5", md)))
	assert.Equal(t, "unknown", clientKey(context.Background()))
}

func TestLimitForms(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	defer rl.Close()
	h := LimitForms(rl, "/auth/login")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(method, path string) int {
		req := httptest.NewRequest(method, path, nil)
		req.RemoteAddr = "198.51.100.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusNoContent, do(http.MethodPost, "/auth/login"))
	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodPost, "/auth/login"))
	assert.Equal(t, http.StatusNoContent, do(http.MethodGet, "/auth/login"))
	assert.Equal(t, http.StatusNoContent, do(http.MethodPost, "/auth/signup"))
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestObserve(t *testing.T) {
	m := metrics.New()
	intercept := Observe(m, zap.NewNop())

	_, err := intercept(context.Background(), nil, info("GetAppointment"), func(context.Context, any) (any, error) {
		return nil, status.Error(codes.NotFound, "not found")
	})
	assert.Equal(t, codes.NotFound, status.Code(err))
	_, err = intercept(context.Background(), nil, info("Ping"), func(context.Context, any) (any, error) {
		return nil, errors.New("boom")
	})
	assert.Error(t, err)

	body := scrape(t, m)
	assert.Contains(t, body, `salon_grpc_calls_total{code="NotFound",method="GetAppointment"} 1`)
	assert.Contains(t, body, `salon_grpc_calls_total{code="Unknown",method="Ping"} 1`)
}

func TestInstrumentUsesRouteTemplate(t *testing.T) {
	m := metrics.New()
	r := mux.NewRouter()
	r.Use(Instrument(m, zap.NewNop()))
	r.HandleFunc("/appointments/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointments/"+id, nil))
		assert.Equal(t, http.StatusAccepted, rec.Code)
	}

	body := scrape(t, m)
	assert.Contains(t, body, `salon_web_http_requests_total{method="GET",route="/appointments/{id}",status="202"} 2`)
}
