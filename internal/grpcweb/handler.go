// Package grpcweb lets browsers call SalonService: it unwraps grpc-web
// frames and forwards the raw message to the gRPC server.
package grpcweb

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	pb "salon-booking/internal/salonpb"
)

const maxBody = 1 << 20

// Bridge translates gRPC-Web (browser HTTP/1.1) into native gRPC over TCP.
type Bridge struct {
	conn *grpc.ClientConn
	log  *zap.Logger
}

// New dials the gRPC server at addr (e.g. "localhost:50051").
func New(addr string, log *zap.Logger) (*Bridge, error) {
	conn, err := grpc.NewClient(
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("grpcweb dial: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Bridge{conn: conn, log: log}, nil
}

func (b *Bridge) Close() error { return b.conn.Close() }

// Prefix is where the bridge is mounted.
const Prefix = "/" + pb.ServiceName + "/"

// Handler returns an http.Handler that translates gRPC-Web into gRPC.
func (b *Bridge) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, X-Grpc-Web, X-User-Agent, Authorization, x-grpc-web")
		w.Header().Set("Access-Control-Expose-Headers",
			"Grpc-Status, Grpc-Message, Grpc-Status-Details-Bin, grpc-status, grpc-message")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		ct := r.Header.Get("Content-Type")
		if !strings.HasPrefix(ct, "application/grpc-web") {
			http.Error(w, "not grpc-web", http.StatusUnsupportedMediaType)
			return
		}
		if !strings.HasPrefix(r.URL.Path, Prefix) {
			http.NotFound(w, r)
			return
		}
		b.forward(w, r, strings.HasPrefix(ct, "application/grpc-web-text"))
	})
}

func (b *Bridge) forward(w http.ResponseWriter, r *http.Request, text bool) {
	out := &frameWriter{w: w, text: text}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		out.trailer(codes.Internal, "read body failed")
		return
	}
	if text {
		if body, err = base64.StdEncoding.DecodeString(strings.TrimSpace(string(body))); err != nil {
			out.trailer(codes.InvalidArgument, "bad base64 body")
			return
		}
	}
	payload, err := unframe(body)
	if err != nil {
		out.trailer(codes.InvalidArgument, err.Error())
		return
	}

	// forward metadata
	md := metadata.MD{}
	if vals := r.Header.Values("Authorization"); len(vals) > 0 {
		md.Set("authorization", vals...)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		md.Set(ForwardedFor, host)
	}
	ctx := metadata.NewOutgoingContext(r.Context(), md)

	// invoke gRPC method using raw codec (pass-through bytes)
	resp := &rawMsg{}
	err = b.conn.Invoke(ctx, r.URL.Path, &rawMsg{data: payload}, resp, grpc.ForceCodec(rawCodec{}))
	if err != nil {
		st, _ := status.FromError(err)
		b.log.Debug("grpc-web call failed",
			zap.String("method", r.URL.Path),
			zap.String("code", st.Code().String()),
			zap.String("message", st.Message()),
		)
		out.trailer(st.Code(), st.Message())
		return
	}
	out.data(resp.data)
	out.trailer(codes.OK, "")
}

// ForwardedFor carries the browser's address to the gRPC server.
const ForwardedFor = "x-forwarded-for"

// unframe reads one grpc-web data frame: 1-byte flag, 4-byte big-endian
// length, message.
func unframe(body []byte) ([]byte, error) {
	if len(body) < 5 {
		return nil, fmt.Errorf("body too short")
	}
	if body[0]&0x80 != 0 {
		return nil, fmt.Errorf("unexpected trailer frame")
	}
	msgLen := binary.BigEndian.Uint32(body[1:5])
	if uint64(msgLen)+5 > uint64(len(body)) {
		return nil, fmt.Errorf("incomplete frame")
	}
	return body[5 : 5+msgLen], nil
}

// rawMsg wraps raw protobuf bytes.
type rawMsg struct{ data []byte }

// rawCodec passes bytes through without marshal/unmarshal. It is named
// "proto" so the server decodes with its own codec.
type rawCodec struct{}

func (rawCodec) Marshal(v any) ([]byte, error) {
	return v.(*rawMsg).data, nil
}
func (rawCodec) Unmarshal(data []byte, v any) error {
	m := v.(*rawMsg)
	m.data = append([]byte(nil), data...)
	return nil
}
func (rawCodec) Name() string { return "proto" }

type frameWriter struct {
	w       http.ResponseWriter
	text    bool
	started bool
}

func (f *frameWriter) start() {
	if f.started {
		return
	}
	f.started = true
	ct := "application/grpc-web+proto"
	if f.text {
		ct = "application/grpc-web-text+proto"
	}
	f.w.Header().Set("Content-Type", ct)
	f.w.WriteHeader(http.StatusOK)
}

func (f *frameWriter) frame(flag byte, data []byte) {
	f.start()
	buf := make([]byte, 5+len(data))
	buf[0] = flag
	binary.BigEndian.PutUint32(buf[1:5], uint32(len(data)))
	copy(buf[5:], data)
	if f.text {
		buf = []byte(base64.StdEncoding.EncodeToString(buf))
	}
	f.w.Write(buf)
}

func (f *frameWriter) data(msg []byte) { f.frame(0x00, msg) }

func (f *frameWriter) trailer(code codes.Code, msg string) {
	t := fmt.Sprintf("grpc-status:%d\r\n", code)
	if msg != "" {
		t += "grpc-message:" + strings.NewReplacer("\r", " ", "\n", " ").Replace(msg) + "\r\n"
	}
	f.frame(0x80, []byte(t))
}
