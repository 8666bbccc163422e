package handler

import (
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"salon-booking/internal/auth"
	"salon-booking/internal/booking"
	"salon-booking/internal/metrics"
	pb "salon-booking/internal/salonpb"
	"salon-booking/internal/supabase"
)

type Handler struct {
	pb.UnimplementedSalonServiceServer
	svc      *booking.Service
	accounts auth.Provider
	metrics  *metrics.Metrics
	log      *zap.Logger
}

type Option func(*Handler)

// WithMetrics counts booking outcomes.
func WithMetrics(m *metrics.Metrics) Option { return func(h *Handler) { h.metrics = m } }

func New(svc *booking.Service, accounts auth.Provider, log *zap.Logger, opts ...Option) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{svc: svc, accounts: accounts, log: log}
	for _, o := range opts {
		o(h)
	}
	return h
}

// toStatus maps domain errors to gRPC codes. Anything unexpected is logged
// and hidden behind "internal error".
func (h *Handler) toStatus(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, booking.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, booking.UserMessage(err))
	case errors.Is(err, booking.ErrNotAuthenticated),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrBadToken):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, auth.ErrEmailTaken):
		// don't reveal which addresses exist
		return status.Error(codes.AlreadyExists, "registration failed")
	case errors.Is(err, booking.ErrSlotUnavailable):
		return status.Error(codes.AlreadyExists, booking.UserMessage(err))
	case errors.Is(err, booking.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, booking.ErrBackendNotConfigured),
		errors.Is(err, supabase.ErrCircuitOpen):
		return status.Error(codes.Unavailable, booking.UserMessage(err))
	}
	h.log.Error(op, zap.Error(err))
	return status.Error(codes.Internal, "internal error")
}
