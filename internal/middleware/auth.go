package middleware

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"salon-booking/internal/auth"
	pb "salon-booking/internal/salonpb"
)

// these work without a token; a valid one is still attached when present
var open = map[string]bool{
	pb.FullMethod("Register"):             true,
	pb.FullMethod("Login"):                true,
	pb.FullMethod("Refresh"):              true,
	pb.FullMethod("RequestPasswordReset"): true,
	pb.FullMethod("ResetPassword"):        true,
	pb.FullMethod("ListServices"):         true,
	pb.FullMethod("ListStylists"):         true,
	pb.FullMethod("GetBusySlots"):         true,
}

// BearerToken reads "authorization: Bearer <jwt>" from incoming metadata.
func BearerToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	vals := md.Get("authorization")
	if len(vals) == 0 {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(vals[0], "Bearer "))
}

func Auth(v auth.Verifier) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		raw := BearerToken(ctx)
		if open[info.FullMethod] {
			if raw != "" {
				if id, err := v.Verify(ctx, raw); err == nil {
					ctx = auth.WithIdentity(ctx, id)
				}
			}
			return next(ctx, req)
		}

		if raw == "" {
			return nil, status.Error(codes.Unauthenticated, "no token")
		}
		id, err := v.Verify(ctx, raw)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "bad token")
		}
		return next(auth.WithIdentity(ctx, id), req)
	}
}
