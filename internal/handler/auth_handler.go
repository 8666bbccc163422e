package handler

import (
	"context"

	"go.uber.org/zap"

	"salon-booking/internal/auth"
	"salon-booking/internal/booking"
	pb "salon-booking/internal/salonpb"
)

const resetSent = "If an account exists for this email, we sent a reset link."

func toAuthResponse(s *auth.Session) *pb.AuthResponse {
	return &pb.AuthResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		UserId:       s.UserID,
		Name:         s.Name,
		Email:        s.Email,
		ExpiresAt:    s.ExpiresAt,
	}
}

func (h *Handler) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.AuthResponse, error) {
	s, err := h.accounts.SignUp(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return nil, h.toStatus("register", err)
	}
	return toAuthResponse(s), nil
}

func (h *Handler) Login(ctx context.Context, req *pb.LoginRequest) (*pb.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, h.toStatus("login", booking.ValidateCredentials(req.Email, req.Password))
	}
	s, err := h.accounts.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, h.toStatus("login", err)
	}
	return toAuthResponse(s), nil
}

func (h *Handler) Refresh(ctx context.Context, req *pb.RefreshRequest) (*pb.AuthResponse, error) {
	s, err := h.accounts.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return nil, h.toStatus("refresh", err)
	}
	return toAuthResponse(s), nil
}

// Logout revokes the caller's refresh tokens.
func (h *Handler) Logout(ctx context.Context, _ *pb.RefreshRequest) (*pb.MessageResponse, error) {
	id, ok := auth.FromContext(ctx)
	if !ok {
		return nil, h.toStatus("logout", booking.ErrNotAuthenticated)
	}
	if err := h.accounts.SignOut(ctx, id.UserID, id.Token); err != nil {
		return nil, h.toStatus("logout", err)
	}
	return &pb.MessageResponse{Message: "Signed out."}, nil
}

// RequestPasswordReset answers the same way whether or not the address is
// registered.
func (h *Handler) RequestPasswordReset(ctx context.Context, req *pb.PasswordResetRequest) (*pb.MessageResponse, error) {
	if err := h.accounts.RequestPasswordReset(ctx, req.Email, req.RedirectTo); err != nil {
		h.log.Warn("password reset request", zap.Error(err))
	}
	return &pb.MessageResponse{Message: resetSent}, nil
}

func (h *Handler) ResetPassword(ctx context.Context, req *pb.ResetPasswordRequest) (*pb.MessageResponse, error) {
	if err := booking.ValidateNewPassword(req.Password, req.Confirm); err != nil {
		return nil, h.toStatus("reset password", err)
	}
	if err := h.accounts.ResetPassword(ctx, req.Token, req.Password); err != nil {
		return nil, h.toStatus("reset password", err)
	}
	return &pb.MessageResponse{Message: "Password updated. You can sign in now."}, nil
}
