package handler

import (
	"context"

	"salon-booking/internal/auth"
	"salon-booking/internal/model"
	pb "salon-booking/internal/salonpb"
)

func (h *Handler) GetProfile(ctx context.Context, _ *pb.Empty) (*pb.GetProfileResponse, error) {
	p, found, err := h.svc.Profile(ctx, auth.UserID(ctx))
	if err != nil {
		return nil, h.toStatus("get profile", err)
	}
	return &pb.GetProfileResponse{Profile: profileToProto(p), Exists: found}, nil
}

// SaveProfile upserts the editable fields. Loyalty points are read only.
func (h *Handler) SaveProfile(ctx context.Context, req *pb.SaveProfileRequest) (*pb.GetProfileResponse, error) {
	in := req.Profile
	if in == nil {
		in = &pb.Profile{}
	}
	p := &model.Profile{
		UserID:    auth.UserID(ctx),
		FullName:  in.FullName,
		Phone:     in.Phone,
		Timezone:  in.Timezone,
		AvatarURL: in.AvatarUrl,
		Preferences: model.Preferences{
			MarketingEmails: in.MarketingEmails,
			SMSReminders:    in.SmsReminders,
		},
	}
	if err := h.svc.SaveProfile(ctx, p); err != nil {
		return nil, h.toStatus("save profile", err)
	}
	return h.GetProfile(ctx, &pb.Empty{})
}

func profileToProto(p *model.Profile) *pb.Profile {
	return &pb.Profile{
		FullName:        p.FullName,
		Phone:           p.Phone,
		Timezone:        p.Timezone,
		AvatarUrl:       p.AvatarURL,
		MarketingEmails: p.Preferences.MarketingEmails,
		SmsReminders:    p.Preferences.SMSReminders,
		LoyaltyPoints:   int64(p.LoyaltyPoints),
	}
}
