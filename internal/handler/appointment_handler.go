package handler

import (
	"context"

	"salon-booking/internal/auth"
	"salon-booking/internal/booking"
	"salon-booking/internal/model"
	pb "salon-booking/internal/salonpb"
)

func (h *Handler) ListServices(_ context.Context, _ *pb.Empty) (*pb.ListServicesResponse, error) {
	list := booking.Services()
	out := make([]*pb.Service, 0, len(list))
	for _, s := range list {
		out = append(out, serviceToProto(s))
	}
	return &pb.ListServicesResponse{Services: out}, nil
}

// ListStylists leaves the caller out so stylists can't book themselves.
func (h *Handler) ListStylists(ctx context.Context, _ *pb.Empty) (*pb.ListStylistsResponse, error) {
	list, err := h.svc.Stylists(ctx, auth.UserID(ctx))
	if err != nil {
		return nil, h.toStatus("list stylists", err)
	}
	out := make([]*pb.Stylist, 0, len(list))
	for _, s := range list {
		out = append(out, stylistToProto(s))
	}
	return &pb.ListStylistsResponse{Stylists: out}, nil
}

func (h *Handler) GetBusySlots(ctx context.Context, req *pb.BusySlotsRequest) (*pb.BusySlotsResponse, error) {
	slots, err := h.svc.Slots(ctx, req.Date, req.ServiceId, req.StylistId, auth.UserID(ctx))
	if err != nil {
		return nil, h.toStatus("busy slots", err)
	}
	stylist := req.StylistId
	if stylist == booking.AnyStylist {
		stylist = ""
	}
	busy, err := h.svc.BusySlots(ctx, req.Date, stylist)
	if err != nil {
		return nil, h.toStatus("busy slots", err)
	}

	resp := &pb.BusySlotsResponse{
		Slots: make([]*pb.Slot, 0, len(slots)),
		Busy:  make([]*pb.BusySlot, 0, len(busy)),
	}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, &pb.Slot{Time: s.Time, Available: s.Available})
	}
	for _, b := range busy {
		resp.Busy = append(resp.Busy, &pb.BusySlot{StylistId: b.StylistID, Start: b.Start, End: b.End})
	}
	return resp, nil
}

func bookingRequest(ctx context.Context, req *pb.BookingRequest) *booking.Request {
	return &booking.Request{
		UserID:    auth.UserID(ctx),
		ServiceID: req.ServiceId,
		StylistID: req.StylistId,
		Date:      req.Date,
		Time:      req.Time,
		Notes:     req.Notes,
	}
}

func (h *Handler) CheckAvailability(ctx context.Context, req *pb.BookingRequest) (*pb.AvailabilityResponse, error) {
	av, err := h.svc.Check(ctx, bookingRequest(ctx, req))
	if err != nil {
		return nil, h.toStatus("check availability", err)
	}
	return &pb.AvailabilityResponse{Available: av.Available, StylistId: av.StylistID, Reason: av.Reason}, nil
}

func (h *Handler) BookAppointment(ctx context.Context, req *pb.BookingRequest) (*pb.AppointmentResponse, error) {
	appt, err := h.svc.Book(ctx, bookingRequest(ctx, req))
	if h.metrics != nil {
		h.metrics.Booking(err)
	}
	if err != nil {
		return nil, h.toStatus("book appointment", err)
	}
	return &pb.AppointmentResponse{Appointment: appointmentToProto(appt)}, nil
}

func (h *Handler) ListAppointments(ctx context.Context, _ *pb.Empty) (*pb.ListAppointmentsResponse, error) {
	list, err := h.svc.Appointments(ctx, auth.UserID(ctx))
	if err != nil {
		return nil, h.toStatus("list appointments", err)
	}
	out := make([]*pb.Appointment, 0, len(list))
	for i := range list {
		out = append(out, appointmentToProto(&list[i]))
	}
	return &pb.ListAppointmentsResponse{Appointments: out}, nil
}

func (h *Handler) GetAppointment(ctx context.Context, req *pb.IDRequest) (*pb.AppointmentResponse, error) {
	appt, err := h.svc.Appointment(ctx, req.Id, auth.UserID(ctx))
	if err != nil {
		return nil, h.toStatus("get appointment", err)
	}
	return &pb.AppointmentResponse{Appointment: appointmentToProto(appt)}, nil
}

// CancelAppointment is a soft cancel; the row stays with status cancelled.
func (h *Handler) CancelAppointment(ctx context.Context, req *pb.IDRequest) (*pb.AppointmentResponse, error) {
	uid := auth.UserID(ctx)
	if err := h.svc.Cancel(ctx, req.Id, uid); err != nil {
		return nil, h.toStatus("cancel appointment", err)
	}
	appt, err := h.svc.Appointment(ctx, req.Id, uid)
	if err != nil {
		return nil, h.toStatus("cancel appointment", err)
	}
	return &pb.AppointmentResponse{Appointment: appointmentToProto(appt)}, nil
}

func serviceToProto(s model.Service) *pb.Service {
	return &pb.Service{
		Id:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: int64(s.DurationMinutes),
		PriceCents:      int64(s.PriceCents),
		Category:        s.Category,
		Popular:         s.Popular,
	}
}

func stylistToProto(s model.Stylist) *pb.Stylist {
	return &pb.Stylist{
		Id:          s.ID,
		Name:        s.Name,
		Bio:         s.Bio,
		Specialties: s.Specialties,
		Available:   s.Available,
		AvatarUrl:   s.AvatarURL,
	}
}

func appointmentToProto(a *model.Appointment) *pb.Appointment {
	return &pb.Appointment{
		Id:        a.ID,
		UserId:    a.UserID,
		ServiceId: a.ServiceID,
		StylistId: a.StylistID,
		Date:      a.Date,
		Time:      a.Time,
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
		Notes:     a.Notes,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
	}
}
