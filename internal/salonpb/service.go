package salonpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "salon.v1.SalonService"

// FullMethod returns the gRPC path of a SalonService method.
func FullMethod(name string) string { return "/" + ServiceName + "/" + name }

type SalonServiceServer interface {
	Register(context.Context, *RegisterRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
	Refresh(context.Context, *RefreshRequest) (*AuthResponse, error)
	Logout(context.Context, *RefreshRequest) (*MessageResponse, error)
	RequestPasswordReset(context.Context, *PasswordResetRequest) (*MessageResponse, error)
	ResetPassword(context.Context, *ResetPasswordRequest) (*MessageResponse, error)
	GetProfile(context.Context, *Empty) (*GetProfileResponse, error)
	SaveProfile(context.Context, *SaveProfileRequest) (*GetProfileResponse, error)
	ListServices(context.Context, *Empty) (*ListServicesResponse, error)
	ListStylists(context.Context, *Empty) (*ListStylistsResponse, error)
	GetBusySlots(context.Context, *BusySlotsRequest) (*BusySlotsResponse, error)
	CheckAvailability(context.Context, *BookingRequest) (*AvailabilityResponse, error)
	BookAppointment(context.Context, *BookingRequest) (*AppointmentResponse, error)
	ListAppointments(context.Context, *Empty) (*ListAppointmentsResponse, error)
	GetAppointment(context.Context, *IDRequest) (*AppointmentResponse, error)
	CancelAppointment(context.Context, *IDRequest) (*AppointmentResponse, error)
}

// UnimplementedSalonServiceServer answers Unimplemented for every method.
type UnimplementedSalonServiceServer struct{}

func unimplemented(name string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", name)
}

func (UnimplementedSalonServiceServer) Register(context.Context, *RegisterRequest) (*AuthResponse, error) {
	return nil, unimplemented("Register")
}
func (UnimplementedSalonServiceServer) Login(context.Context, *LoginRequest) (*AuthResponse, error) {
	return nil, unimplemented("Login")
}
func (UnimplementedSalonServiceServer) Refresh(context.Context, *RefreshRequest) (*AuthResponse, error) {
	return nil, unimplemented("Refresh")
}
func (UnimplementedSalonServiceServer) Logout(context.Context, *RefreshRequest) (*MessageResponse, error) {
	return nil, unimplemented("Logout")
}
func (UnimplementedSalonServiceServer) RequestPasswordReset(context.Context, *PasswordResetRequest) (*MessageResponse, error) {
	return nil, unimplemented("RequestPasswordReset")
}
func (UnimplementedSalonServiceServer) ResetPassword(context.Context, *ResetPasswordRequest) (*MessageResponse, error) {
	return nil, unimplemented("ResetPassword")
}
func (UnimplementedSalonServiceServer) GetProfile(context.Context, *Empty) (*GetProfileResponse, error) {
	return nil, unimplemented("GetProfile")
}
func (UnimplementedSalonServiceServer) SaveProfile(context.Context, *SaveProfileRequest) (*GetProfileResponse, error) {
	return nil, unimplemented("SaveProfile")
}
func (UnimplementedSalonServiceServer) ListServices(context.Context, *Empty) (*ListServicesResponse, error) {
	return nil, unimplemented("ListServices")
}
func (UnimplementedSalonServiceServer) ListStylists(context.Context, *Empty) (*ListStylistsResponse, error) {
	return nil, unimplemented("ListStylists")
}
func (UnimplementedSalonServiceServer) GetBusySlots(context.Context, *BusySlotsRequest) (*BusySlotsResponse, error) {
	return nil, unimplemented("GetBusySlots")
}
func (UnimplementedSalonServiceServer) CheckAvailability(context.Context, *BookingRequest) (*AvailabilityResponse, error) {
	return nil, unimplemented("CheckAvailability")
}
func (UnimplementedSalonServiceServer) BookAppointment(context.Context, *BookingRequest) (*AppointmentResponse, error) {
	return nil, unimplemented("BookAppointment")
}
func (UnimplementedSalonServiceServer) ListAppointments(context.Context, *Empty) (*ListAppointmentsResponse, error) {
	return nil, unimplemented("ListAppointments")
}
func (UnimplementedSalonServiceServer) GetAppointment(context.Context, *IDRequest) (*AppointmentResponse, error) {
	return nil, unimplemented("GetAppointment")
}
func (UnimplementedSalonServiceServer) CancelAppointment(context.Context, *IDRequest) (*AppointmentResponse, error) {
	return nil, unimplemented("CancelAppointment")
}

func unary[Req any, PReq interface {
	*Req
	Message
}, Resp Message](name string, call func(SalonServiceServer, context.Context, PReq) (Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := PReq(new(Req))
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(SalonServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(SalonServiceServer), ctx, req.(PReq))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SalonServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", SalonServiceServer.Register),
		unary("Login", SalonServiceServer.Login),
		unary("Refresh", SalonServiceServer.Refresh),
		unary("Logout", SalonServiceServer.Logout),
		unary("RequestPasswordReset", SalonServiceServer.RequestPasswordReset),
		unary("ResetPassword", SalonServiceServer.ResetPassword),
		unary("GetProfile", SalonServiceServer.GetProfile),
		unary("SaveProfile", SalonServiceServer.SaveProfile),
		unary("ListServices", SalonServiceServer.ListServices),
		unary("ListStylists", SalonServiceServer.ListStylists),
		unary("GetBusySlots", SalonServiceServer.GetBusySlots),
		unary("CheckAvailability", SalonServiceServer.CheckAvailability),
		unary("BookAppointment", SalonServiceServer.BookAppointment),
		unary("ListAppointments", SalonServiceServer.ListAppointments),
		unary("GetAppointment", SalonServiceServer.GetAppointment),
		unary("CancelAppointment", SalonServiceServer.CancelAppointment),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "salon/v1/salon.proto",
}

func RegisterSalonServiceServer(s grpc.ServiceRegistrar, srv SalonServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls SalonService over a connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client { return &Client{cc: cc} }

func invoke[Resp any, PResp interface {
	*Resp
	Message
}](ctx context.Context, cc grpc.ClientConnInterface, name string, in Message, opts []grpc.CallOption) (PResp, error) {
	out := PResp(new(Resp))
	if err := cc.Invoke(ctx, FullMethod(name), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, "Register", in, opts)
}
func (c *Client) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, "Login", in, opts)
}
func (c *Client) Refresh(ctx context.Context, in *RefreshRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, "Refresh", in, opts)
}
func (c *Client) Logout(ctx context.Context, in *RefreshRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, "Logout", in, opts)
}
func (c *Client) RequestPasswordReset(ctx context.Context, in *PasswordResetRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, "RequestPasswordReset", in, opts)
}
func (c *Client) ResetPassword(ctx context.Context, in *ResetPasswordRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, "ResetPassword", in, opts)
}
func (c *Client) GetProfile(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetProfileResponse, error) {
	return invoke[GetProfileResponse](ctx, c.cc, "GetProfile", in, opts)
}
func (c *Client) SaveProfile(ctx context.Context, in *SaveProfileRequest, opts ...grpc.CallOption) (*GetProfileResponse, error) {
	return invoke[GetProfileResponse](ctx, c.cc, "SaveProfile", in, opts)
}
func (c *Client) ListServices(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListServicesResponse, error) {
	return invoke[ListServicesResponse](ctx, c.cc, "ListServices", in, opts)
}
func (c *Client) ListStylists(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListStylistsResponse, error) {
	return invoke[ListStylistsResponse](ctx, c.cc, "ListStylists", in, opts)
}
func (c *Client) GetBusySlots(ctx context.Context, in *BusySlotsRequest, opts ...grpc.CallOption) (*BusySlotsResponse, error) {
	return invoke[BusySlotsResponse](ctx, c.cc, "GetBusySlots", in, opts)
}
func (c *Client) CheckAvailability(ctx context.Context, in *BookingRequest, opts ...grpc.CallOption) (*AvailabilityResponse, error) {
	return invoke[AvailabilityResponse](ctx, c.cc, "CheckAvailability", in, opts)
}
func (c *Client) BookAppointment(ctx context.Context, in *BookingRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c.cc, "BookAppointment", in, opts)
}
func (c *Client) ListAppointments(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListAppointmentsResponse, error) {
	return invoke[ListAppointmentsResponse](ctx, c.cc, "ListAppointments", in, opts)
}
func (c *Client) GetAppointment(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c.cc, "GetAppointment", in, opts)
}
func (c *Client) CancelAppointment(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c.cc, "CancelAppointment", in, opts)
}
