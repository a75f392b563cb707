package grpc

import (
	"context"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified name of the auth service. Requests and
// responses of every method are google.protobuf.Struct values.
const ServiceName = common.AuthServiceName

// Full method names, as seen by interceptors and passed to Invoke.
const (
	MethodRegister    = common.MethodRegister
	MethodLogin       = common.MethodLogin
	MethodCheckStatus = common.MethodCheckStatus
	MethodSetRoles    = common.MethodSetRoles
	MethodSetActive   = common.MethodSetActive
)

// methodRoles lists the methods that require an access token, with the roles
// each one declares. A nil list admits any authenticated account.
var methodRoles = map[string][]models.Role{
	MethodCheckStatus: nil,
	MethodSetRoles:    {models.RoleAdmin},
	MethodSetActive:   {models.RoleAdmin},
}

type authServiceServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CheckStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetRoles(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetActive(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(authServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(authServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(authServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var authServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*authServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler(MethodRegister, authServiceServer.Register)},
		{MethodName: "Login", Handler: unaryHandler(MethodLogin, authServiceServer.Login)},
		{MethodName: "CheckStatus", Handler: unaryHandler(MethodCheckStatus, authServiceServer.CheckStatus)},
		{MethodName: "SetRoles", Handler: unaryHandler(MethodSetRoles, authServiceServer.SetRoles)},
		{MethodName: "SetActive", Handler: unaryHandler(MethodSetActive, authServiceServer.SetActive)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gatekeeper/v1/auth.proto",
}
