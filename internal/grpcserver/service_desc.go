package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "directory.v1.DirectoryService"

// Full method names, as seen by interceptors and clients.
const (
	MethodHealth         = "/" + ServiceName + "/Health"
	MethodListCategories = "/" + ServiceName + "/ListCategories"
	MethodListLocations  = "/" + ServiceName + "/ListLocations"
	MethodSearch         = "/" + ServiceName + "/Search"
	MethodGetUserStatus  = "/" + ServiceName + "/GetUserStatus"
	MethodGetStats       = "/" + ServiceName + "/GetStats"
)

// DirectoryServer is the server API for the directory service. Every RPC
// takes and returns a google.protobuf.Struct.
type DirectoryServer interface {
	Health(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCategories(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListLocations(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Search(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetUserStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetStats(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(DirectoryServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name, fullMethod string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(DirectoryServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(DirectoryServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DirectoryServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("Health", MethodHealth, DirectoryServer.Health),
		unaryMethod("ListCategories", MethodListCategories, DirectoryServer.ListCategories),
		unaryMethod("ListLocations", MethodListLocations, DirectoryServer.ListLocations),
		unaryMethod("Search", MethodSearch, DirectoryServer.Search),
		unaryMethod("GetUserStatus", MethodGetUserStatus, DirectoryServer.GetUserStatus),
		unaryMethod("GetStats", MethodGetStats, DirectoryServer.GetStats),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "directory/v1/directory.proto",
}

// Register mounts srv on a gRPC server.
func Register(s grpc.ServiceRegistrar, srv DirectoryServer) {
	s.RegisterService(&serviceDesc, srv)
}
