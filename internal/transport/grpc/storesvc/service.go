// Package storesvc exposes a docstore.Store over gRPC and provides the
// matching client. Messages are protobuf well-known types: collection paths
// and keys travel as StringValue, documents and snapshots as Struct.
package storesvc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const serviceName = "productlive.docstore.v1.DocumentStore"

const (
	methodSubscribe   = "/" + serviceName + "/Subscribe"
	methodGenerateKey = "/" + serviceName + "/GenerateKey"
	methodWrite       = "/" + serviceName + "/Write"
	methodDelete      = "/" + serviceName + "/Delete"
)

// DocumentStoreServer is the server API of the document store service.
type DocumentStoreServer interface {
	Subscribe(req *wrapperspb.StringValue, stream grpc.ServerStream) error
	GenerateKey(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	Write(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error)
	Delete(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error)
}

// ServiceDesc describes the document store service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*DocumentStoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GenerateKey", Handler: generateKeyHandler},
		{MethodName: "Write", Handler: writeHandler},
		{MethodName: "Delete", Handler: deleteHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Subscribe", Handler: subscribeHandler, ServerStreams: true},
	},
	Metadata: "productlive/docstore/v1/docstore.proto",
}

// Register attaches srv to s.
func Register(s grpc.ServiceRegistrar, srv DocumentStoreServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func subscribeHandler(srv any, stream grpc.ServerStream) error {
	in := new(wrapperspb.StringValue)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(DocumentStoreServer).Subscribe(in, stream)
}

func generateKeyHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DocumentStoreServer).GenerateKey(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGenerateKey}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DocumentStoreServer).GenerateKey(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func writeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DocumentStoreServer).Write(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodWrite}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DocumentStoreServer).Write(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func deleteHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DocumentStoreServer).Delete(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodDelete}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DocumentStoreServer).Delete(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
