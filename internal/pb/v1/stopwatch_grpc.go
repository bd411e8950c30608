package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// StopwatchService_ServiceName is the fully-qualified service name.
const StopwatchService_ServiceName = "stopwatch.v1.StopwatchService" //nolint:revive,stylecheck // gRPC naming.

// Full method names.
//
//nolint:revive,stylecheck // gRPC naming.
const (
	StopwatchService_StartStop_FullMethodName   = "/stopwatch.v1.StopwatchService/StartStop"
	StopwatchService_Start_FullMethodName       = "/stopwatch.v1.StopwatchService/Start"
	StopwatchService_Stop_FullMethodName        = "/stopwatch.v1.StopwatchService/Stop"
	StopwatchService_Record_FullMethodName      = "/stopwatch.v1.StopwatchService/Record"
	StopwatchService_Reset_FullMethodName       = "/stopwatch.v1.StopwatchService/Reset"
	StopwatchService_GetSnapshot_FullMethodName = "/stopwatch.v1.StopwatchService/GetSnapshot"
	StopwatchService_Watch_FullMethodName       = "/stopwatch.v1.StopwatchService/Watch"
)

// StopwatchServiceClient is the client API for StopwatchService.
type StopwatchServiceClient interface {
	StartStop(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	Start(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	Stop(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	Record(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	Reset(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetSnapshot(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	Watch(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (StopwatchService_WatchClient, error)
}

type stopwatchServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewStopwatchServiceClient binds a client to a connection.
func NewStopwatchServiceClient(cc grpc.ClientConnInterface) StopwatchServiceClient { //nolint:ireturn // gRPC style.
	return &stopwatchServiceClient{cc}
}

func (c *stopwatchServiceClient) invoke(
	ctx context.Context,
	method string,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)

	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *stopwatchServiceClient) StartStop(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	return c.invoke(ctx, StopwatchService_StartStop_FullMethodName, in, opts...)
}

func (c *stopwatchServiceClient) Start(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	return c.invoke(ctx, StopwatchService_Start_FullMethodName, in, opts...)
}

func (c *stopwatchServiceClient) Stop(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	return c.invoke(ctx, StopwatchService_Stop_FullMethodName, in, opts...)
}

func (c *stopwatchServiceClient) Record(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	return c.invoke(ctx, StopwatchService_Record_FullMethodName, in, opts...)
}

func (c *stopwatchServiceClient) Reset(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	return c.invoke(ctx, StopwatchService_Reset_FullMethodName, in, opts...)
}

func (c *stopwatchServiceClient) GetSnapshot(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	return c.invoke(ctx, StopwatchService_GetSnapshot_FullMethodName, in, opts...)
}

func (c *stopwatchServiceClient) Watch( //nolint:ireturn // gRPC style.
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (StopwatchService_WatchClient, error) {
	stream, err := c.cc.NewStream(ctx, &StopwatchService_ServiceDesc.Streams[0], StopwatchService_Watch_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}

	x := &stopwatchServiceWatchClient{stream}

	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}

	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}

	return x, nil
}

// StopwatchService_WatchClient receives snapshots pushed by the server.
//
//nolint:revive,stylecheck // gRPC naming.
type StopwatchService_WatchClient interface {
	Recv() (*structpb.Struct, error)
	grpc.ClientStream
}

type stopwatchServiceWatchClient struct {
	grpc.ClientStream
}

func (x *stopwatchServiceWatchClient) Recv() (*structpb.Struct, error) {
	m := new(structpb.Struct)

	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}

	return m, nil
}

// StopwatchServiceServer is the server API for StopwatchService.
// Implementations must embed UnimplementedStopwatchServiceServer.
type StopwatchServiceServer interface {
	StartStop(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
	Start(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
	Stop(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
	Record(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
	Reset(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
	GetSnapshot(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
	Watch(in *emptypb.Empty, stream StopwatchService_WatchServer) error
	mustEmbedUnimplementedStopwatchServiceServer()
}

// UnimplementedStopwatchServiceServer answers every method with codes.Unimplemented.
type UnimplementedStopwatchServiceServer struct{}

func (UnimplementedStopwatchServiceServer) StartStop(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method StartStop not implemented")
}

func (UnimplementedStopwatchServiceServer) Start(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Start not implemented")
}

func (UnimplementedStopwatchServiceServer) Stop(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Stop not implemented")
}

func (UnimplementedStopwatchServiceServer) Record(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Record not implemented")
}

func (UnimplementedStopwatchServiceServer) Reset(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Reset not implemented")
}

func (UnimplementedStopwatchServiceServer) GetSnapshot(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSnapshot not implemented")
}

func (UnimplementedStopwatchServiceServer) Watch(*emptypb.Empty, StopwatchService_WatchServer) error {
	return status.Error(codes.Unimplemented, "method Watch not implemented")
}

func (UnimplementedStopwatchServiceServer) mustEmbedUnimplementedStopwatchServiceServer() {}

// StopwatchService_WatchServer sends snapshots to a watching client.
//
//nolint:revive,stylecheck // gRPC naming.
type StopwatchService_WatchServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type stopwatchServiceWatchServer struct {
	grpc.ServerStream
}

func (x *stopwatchServiceWatchServer) Send(m *structpb.Struct) error {
	return x.ServerStream.SendMsg(m)
}

// RegisterStopwatchServiceServer registers srv on s.
func RegisterStopwatchServiceServer(s grpc.ServiceRegistrar, srv StopwatchServiceServer) {
	s.RegisterService(&StopwatchService_ServiceDesc, srv)
}

// unaryHandler builds the method handler for a command taking Empty and returning a snapshot.
func unaryHandler(
	fullMethod string,
	call func(StopwatchServiceServer, context.Context, *emptypb.Empty) (*structpb.Struct, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(emptypb.Empty)

		if err := dec(in); err != nil {
			return nil, err
		}

		server, _ := srv.(StopwatchServiceServer)

		if interceptor == nil {
			return call(server, ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}

		handler := func(ctx context.Context, req any) (any, error) {
			request, _ := req.(*emptypb.Empty)

			return call(server, ctx, request)
		}

		return interceptor(ctx, in, info, handler)
	}
}

func watchHandler(srv any, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)

	if err := stream.RecvMsg(in); err != nil {
		return err
	}

	server, _ := srv.(StopwatchServiceServer)

	return server.Watch(in, &stopwatchServiceWatchServer{stream})
}

// StopwatchService_ServiceDesc describes StopwatchService for grpc.ServiceRegistrar.
//
//nolint:gochecknoglobals,revive,stylecheck // gRPC naming.
var StopwatchService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: StopwatchService_ServiceName,
	HandlerType: (*StopwatchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "StartStop",
			Handler:    unaryHandler(StopwatchService_StartStop_FullMethodName, StopwatchServiceServer.StartStop),
		},
		{
			MethodName: "Start",
			Handler:    unaryHandler(StopwatchService_Start_FullMethodName, StopwatchServiceServer.Start),
		},
		{
			MethodName: "Stop",
			Handler:    unaryHandler(StopwatchService_Stop_FullMethodName, StopwatchServiceServer.Stop),
		},
		{
			MethodName: "Record",
			Handler:    unaryHandler(StopwatchService_Record_FullMethodName, StopwatchServiceServer.Record),
		},
		{
			MethodName: "Reset",
			Handler:    unaryHandler(StopwatchService_Reset_FullMethodName, StopwatchServiceServer.Reset),
		},
		{
			MethodName: "GetSnapshot",
			Handler:    unaryHandler(StopwatchService_GetSnapshot_FullMethodName, StopwatchServiceServer.GetSnapshot),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Watch",
			Handler:       watchHandler,
			ServerStreams: true,
		},
	},
	Metadata: "stopwatch/v1/stopwatch.proto",
}
