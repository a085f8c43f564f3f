package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName = "jobconsole.v1.ConsoleService"

	ConsoleService_Exec_FullMethodName     = "/" + ServiceName + "/Exec"
	ConsoleService_Complete_FullMethodName = "/" + ServiceName + "/Complete"
	ConsoleService_RunJob_FullMethodName   = "/" + ServiceName + "/RunJob"
)

// ConsoleServiceServer is implemented by the job server.
type ConsoleServiceServer interface {
	Exec(context.Context, *ExecRequest) (*ExecResponse, error)
	Complete(context.Context, *CompleteRequest) (*CompleteResponse, error)
	RunJob(context.Context, *RunJobRequest) (*RunJobResponse, error)
}

// RegisterConsoleServiceServer registers srv with s.
func RegisterConsoleServiceServer(s grpc.ServiceRegistrar, srv ConsoleServiceServer) {
	s.RegisterService(&ConsoleService_ServiceDesc, srv)
}

var ConsoleService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ConsoleServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Exec", Handler: execHandler},
		{MethodName: "Complete", Handler: completeHandler},
		{MethodName: "RunJob", Handler: runJobHandler},
	},
	Streams: []grpc.StreamDesc{},
}

// unary adapts a typed handler to the grpc.MethodDesc handler shape. decode
// turns the wire message into the request type and encode does the reverse
// for the response. Interceptors see the decoded request.
func unary[W any, Req any, Resp any](
	method string,
	newWire func() W,
	decode func(W) (Req, error),
	call func(ConsoleServiceServer, context.Context, Req) (Resp, error),
	encode func(Resp) (any, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(
		srv any,
		ctx context.Context,
		dec func(any) error,
		interceptor grpc.UnaryServerInterceptor,
	) (any, error) {
		wire := newWire()
		if err := dec(wire); err != nil {
			return nil, err
		}

		req, err := decode(wire)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}

		handler := func(ctx context.Context, req any) (any, error) {
			resp, err := call(srv.(ConsoleServiceServer), ctx, req.(Req))
			if err != nil {
				return nil, err
			}

			return encode(resp)
		}

		if interceptor == nil {
			return handler(ctx, req)
		}

		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}

		return interceptor(ctx, req, info, handler)
	}
}

var execHandler = unary(
	ConsoleService_Exec_FullMethodName,
	func() *structpb.Struct { return new(structpb.Struct) },
	decodeExecRequest,
	ConsoleServiceServer.Exec,
	func(resp *ExecResponse) (any, error) { return resp.toProto() },
)

var completeHandler = unary(
	ConsoleService_Complete_FullMethodName,
	func() *structpb.Struct { return new(structpb.Struct) },
	decodeCompleteRequest,
	ConsoleServiceServer.Complete,
	func(resp *CompleteResponse) (any, error) { return resp.toProto() },
)

var runJobHandler = unary(
	ConsoleService_RunJob_FullMethodName,
	func() *structpb.Struct { return new(structpb.Struct) },
	decodeRunJobRequest,
	ConsoleServiceServer.RunJob,
	func(resp *RunJobResponse) (any, error) {
		return wrapperspb.Int64(int64(resp.ID)), nil
	},
)

// ConsoleServiceClient is the client side of the console service.
type ConsoleServiceClient interface {
	Exec(ctx context.Context, in *ExecRequest, opts ...grpc.CallOption) (*ExecResponse, error)
	Complete(ctx context.Context, in *CompleteRequest, opts ...grpc.CallOption) (*CompleteResponse, error)
	RunJob(ctx context.Context, in *RunJobRequest, opts ...grpc.CallOption) (*RunJobResponse, error)
}

type consoleServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewConsoleServiceClient(cc grpc.ClientConnInterface) ConsoleServiceClient {
	return &consoleServiceClient{cc}
}

func (c *consoleServiceClient) Exec(
	ctx context.Context,
	in *ExecRequest,
	opts ...grpc.CallOption,
) (*ExecResponse, error) {
	msg, err := in.toProto()
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ConsoleService_Exec_FullMethodName, msg, out, opts...); err != nil {
		return nil, err
	}

	return decodeExecResponse(out)
}

func (c *consoleServiceClient) Complete(
	ctx context.Context,
	in *CompleteRequest,
	opts ...grpc.CallOption,
) (*CompleteResponse, error) {
	msg, err := in.toProto()
	if err != nil {
		return nil, err
	}

	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, ConsoleService_Complete_FullMethodName, msg, out, opts...); err != nil {
		return nil, err
	}

	candidates, err := stringList(out)
	if err != nil {
		return nil, err
	}

	return &CompleteResponse{Candidates: candidates}, nil
}

func (c *consoleServiceClient) RunJob(
	ctx context.Context,
	in *RunJobRequest,
	opts ...grpc.CallOption,
) (*RunJobResponse, error) {
	msg, err := in.toProto()
	if err != nil {
		return nil, err
	}

	out := new(wrapperspb.Int64Value)
	if err := c.cc.Invoke(ctx, ConsoleService_RunJob_FullMethodName, msg, out, opts...); err != nil {
		return nil, err
	}

	return &RunJobResponse{ID: int(out.GetValue())}, nil
}
