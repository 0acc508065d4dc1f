// Package rpc serves the geode search over gRPC.
//
// Messages are google.protobuf.Struct values, so the service needs no
// generated code. The method is /geodes.v1.GeodeSolver/Solve.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	serviceName     = "geodes.v1.GeodeSolver"
	solveFullMethod = "/" + serviceName + "/Solve"
)

// SolverServer is the server API for the GeodeSolver service
type SolverServer interface {
	Solve(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterSolverServer registers the service on a gRPC server
func RegisterSolverServer(s grpc.ServiceRegistrar, srv SolverServer) {
	s.RegisterService(&solverServiceDesc, srv)
}

func solveHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SolverServer).Solve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: solveFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SolverServer).Solve(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var solverServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*SolverServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Solve",
			Handler:    solveHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "geodes/v1/solver.proto",
}

// Client calls the GeodeSolver service
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a client connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Solve sends a raw request
func (c *Client) Solve(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, solveFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// SolveRequest sends a typed request and decodes the reply
func (c *Client) SolveRequest(ctx context.Context, req Request, opts ...grpc.CallOption) (Reply, error) {
	in, err := req.ToStruct()
	if err != nil {
		return Reply{}, err
	}
	out, err := c.Solve(ctx, in, opts...)
	if err != nil {
		return Reply{}, err
	}
	return ReplyFromStruct(out), nil
}
