package signerpb

import (
	"context"

	"google.golang.org/grpc"
)

// SignerServer is implemented by internal/signerrpc.Service.
type SignerServer interface {
	BatchSign(context.Context, *BatchSignRequest) (*BatchSignReply, error)
	BatchRetrieve(context.Context, *BatchRetrieveRequest) (*BatchRetrieveReply, error)
	GetStatus(context.Context, *Empty) (*StatusReply, error)
}

// RegisterSignerServer mounts srv's methods onto grpcServer under the
// "/signer.Signer/..." method names from proto/signer.proto.
func RegisterSignerServer(grpcServer *grpc.Server, srv SignerServer) {
	grpcServer.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: "signer.Signer",
	HandlerType: (*SignerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "BatchSign", Handler: batchSignHandler},
		{MethodName: "BatchRetrieve", Handler: batchRetrieveHandler},
		{MethodName: "GetStatus", Handler: getStatusHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "signer.proto",
}

func batchSignHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(BatchSignRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SignerServer).BatchSign(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/signer.Signer/BatchSign"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SignerServer).BatchSign(ctx, req.(*BatchSignRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func batchRetrieveHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(BatchRetrieveRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SignerServer).BatchRetrieve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/signer.Signer/BatchRetrieve"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SignerServer).BatchRetrieve(ctx, req.(*BatchRetrieveRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getStatusHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SignerServer).GetStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/signer.Signer/GetStatus"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SignerServer).GetStatus(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}
