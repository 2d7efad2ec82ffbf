package signerrpc

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/0glabs/0g-da-node/internal/apperr"
)

// toGRPCError maps the node's internal error taxonomy to the RPC codes a
// client is expected to branch on: bad input surfaces as InvalidArgument,
// admission-control rejection as ResourceExhausted, transient errors as
// Unavailable, everything else as Internal. nil passes through unchanged.
func toGRPCError(err error) error {
	if err == nil {
		return nil
	}
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return status.Error(codes.InvalidArgument, err.Error())
	case apperr.KindResourceExhausted:
		return status.Error(codes.ResourceExhausted, err.Error())
	case apperr.KindTransient:
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
