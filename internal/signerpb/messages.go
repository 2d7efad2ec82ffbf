// Package signerpb holds the wire message shapes for the signer gRPC
// service defined in proto/signer.proto. The actual protobuf/gRPC
// transport is treated as an external collaborator (§1): rather than
// depend on a protoc invocation this package is not able to run, the
// message shapes are plain Go structs carried over a small JSON
// grpc.Codec (codec.go) that preserves the exact field shapes and method
// names a generated client would see.
package signerpb

// SignRequest is one slice-signing request within a batch.
type SignRequest struct {
	Epoch             uint64
	QuorumID          uint64
	ErasureCommitment []byte
	StorageRoot       []byte
	EncodedSlice      [][]byte
}

// BatchSignRequest is the BatchSign RPC's request payload.
type BatchSignRequest struct {
	Requests []SignRequest
}

// BatchSignReply is the BatchSign RPC's response payload: one uncompressed
// G1 signature per request, not per slice.
type BatchSignReply struct {
	Signatures [][]byte
}

// RetrieveRequest is one inner request within a BatchRetrieve call.
type RetrieveRequest struct {
	Epoch       uint64
	QuorumID    uint64
	StorageRoot []byte
	RowIndexes  []uint32
}

// BatchRetrieveRequest is the BatchRetrieve RPC's request payload.
type BatchRetrieveRequest struct {
	Requests []RetrieveRequest
}

// Slices holds the raw row data returned for one inner retrieve request.
type Slices struct {
	EncodedSlice [][]byte
}

// BatchRetrieveReply is the BatchRetrieve RPC's response payload.
type BatchRetrieveReply struct {
	EncodedSlice []Slices
}

// Empty is the GetStatus RPC's request payload.
type Empty struct{}

// StatusReply is the GetStatus RPC's response payload.
type StatusReply struct {
	StatusCode int32
}

// MaxMessageSize is the 1 GiB request/response size limit from §6.
const MaxMessageSize = 1 << 30
