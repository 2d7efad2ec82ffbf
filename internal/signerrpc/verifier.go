package signerrpc

import (
	"github.com/consensys/gnark-crypto/ecc/bn254"
)

// EncodedSlice is produced by deserializing one raw slice blob via the
// external erasure-coding/KZG library. The library itself (BN254 pairing
// checks, KZG/AMT commitment verification) is assumed available; this node
// only depends on the narrow surface below.
type EncodedSlice interface {
	// Index is the slice's row position within its blob.
	Index() uint32
	// MerkleRoot ties RowData back to the blob's storage root.
	MerkleRoot() [32]byte
	// MerkleProof is the sibling path from RowData to MerkleRoot.
	MerkleProof() [][]byte
	// RowData returns the BLOB_COL_N field elements (32 bytes each) making
	// up this slice's erasure-coded row.
	RowData() [][]byte
}

// DeferredVerifier accumulates pairing-equation terms from many slice
// verifications into one final equality check, amortizing the most
// expensive part of verification. Implementations must be safe for
// concurrent use from multiple goroutines.
type DeferredVerifier interface {
	// FastCheck performs the batched pairing equality check. A false result
	// means at least one accumulated slice failed verification, but which
	// one is not localisable from this check alone.
	FastCheck() bool
}

// Verifier is the external pairing/KZG verification library's surface.
type Verifier interface {
	// Deserialize parses one raw slice blob as sent over the wire.
	Deserialize(raw []byte) (EncodedSlice, error)
	// NewDeferredVerifier creates a fresh accumulator for one batch.
	NewDeferredVerifier() DeferredVerifier
	// Verify checks slice against commitment and storageRoot, accumulating
	// its pairing terms into deferred rather than resolving them immediately.
	Verify(slice EncodedSlice, commitment bn254.G1Affine, storageRoot [32]byte, deferred DeferredVerifier) error
}
