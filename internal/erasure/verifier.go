package erasure

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/0glabs/0g-da-node/internal/signerrpc"
)

// deferredVerifier AND-accumulates the per-slice merkle tie-checks this
// package can actually perform. A real KZG/AMT-backed Verifier would
// instead accumulate pairing-equation terms here and resolve them with one
// final pairing product in FastCheck.
type deferredVerifier struct {
	mu  sync.Mutex
	bad int32
}

func (d *deferredVerifier) FastCheck() bool {
	return atomic.LoadInt32(&d.bad) == 0
}

func (d *deferredVerifier) mark(ok bool) {
	if !ok {
		atomic.StoreInt32(&d.bad, 1)
	}
}

// DefaultVerifier implements signerrpc.Verifier by decoding this package's
// own Slice wire format and checking the merkle tie between a slice's row
// data and the blob's storage_root. It does not evaluate the erasure
// commitment's pairing equation at all — see the package doc.
type DefaultVerifier struct{}

var _ signerrpc.Verifier = DefaultVerifier{}

func (DefaultVerifier) Deserialize(raw []byte) (signerrpc.EncodedSlice, error) {
	s, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (DefaultVerifier) NewDeferredVerifier() signerrpc.DeferredVerifier {
	return &deferredVerifier{}
}

// Verify reconstructs the merkle root from slice's row data, proof path,
// and position, and checks it against storageRoot. commitment is accepted
// without a pairing check per the package doc.
func (DefaultVerifier) Verify(slice signerrpc.EncodedSlice, commitment bn254.G1Affine, storageRoot [32]byte, deferred signerrpc.DeferredVerifier) error {
	s, ok := slice.(Slice)
	if !ok {
		return fmt.Errorf("erasure: slice is not an erasure.Slice")
	}
	d, ok := deferred.(*deferredVerifier)
	if !ok {
		return fmt.Errorf("erasure: deferred verifier is not this package's type")
	}

	leaf := rowLeaf(s.rows)
	pos := int(s.index)
	for _, sib := range s.proof {
		if pos%2 == 0 {
			leaf = crypto.Keccak256Hash(leaf[:], sib)
		} else {
			leaf = crypto.Keccak256Hash(sib, leaf[:])
		}
		pos /= 2
	}

	ok = leaf == storageRoot && s.root == storageRoot
	d.mark(ok)
	if !ok {
		return fmt.Errorf("erasure: slice %d merkle tie-check failed", s.index)
	}
	return nil
}

func rowLeaf(rows [][]byte) [32]byte {
	var buf []byte
	for _, r := range rows {
		buf = append(buf, r...)
	}
	return crypto.Keccak256Hash(buf)
}
