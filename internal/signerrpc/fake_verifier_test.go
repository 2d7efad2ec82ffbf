package signerrpc

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254"
)

// fakeSlice is a trivial EncodedSlice whose wire form is just its own JSON
// encoding, standing in for the real erasure-coded row format.
type fakeSlice struct {
	Idx   uint32
	Root  [32]byte
	Proof [][]byte
	Rows  [][]byte
}

func (s fakeSlice) Index() uint32        { return s.Idx }
func (s fakeSlice) MerkleRoot() [32]byte { return s.Root }
func (s fakeSlice) MerkleProof() [][]byte { return s.Proof }
func (s fakeSlice) RowData() [][]byte    { return s.Rows }

func encodeFakeSlice(s fakeSlice) []byte {
	b, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	return b
}

// fakeVerifier accepts every slice whose root equals the storage root, and
// its deferred check fails when failDeferred is set, standing in for the
// external pairing/KZG library.
type fakeVerifier struct {
	mu           sync.Mutex
	failDeferred bool
}

type fakeDeferred struct {
	v  *fakeVerifier
	ok bool
}

func (d *fakeDeferred) FastCheck() bool {
	return d.ok && !d.v.failDeferred
}

func (v *fakeVerifier) Deserialize(raw []byte) (EncodedSlice, error) {
	var s fakeSlice
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("fakeVerifier: %w", err)
	}
	return s, nil
}

func (v *fakeVerifier) NewDeferredVerifier() DeferredVerifier {
	return &fakeDeferred{v: v, ok: true}
}

func (v *fakeVerifier) Verify(slice EncodedSlice, commitment bn254.G1Affine, storageRoot [32]byte, deferred DeferredVerifier) error {
	fs := slice.(fakeSlice)
	if fs.Root != storageRoot {
		return fmt.Errorf("fakeVerifier: slice %d root mismatch", fs.Idx)
	}
	return nil
}
