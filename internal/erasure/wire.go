// Package erasure provides this node's own reference implementation of the
// EncodedSlice wire format and the merkle tie-check between a slice's row
// data and its blob's storage_root. The actual BN254 pairing / KZG-AMT
// commitment-equality check the spec calls for is explicitly out of scope
// here (§1 Non-goals: "the BN254 elliptic-curve, pairing, and KZG/AMT
// verifier library (assumed available)") — a production deployment swaps
// this package's Verifier for one backed by that library. DefaultVerifier
// exists so the signing service can be wired and exercised end-to-end
// against the parts of slice admission that do not require it.
package erasure

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Slice is this package's concrete EncodedSlice.
type Slice struct {
	index uint32
	root  [32]byte
	proof [][]byte
	rows  [][]byte
}

func (s Slice) Index() uint32         { return s.index }
func (s Slice) MerkleRoot() [32]byte  { return s.root }
func (s Slice) MerkleProof() [][]byte { return s.proof }
func (s Slice) RowData() [][]byte     { return s.rows }

// Encode serializes a Slice as: index(4) || root(32) || proof_len(2) ||
// (sibling_len(2) || sibling)... || row_count(4) || (32-byte row)...
func Encode(s Slice) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, s.index)
	buf.Write(s.root[:])
	_ = binary.Write(&buf, binary.BigEndian, uint16(len(s.proof)))
	for _, sib := range s.proof {
		_ = binary.Write(&buf, binary.BigEndian, uint16(len(sib)))
		buf.Write(sib)
	}
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(s.rows)))
	for _, r := range s.rows {
		buf.Write(r)
	}
	return buf.Bytes()
}

// Decode parses the format produced by Encode.
func Decode(b []byte) (Slice, error) {
	r := bytes.NewReader(b)
	var s Slice
	if err := binary.Read(r, binary.BigEndian, &s.index); err != nil {
		return Slice{}, fmt.Errorf("erasure: read index: %w", err)
	}
	if _, err := io.ReadFull(r, s.root[:]); err != nil {
		return Slice{}, fmt.Errorf("erasure: read root: %w", err)
	}

	var proofLen uint16
	if err := binary.Read(r, binary.BigEndian, &proofLen); err != nil {
		return Slice{}, fmt.Errorf("erasure: read proof_len: %w", err)
	}
	s.proof = make([][]byte, proofLen)
	for i := range s.proof {
		var l uint16
		if err := binary.Read(r, binary.BigEndian, &l); err != nil {
			return Slice{}, fmt.Errorf("erasure: read sibling_len: %w", err)
		}
		sib := make([]byte, l)
		if _, err := io.ReadFull(r, sib); err != nil {
			return Slice{}, fmt.Errorf("erasure: read sibling: %w", err)
		}
		s.proof[i] = sib
	}

	var rowCount uint32
	if err := binary.Read(r, binary.BigEndian, &rowCount); err != nil {
		return Slice{}, fmt.Errorf("erasure: read row_count: %w", err)
	}
	s.rows = make([][]byte, rowCount)
	for i := range s.rows {
		row := make([]byte, 32)
		if _, err := io.ReadFull(r, row); err != nil {
			return Slice{}, fmt.Errorf("erasure: read row %d: %w", i, err)
		}
		s.rows[i] = row
	}
	return s, nil
}
