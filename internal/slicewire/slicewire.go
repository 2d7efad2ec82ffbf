// Package slicewire defines the byte encoding used for the LightSlice
// records persisted by the signing service and read back by the sampler's
// stage-2 miner when it assembles a PoDAS submission proof. Keeping this in
// one place means both sides agree on the format without importing each
// other's internals.
package slicewire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// EncodeLight serializes a slice's merkle root and proof path as:
// root(32) || proof_len(2, big-endian) || (sibling_len(2) || sibling)...
func EncodeLight(root [32]byte, proof [][]byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(root[:])
	if len(proof) > 0xFFFF {
		return nil, fmt.Errorf("slicewire: merkle proof too long: %d siblings", len(proof))
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(proof))); err != nil {
		return nil, err
	}
	for _, sib := range proof {
		if len(sib) > 0xFFFF {
			return nil, fmt.Errorf("slicewire: merkle sibling too long: %d bytes", len(sib))
		}
		if err := binary.Write(&buf, binary.BigEndian, uint16(len(sib))); err != nil {
			return nil, err
		}
		buf.Write(sib)
	}
	return buf.Bytes(), nil
}

// DecodeLight parses the format produced by EncodeLight.
func DecodeLight(b []byte) (root [32]byte, proof [][]byte, err error) {
	if len(b) < 34 {
		return root, nil, fmt.Errorf("slicewire: short light slice: %d bytes", len(b))
	}
	copy(root[:], b[:32])
	r := bytes.NewReader(b[32:])

	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return root, nil, err
	}
	proof = make([][]byte, n)
	for i := 0; i < int(n); i++ {
		var l uint16
		if err := binary.Read(r, binary.BigEndian, &l); err != nil {
			return root, nil, err
		}
		sib := make([]byte, l)
		if _, err := io.ReadFull(r, sib); err != nil {
			return root, nil, err
		}
		proof[i] = sib
	}
	return root, proof, nil
}

// EncodeRowData concatenates a slice's field-element rows into one byte
// string; each element is fixed-width so no length framing is needed.
func EncodeRowData(rows [][]byte) []byte {
	var buf bytes.Buffer
	for _, r := range rows {
		buf.Write(r)
	}
	return buf.Bytes()
}
