package signerrpc

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"

	"github.com/0glabs/0g-da-node/internal/apperr"
	"github.com/0glabs/0g-da-node/internal/bls254"
)

func toValidation(op string, err error) error {
	if err == nil {
		return nil
	}
	return apperr.Validation(op, err)
}

// to32 converts a 32-byte slice to a fixed array, rejecting any other length.
func to32(b []byte) ([32]byte, error) {
	var out [32]byte
	if len(b) != 32 {
		return out, fmt.Errorf("expected 32 bytes, got %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}

// decodeG1 parses a 64-byte big-endian X||Y encoding and admits it only if
// it lies on the curve and in the correct prime-order subgroup.
func decodeG1(b []byte) (bn254.G1Affine, error) {
	if len(b) != fp.Bytes*2 {
		return bn254.G1Affine{}, fmt.Errorf("expected %d bytes, got %d", fp.Bytes*2, len(b))
	}
	x := new(big.Int).SetBytes(b[:fp.Bytes])
	y := new(big.Int).SetBytes(b[fp.Bytes:])
	return bls254.NewG1Unchecked(x, y)
}
