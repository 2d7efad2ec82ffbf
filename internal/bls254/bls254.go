// Package bls254 implements the BN254 group operations the signer needs
// directly: hashing arbitrary digests onto G1, checked point construction,
// scalar multiplication for BLS signing, and canonical (de)serialization.
//
// The heavier KZG/AMT slice-verification machinery is assumed to live in an
// external pairing library; this package only covers the curve arithmetic
// that is part of the node's own signing and registration logic.
package bls254

import (
	"encoding/binary"
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/ethereum/go-ethereum/crypto"
)

// PubkeyRegistrationDomain is appended to the signer-registration preimage.
// 28 bytes, no NUL terminator.
const PubkeyRegistrationDomain = "0G_BN254_Pubkey_Registration"

var (
	// ErrNotOnCurve is returned when a point fails the curve equation check.
	ErrNotOnCurve = errors.New("bls254: point is not on the BN254 curve")
	// ErrNotInSubgroup is returned when a point is on the curve but not in
	// the prime-order subgroup used by the protocol.
	ErrNotInSubgroup = errors.New("bls254: point is not in the correct subgroup")
	// ErrBadEncoding is returned by deserialization on malformed input.
	ErrBadEncoding = errors.New("bls254: malformed point encoding")

	curveB = big.NewInt(3)
)

// fqModulus returns the BN254 base field modulus p.
func fqModulus() *big.Int {
	return fp.Modulus()
}

// MapToG1 deterministically hashes digest onto a point of G1 using the
// node's hash-to-curve convention: treat digest as an x-coordinate candidate
// in Fq and probe x, x+1, x+2, ... until x^3+3 is a quadratic residue, then
// take its principal square root (valid because p ≡ 3 mod 4).
func MapToG1(digest []byte) bn254.G1Affine {
	p := fqModulus()
	x := new(big.Int).Mod(new(big.Int).SetBytes(digest), p)

	exp := new(big.Int).Add(p, big.NewInt(1))
	exp.Rsh(exp, 2) // (p+1)/4

	one := big.NewInt(1)
	for {
		beta := new(big.Int).Exp(x, big.NewInt(3), p)
		beta.Add(beta, curveB)
		beta.Mod(beta, p)

		y := new(big.Int).Exp(beta, exp, p)
		check := new(big.Int).Exp(y, big.NewInt(2), p)
		if check.Cmp(beta) == 0 {
			var pt bn254.G1Affine
			pt.X.SetBigInt(x)
			pt.Y.SetBigInt(y)
			return pt
		}
		x.Add(x, one)
		x.Mod(x, p)
	}
}

// NewG1Unchecked builds a G1Affine from raw (x, y) coordinates and rejects it
// unless it lies on the curve and in the correct prime-order subgroup. This
// mirrors the admission check the signing RPC performs on an incoming
// erasure commitment before it is used in any verification or hashing step.
func NewG1Unchecked(x, y *big.Int) (bn254.G1Affine, error) {
	var pt bn254.G1Affine
	pt.X.SetBigInt(x)
	pt.Y.SetBigInt(y)
	if !pt.IsOnCurve() {
		return bn254.G1Affine{}, ErrNotOnCurve
	}
	if !pt.IsInSubGroup() {
		return bn254.G1Affine{}, ErrNotInSubgroup
	}
	return pt, nil
}

// ScalarMulG1 computes scalar * p, used both for BLS signing (sk * H(m)) and
// for deriving a BLS registration signature (sk * H1).
func ScalarMulG1(p bn254.G1Affine, scalar *big.Int) bn254.G1Affine {
	var out bn254.G1Affine
	out.ScalarMultiplication(&p, scalar)
	return out
}

// AffineXY extracts the (x, y) coordinates of p as big.Int, matching the
// decimal test vectors published alongside this protocol.
func AffineXY(p bn254.G1Affine) (x, y *big.Int) {
	x = new(big.Int)
	y = new(big.Int)
	p.X.BigInt(x)
	p.Y.BigInt(y)
	return x, y
}

// PublicKeyG1 derives the G1 public key for a BLS secret scalar.
func PublicKeyG1(sk *big.Int) bn254.G1Affine {
	_, _, g1, _ := bn254.Generators()
	var out bn254.G1Affine
	out.ScalarMultiplication(&g1, sk)
	return out
}

// PublicKeyG2 derives the G2 public key for a BLS secret scalar.
func PublicKeyG2(sk *big.Int) bn254.G2Affine {
	_, _, _, g2 := bn254.Generators()
	var out bn254.G2Affine
	out.ScalarMultiplication(&g2, sk)
	return out
}

// AffineXYG2 extracts the (x0,x1,y0,y1) coordinates of a G2 point, each an
// Fq2 element represented as two Fq limbs.
func AffineXYG2(p bn254.G2Affine) (x0, x1, y0, y1 *big.Int) {
	x0, x1 = new(big.Int), new(big.Int)
	y0, y1 = new(big.Int), new(big.Int)
	p.X.A0.BigInt(x0)
	p.X.A1.BigInt(x1)
	p.Y.A0.BigInt(y0)
	p.Y.A1.BigInt(y1)
	return
}

// SerializeUncompressed returns the 64-byte big-endian X||Y encoding used on
// the wire for signatures and public keys.
func SerializeUncompressed(p bn254.G1Affine) []byte {
	buf := p.RawBytes()
	out := make([]byte, len(buf))
	copy(out, buf[:])
	return out
}

// DeserializeUncompressed parses the 64-byte big-endian X||Y encoding
// produced by SerializeUncompressed.
func DeserializeUncompressed(b []byte) (bn254.G1Affine, error) {
	var pt bn254.G1Affine
	if len(b) != fp.Bytes*2 {
		return bn254.G1Affine{}, ErrBadEncoding
	}
	var buf [fp.Bytes * 2]byte
	copy(buf[:], b)
	if _, err := pt.SetBytes(buf[:]); err != nil {
		return bn254.G1Affine{}, ErrBadEncoding
	}
	return pt, nil
}

// RegistrationDigest builds the keccak256 preimage hashed to G1 when a
// signer registers its BLS key for the first time:
// keccak256(addr ‖ leftPadZeros(chainID, 32) ‖ PUBKEY_REGISTRATION_DOMAIN).
//
// leftPadZeros here is NOT a big-endian 32-byte encoding: it mirrors the
// chain-state reference implementation's left_pad_zeros(x, l), which zero-
// fills the high l-8 bytes and places x as 8 little-endian bytes in the
// low end. chainID is truncated to its low 64 bits to match that helper's
// u64 domain.
func RegistrationDigest(addr [20]byte, chainID *big.Int) [32]byte {
	var buf []byte
	buf = append(buf, addr[:]...)
	buf = append(buf, leftPadZerosLE(chainID.Uint64(), 32)...)
	buf = append(buf, []byte(PubkeyRegistrationDomain)...)
	return to32(crypto.Keccak256(buf))
}

// NextEpochDigest builds the preimage hashed to G1 when a signer registers
// itself for the following epoch:
// keccak256(addr ‖ leftPadZeros(epoch, 8) ‖ leftPadZeros(chainID, 32)).
// See RegistrationDigest for the leftPadZeros layout.
func NextEpochDigest(addr [20]byte, epoch uint64, chainID *big.Int) [32]byte {
	var buf []byte
	buf = append(buf, addr[:]...)
	buf = append(buf, leftPadZerosLE(epoch, 8)...)
	buf = append(buf, leftPadZerosLE(chainID.Uint64(), 32)...)
	return to32(crypto.Keccak256(buf))
}

// BlobVerifiedDigest builds the preimage hashed to G1 before signing a
// verified blob: keccak256(root ‖ pad32(epoch) ‖ pad32(quorumID) ‖ pad32(gx) ‖ pad32(gy)).
func BlobVerifiedDigest(root [32]byte, epoch, quorumID uint64, gx, gy *big.Int) [32]byte {
	var buf []byte
	buf = append(buf, root[:]...)
	buf = append(buf, leftPad32(new(big.Int).SetUint64(epoch))...)
	buf = append(buf, leftPad32(new(big.Int).SetUint64(quorumID))...)
	buf = append(buf, leftPad32(gx)...)
	buf = append(buf, leftPad32(gy)...)
	return to32(crypto.Keccak256(buf))
}

func to32(b []byte) [32]byte {
	var out [32]byte
	copy(out[:], b)
	return out
}

func leftPad32(v *big.Int) []byte {
	b := v.Bytes()
	if len(b) >= 32 {
		return b[len(b)-32:]
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}

func leftPad8(v uint64) []byte {
	out := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}
	return out
}

// leftPadZerosLE matches the chain-state reference's left_pad_zeros(x, l):
// l-8 zero bytes followed by the 8 little-endian bytes of x. Used only for
// the registration/next-epoch digests, which must match that exact on-chain
// preimage layout; unlike leftPad32/leftPad8 it is not a standard big-endian
// fixed-width encoding.
func leftPadZerosLE(v uint64, l int) []byte {
	out := make([]byte, l)
	binary.LittleEndian.PutUint64(out[l-8:], v)
	return out
}
