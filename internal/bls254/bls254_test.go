package bls254

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapToG1OnCurve(t *testing.T) {
	digests := [][]byte{
		{},
		{0x01},
		bytesRepeat(0x11, 32),
		bytesRepeat(0xff, 32),
	}
	for _, d := range digests {
		pt := MapToG1(d)
		require.True(t, pt.IsOnCurve(), "point for digest %x must be on curve", d)
		require.True(t, pt.IsInSubGroup(), "point for digest %x must be in subgroup", d)
	}
}

func TestSerializeG1RoundTripsPublishedVector(t *testing.T) {
	x, ok := new(big.Int).SetString("6724056690578064879501359149704940571474381127582691772428550782789070831541", 10)
	require.True(t, ok)
	y, ok := new(big.Int).SetString("18651409236587979085867897570013409832053634072050362090660321202904060862390", 10)
	require.True(t, ok)

	pt, err := NewG1Unchecked(x, y)
	require.NoError(t, err)

	gotX, gotY := AffineXY(pt)
	require.Equal(t, x, gotX)
	require.Equal(t, y, gotY)

	encoded := SerializeUncompressed(pt)
	decoded, err := DeserializeUncompressed(encoded)
	require.NoError(t, err)
	dx, dy := AffineXY(decoded)
	require.Equal(t, x, dx)
	require.Equal(t, y, dy)
}

func TestBlobVerifiedHashDeterministicAndSignatureMatchesUnitKey(t *testing.T) {
	var root [32]byte
	for i := range root {
		root[i] = 0x11
	}
	gx := big.NewInt(1)
	gy := big.NewInt(2)

	d1 := BlobVerifiedDigest(root, 1, 2, gx, gy)
	d2 := BlobVerifiedDigest(root, 1, 2, gx, gy)
	require.Equal(t, d1, d2, "blob_verified_hash must be deterministic")

	hash := MapToG1(d1[:])
	hx, hy := AffineXY(hash)

	// Signing with the unit scalar must reproduce the hash point unchanged.
	sig := ScalarMulG1(hash, big.NewInt(1))
	sigX, sigY := AffineXY(sig)
	require.Equal(t, hx, sigX)
	require.Equal(t, hy, sigY)
}

func TestRegistrationDigestVariesWithChainID(t *testing.T) {
	var addr [20]byte
	for i := range addr {
		addr[i] = 0x42
	}
	d1 := RegistrationDigest(addr, big.NewInt(1))
	d2 := RegistrationDigest(addr, big.NewInt(2))
	require.NotEqual(t, d1, d2)
}

func bytesRepeat(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}
