package erasure

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/0glabs/0g-da-node/internal/bls254"
)

func makeSlice(t *testing.T, index uint32, rows [][]byte) Slice {
	t.Helper()
	leaf := rowLeaf(rows)
	sib := crypto.Keccak256Hash([]byte("sibling"))
	root := crypto.Keccak256Hash(leaf[:], sib[:])
	return Slice{
		index: index,
		root:  root,
		proof: [][]byte{sib[:]},
		rows:  rows,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rows := [][]byte{bytesOf(0x01), bytesOf(0x02), bytesOf(0x03)}
	s := makeSlice(t, 7, rows)

	decoded, err := Decode(Encode(s))
	require.NoError(t, err)
	require.Equal(t, s.Index(), decoded.Index())
	require.Equal(t, s.MerkleRoot(), decoded.MerkleRoot())
	require.Equal(t, s.MerkleProof(), decoded.MerkleProof())
	require.Equal(t, s.RowData(), decoded.RowData())
}

func TestDecodeRejectsTruncatedInput(t *testing.T) {
	s := makeSlice(t, 1, [][]byte{bytesOf(0xAA)})
	raw := Encode(s)
	_, err := Decode(raw[:len(raw)-3])
	require.Error(t, err)
}

func TestVerifyAcceptsMatchingRoot(t *testing.T) {
	rows := [][]byte{bytesOf(0x11), bytesOf(0x22)}
	s := makeSlice(t, 0, rows)

	v := DefaultVerifier{}
	deferred := v.NewDeferredVerifier()
	commitment := bls254.PublicKeyG1(big.NewInt(1))

	err := v.Verify(s, commitment, s.MerkleRoot(), deferred)
	require.NoError(t, err)
	require.True(t, deferred.FastCheck())
}

func TestVerifyRejectsMismatchedRoot(t *testing.T) {
	rows := [][]byte{bytesOf(0x11), bytesOf(0x22)}
	s := makeSlice(t, 0, rows)

	v := DefaultVerifier{}
	deferred := v.NewDeferredVerifier()
	commitment := bls254.PublicKeyG1(big.NewInt(1))

	var wrongRoot [32]byte
	wrongRoot[0] = 0xFF
	err := v.Verify(s, commitment, wrongRoot, deferred)
	require.Error(t, err)
	require.False(t, deferred.FastCheck())
}

func TestVerifyFastCheckAccumulatesAcrossCalls(t *testing.T) {
	v := DefaultVerifier{}
	deferred := v.NewDeferredVerifier()
	commitment := bls254.PublicKeyG1(big.NewInt(1))

	good := makeSlice(t, 0, [][]byte{bytesOf(0x01)})
	require.NoError(t, v.Verify(good, commitment, good.MerkleRoot(), deferred))
	require.True(t, deferred.FastCheck())

	bad := makeSlice(t, 1, [][]byte{bytesOf(0x02)})
	var wrongRoot [32]byte
	_ = v.Verify(bad, commitment, wrongRoot, deferred)
	require.False(t, deferred.FastCheck(), "one bad slice must flip FastCheck for the whole batch")
}

func bytesOf(b byte) []byte {
	out := make([]byte, 32)
	for i := range out {
		out[i] = b
	}
	return out
}
