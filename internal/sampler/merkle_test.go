package sampler

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func makeLine(fill byte) []byte {
	line := make([]byte, LineBytes)
	for i := range line {
		line[i] = fill
	}
	return line
}

func TestBuildSublineTreeRejectsWrongLength(t *testing.T) {
	_, err := buildSublineTree(make([]byte, LineBytes-1))
	require.Error(t, err)
}

func TestSublineTreeProofVerifiesAgainstRoot(t *testing.T) {
	line := makeLine(0x11)
	// Make each subline distinguishable so the tree isn't degenerate.
	for i := 0; i < NumSublines; i++ {
		line[i*SublineBytes] = byte(i)
	}
	tree, err := buildSublineTree(line)
	require.NoError(t, err)

	for idx := 0; idx < NumSublines; idx++ {
		leaf := crypto.Keccak256Hash(line[idx*SublineBytes : (idx+1)*SublineBytes])
		proof := tree.proof(idx)
		require.Len(t, proof, MerkleDepth)

		computed := leaf
		pos := idx
		for _, sibling := range proof {
			if pos%2 == 0 {
				computed = crypto.Keccak256Hash(computed[:], sibling[:])
			} else {
				computed = crypto.Keccak256Hash(sibling[:], computed[:])
			}
			pos /= 2
		}
		require.Equal(t, tree.root(), computed)
	}
}

func TestLineQualityDeterministic(t *testing.T) {
	var seed, root [32]byte
	seed[0] = 1
	root[0] = 2
	a := lineQuality(seed, 5, 0, root, 3)
	b := lineQuality(seed, 5, 0, root, 3)
	require.Equal(t, a, b)

	c := lineQuality(seed, 5, 0, root, 4)
	require.False(t, bytes.Equal(a[:], c[:]))
}

func TestDataQualityDeterministic(t *testing.T) {
	var q [32]byte
	q[0] = 9
	elements := make([]byte, SublineBytes)
	a := dataQuality(q, 2, elements)
	b := dataQuality(q, 2, elements)
	require.Equal(t, a, b)
}
