package sampler

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// sublineTree is the lazily-built merkle tree over one line's NumSublines
// chunks, used only to produce sibling proofs for a winning subline; the
// quality computation itself hashes raw subline bytes, not tree nodes.
type sublineTree struct {
	// layers[0] holds the NumSublines flow-leaves (one keccak256 per
	// subline's raw bytes); each subsequent layer pairs the previous one
	// down to a single root at layers[MerkleDepth].
	layers [][][32]byte
}

// buildSublineTree hashes line (LineBytes long) into its NumSublines
// flow-leaves and folds them pairwise up to the root.
func buildSublineTree(line []byte) (*sublineTree, error) {
	if len(line) != LineBytes {
		return nil, fmt.Errorf("sampler: line is %d bytes, want %d", len(line), LineBytes)
	}

	leaves := make([][32]byte, NumSublines)
	for i := 0; i < NumSublines; i++ {
		chunk := line[i*SublineBytes : (i+1)*SublineBytes]
		leaves[i] = crypto.Keccak256Hash(chunk)
	}

	layers := make([][][32]byte, 0, MerkleDepth+1)
	layers = append(layers, leaves)
	cur := leaves
	for len(cur) > 1 {
		next := make([][32]byte, len(cur)/2)
		for i := range next {
			next[i] = crypto.Keccak256Hash(cur[2*i][:], cur[2*i+1][:])
		}
		layers = append(layers, next)
		cur = next
	}
	return &sublineTree{layers: layers}, nil
}

// root returns the tree's single top-layer node.
func (t *sublineTree) root() [32]byte {
	top := t.layers[len(t.layers)-1]
	return top[0]
}

// proof returns the sibling path from leaf sublineIndex up to the root, one
// hash per layer (MerkleDepth entries for NumSublines=32).
func (t *sublineTree) proof(sublineIndex int) [][32]byte {
	out := make([][32]byte, 0, len(t.layers)-1)
	idx := sublineIndex
	for layer := 0; layer < len(t.layers)-1; layer++ {
		sibling := idx ^ 1
		out = append(out, t.layers[layer][sibling])
		idx /= 2
	}
	return out
}

// lineQuality is keccak256(sample_seed || pad32(epoch) || pad32(quorum_id)
// || root || pad8(index)).
func lineQuality(sampleSeed [32]byte, epoch, quorumID uint64, root [32]byte, index uint16) [32]byte {
	var buf []byte
	buf = append(buf, sampleSeed[:]...)
	buf = append(buf, pad32(epoch)...)
	buf = append(buf, pad32(quorumID)...)
	buf = append(buf, root[:]...)
	buf = append(buf, pad8(index)...)
	return crypto.Keccak256Hash(buf)
}

// dataQuality is keccak256(be32(line_quality) || pad32(subline_index) ||
// subline_elements).
func dataQuality(quality [32]byte, sublineIndex int, sublineBytes []byte) [32]byte {
	var buf []byte
	buf = append(buf, quality[:]...)
	buf = append(buf, pad32(uint64(sublineIndex))...)
	buf = append(buf, sublineBytes...)
	return crypto.Keccak256Hash(buf)
}

func pad32(v uint64) []byte {
	out := make([]byte, 32)
	binary.BigEndian.PutUint64(out[24:], v)
	return out
}

func pad8(v uint16) []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint16(out[6:], v)
	return out
}
