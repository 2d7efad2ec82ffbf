package sampler

import "math/big"

// LineCandidate is a (slice, quality) pair stage-1 found to be below the
// current PoDAS target, queued for stage-2 to open and search for a
// winning subline.
type LineCandidate struct {
	Epoch       uint64
	QuorumID    uint64
	Root        [32]byte
	Index       uint16
	LineQuality [32]byte
	Task        SampleTask
}

// SampleTask mirrors chainclient.SampleTaskOnChain, carried end-to-end so a
// late-arriving candidate can still be matched against the task it was
// generated for. It does not record the sample range.
type SampleTask struct {
	SampleSeed      [32]byte
	PodasTarget     *big.Int
	RestSubmissions uint64
}

// u256 interprets a big-endian 32-byte value as an unsigned 256-bit
// integer, for target comparisons and the checked addition in stage-2.
func u256(b [32]byte) *big.Int {
	return new(big.Int).SetBytes(b[:])
}

// checkedAdd256 returns a+b and whether the sum still fits in 256 bits.
func checkedAdd256(a, b *big.Int) (*big.Int, bool) {
	sum := new(big.Int).Add(a, b)
	return sum, sum.BitLen() <= 256
}
