// Package sampler implements the PoDAS sampler/miner: a watcher that tracks
// the on-chain sampling challenge, a two-stage quality search over this
// node's stored slices, and a submitter that turns winning sublines into
// on-chain transactions.
package sampler

// BlobColN is the number of BLOB_UNIT-sized field elements in one erasure
// coded row. A line of BlobColN elements divides evenly into NumSublines
// groups of SublineElements each, so the merkle construction's initial
// chunk-of-8 step lands exactly on the leaf layer with no extra chunk-by-2
// rounds needed to reach it (see merkle.go).
const BlobColN = 256

// BlobUnit is the width of one field element in bytes.
const BlobUnit = 32

// LineBytes is the byte length of one full erasure-coded row.
const LineBytes = BlobColN * BlobUnit

// NumSublines is the number of equal chunks a line is split into for PoDAS
// challenges; also the width of the subline merkle tree's leaf layer.
const NumSublines = 32

// SublineBytes is the byte length of one subline.
const SublineBytes = LineBytes / NumSublines

// SublineElements is the number of field elements in one subline, and the
// chunk width of the merkle tree's initial flow-leaf hashing step.
const SublineElements = SublineBytes / BlobUnit

// MerkleDepth is log2(NumSublines), the number of sibling hashes in a
// subline proof.
const MerkleDepth = 5

// TargetSubmissions is the protocol's TARGET_SUBMISSIONS value. Nothing in
// this package reads it; stage-1's per-pass epoch bound is EpochBatchSize.
const TargetSubmissions = 20

// EpochBatchSize is how many epochs stage-1 pops from its cache per tick.
const EpochBatchSize = 20

// WatcherPollInterval is how often the watcher polls sampleTask/sampleRange.
const WatcherPollInterval = 1 // seconds, see watcher.go

// FeedBufferSize is the subscriber channel capacity for the watcher's lossy
// broadcast feed.
const FeedBufferSize = 1024
