package chainclient

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const daSampleABI = `[
  {"type":"function","name":"sampleTask","stateMutability":"view","inputs":[],"outputs":[
    {"name":"sampleSeed","type":"bytes32"},
    {"name":"podasTarget","type":"uint256"},
    {"name":"restSubmissions","type":"uint256"}
  ]},
  {"type":"function","name":"sampleRange","stateMutability":"view","inputs":[],"outputs":[
    {"name":"startEpoch","type":"uint256"},
    {"name":"endEpoch","type":"uint256"}
  ]},
  {"type":"function","name":"commitmentExists","stateMutability":"view","inputs":[
    {"name":"root","type":"bytes32"},
    {"name":"epoch","type":"uint256"},
    {"name":"quorumId","type":"uint256"}
  ],"outputs":[{"type":"bool"}]},
  {"type":"function","name":"submitSamplingResponse","stateMutability":"nonpayable","inputs":[
    {"name":"epoch","type":"uint256"},
    {"name":"quorumId","type":"uint256"},
    {"name":"dataRoot","type":"bytes32"},
    {"name":"quality","type":"uint256"},
    {"name":"lineIndex","type":"uint256"},
    {"name":"sublineIndex","type":"uint256"},
    {"name":"data","type":"bytes"},
    {"name":"blobRoots","type":"bytes32[]"},
    {"name":"proof","type":"bytes32[]"},
    {"name":"sampleSeed","type":"bytes32"}
  ],"outputs":[]}
]`

// SampleTaskOnChain is the current PoDAS challenge as read from the chain.
type SampleTaskOnChain struct {
	SampleSeed      [32]byte
	PodasTarget     *big.Int
	RestSubmissions uint64
}

// SampleRangeOnChain is the epoch window the current challenge covers.
type SampleRangeOnChain struct {
	StartEpoch uint64
	EndEpoch   uint64
}

// SampleResponse is the winning submission built by the miner's stage-2.
type SampleResponse struct {
	Epoch        uint64
	QuorumID     uint64
	DataRoot     [32]byte
	Quality      *big.Int
	LineIndex    uint64
	SublineIndex uint64
	Data         []byte
	BlobRoots    [][32]byte
	Proof        [][32]byte
	SampleSeed   [32]byte
}

// DASample is the typed binding for the DASample contract.
type DASample struct {
	client *Client
	addr   common.Address
	abi    abi.ABI
}

// NewDASample constructs a binding for the DASample contract at addr.
func NewDASample(client *Client, addr common.Address) *DASample {
	return &DASample{client: client, addr: addr, abi: mustParseABI(daSampleABI)}
}

// SampleTask reads the current sampling challenge.
func (d *DASample) SampleTask(ctx context.Context) (SampleTaskOnChain, error) {
	var out struct {
		SampleSeed      [32]byte
		PodasTarget     *big.Int
		RestSubmissions *big.Int
	}
	if err := d.client.call(ctx, d.abi, d.addr, "sampleTask", &out); err != nil {
		return SampleTaskOnChain{}, err
	}
	return SampleTaskOnChain{
		SampleSeed:      out.SampleSeed,
		PodasTarget:     out.PodasTarget,
		RestSubmissions: out.RestSubmissions.Uint64(),
	}, nil
}

// SampleRange reads the current epoch window covered by the sampling game.
func (d *DASample) SampleRange(ctx context.Context) (SampleRangeOnChain, error) {
	var out struct {
		StartEpoch *big.Int
		EndEpoch   *big.Int
	}
	if err := d.client.call(ctx, d.abi, d.addr, "sampleRange", &out); err != nil {
		return SampleRangeOnChain{}, err
	}
	return SampleRangeOnChain{StartEpoch: out.StartEpoch.Uint64(), EndEpoch: out.EndEpoch.Uint64()}, nil
}

// CommitmentExists reports whether (root, epoch, quorumID) is still a live
// commitment on L1 — a submission targeting a pruned or nonexistent
// commitment must be silently abandoned.
func (d *DASample) CommitmentExists(ctx context.Context, root [32]byte, epoch, quorumID uint64) (bool, error) {
	var out bool
	err := d.client.call(ctx, d.abi, d.addr, "commitmentExists", &out, root, new(big.Int).SetUint64(epoch), new(big.Int).SetUint64(quorumID))
	return out, err
}

// PackSubmitSamplingResponse builds the calldata for one PoDAS submission.
func (d *DASample) PackSubmitSamplingResponse(r SampleResponse) ([]byte, error) {
	blobRoots := make([][32]byte, len(r.BlobRoots))
	copy(blobRoots, r.BlobRoots)
	proof := make([][32]byte, len(r.Proof))
	copy(proof, r.Proof)
	return d.abi.Pack("submitSamplingResponse",
		new(big.Int).SetUint64(r.Epoch),
		new(big.Int).SetUint64(r.QuorumID),
		r.DataRoot,
		r.Quality,
		new(big.Int).SetUint64(r.LineIndex),
		new(big.Int).SetUint64(r.SublineIndex),
		r.Data,
		blobRoots,
		proof,
		r.SampleSeed,
	)
}

// Address returns the contract address this binding targets.
func (d *DASample) Address() common.Address { return d.addr }
