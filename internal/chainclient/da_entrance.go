package chainclient

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const daEntranceABI = `[
  {"type":"event","name":"DataUpload","anonymous":false,"inputs":[
    {"name":"epoch","type":"uint256","indexed":true},
    {"name":"quorumId","type":"uint256","indexed":true},
    {"name":"dataRoot","type":"bytes32","indexed":false}
  ]},
  {"type":"event","name":"CommitRootVerified","anonymous":false,"inputs":[
    {"name":"epoch","type":"uint256","indexed":true},
    {"name":"quorumId","type":"uint256","indexed":true},
    {"name":"dataRoot","type":"bytes32","indexed":false}
  ]},
  {"type":"function","name":"epochWindowSize","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]}
]`

// DataUploadEvent and CommitRootVerifiedEvent have the same field shape on
// this contract. Each scan filters on its own event's topic ID and yields
// its own event type, but both decode fields through the one shared
// decodeIndexedEpochQuorum helper (two indexed uint256 topics, the first 32
// data bytes as the root); logs are not unpacked through the ABI event
// definitions.
type DataUploadEvent struct {
	Epoch    uint64
	QuorumID uint64
	DataRoot [32]byte
}

type CommitRootVerifiedEvent struct {
	Epoch    uint64
	QuorumID uint64
	DataRoot [32]byte
}

// DAEntrance is the typed binding for the DA entrance contract.
type DAEntrance struct {
	client *Client
	addr   common.Address
	abi    abi.ABI
}

// NewDAEntrance constructs a binding for the DAEntrance contract at addr.
func NewDAEntrance(client *Client, addr common.Address) *DAEntrance {
	return &DAEntrance{client: client, addr: addr, abi: mustParseABI(daEntranceABI)}
}

// EpochWindowSize returns the contract-configured pruning retention window,
// in epochs.
func (d *DAEntrance) EpochWindowSize(ctx context.Context) (uint64, error) {
	var out *big.Int
	if err := d.client.call(ctx, d.abi, d.addr, "epochWindowSize", &out); err != nil {
		return 0, err
	}
	return out.Uint64(), nil
}

// ScanDataUpload pages [from,to] for DataUpload logs, invoking handle for each.
func (d *DAEntrance) ScanDataUpload(ctx context.Context, from, to, maxPage uint64, handle func(DataUploadEvent) error) error {
	topic := d.abi.Events["DataUpload"].ID
	return d.client.filterLogs(ctx, d.addr, [][]common.Hash{{topic}}, from, to, maxPage, func(l types.Log) error {
		epoch, quorumID, err := decodeIndexedEpochQuorum(l)
		if err != nil {
			return err
		}
		var root [32]byte
		copy(root[:], l.Data)
		return handle(DataUploadEvent{Epoch: epoch, QuorumID: quorumID, DataRoot: root})
	})
}

// ScanCommitRootVerified pages [from,to] for CommitRootVerified logs,
// invoking handle for each.
func (d *DAEntrance) ScanCommitRootVerified(ctx context.Context, from, to, maxPage uint64, handle func(CommitRootVerifiedEvent) error) error {
	topic := d.abi.Events["CommitRootVerified"].ID
	return d.client.filterLogs(ctx, d.addr, [][]common.Hash{{topic}}, from, to, maxPage, func(l types.Log) error {
		epoch, quorumID, err := decodeIndexedEpochQuorum(l)
		if err != nil {
			return err
		}
		var root [32]byte
		copy(root[:], l.Data)
		return handle(CommitRootVerifiedEvent{Epoch: epoch, QuorumID: quorumID, DataRoot: root})
	})
}

// decodeIndexedEpochQuorum extracts the two indexed uint256 topics common to
// both events this contract emits.
func decodeIndexedEpochQuorum(l types.Log) (epoch, quorumID uint64, err error) {
	if len(l.Topics) < 3 {
		return 0, 0, ErrNotFound
	}
	epoch = new(big.Int).SetBytes(l.Topics[1].Bytes()).Uint64()
	quorumID = new(big.Int).SetBytes(l.Topics[2].Bytes()).Uint64()
	return epoch, quorumID, nil
}
