package chainclient

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// DASignersPrecompileAddress is the fixed address of the DASigners
// precompile on the L1 chain.
var DASignersPrecompileAddress = common.HexToAddress("0x0000000000000000000000000000000000001000")

const daSignersABI = `[
  {"type":"function","name":"isSigner","stateMutability":"view","inputs":[{"name":"signer","type":"address"}],"outputs":[{"type":"bool"}]},
  {"type":"function","name":"registerSigner","stateMutability":"nonpayable","inputs":[
    {"name":"detail","type":"tuple","components":[
      {"name":"signer","type":"address"},
      {"name":"socket","type":"string"},
      {"name":"g1PubkeyX","type":"uint256"},
      {"name":"g1PubkeyY","type":"uint256"},
      {"name":"g2PubkeyX0","type":"uint256"},
      {"name":"g2PubkeyX1","type":"uint256"},
      {"name":"g2PubkeyY0","type":"uint256"},
      {"name":"g2PubkeyY1","type":"uint256"}
    ]},
    {"name":"sigX","type":"uint256"},
    {"name":"sigY","type":"uint256"}
  ],"outputs":[]},
  {"type":"function","name":"updateSocket","stateMutability":"nonpayable","inputs":[{"name":"socket","type":"string"}],"outputs":[]},
  {"type":"function","name":"getSigner","stateMutability":"view","inputs":[{"name":"signers","type":"address[]"}],"outputs":[{"name":"sockets","type":"string[]"}]},
  {"type":"function","name":"registeredEpoch","stateMutability":"view","inputs":[{"name":"signer","type":"address"},{"name":"epoch","type":"uint256"}],"outputs":[{"type":"bool"}]},
  {"type":"function","name":"registerNextEpoch","stateMutability":"nonpayable","inputs":[{"name":"sigX","type":"uint256"},{"name":"sigY","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"epochNumber","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
  {"type":"function","name":"quorumCount","stateMutability":"view","inputs":[{"name":"epoch","type":"uint256"}],"outputs":[{"type":"uint256"}]},
  {"type":"function","name":"getQuorum","stateMutability":"view","inputs":[{"name":"epoch","type":"uint256"},{"name":"quorumId","type":"uint256"}],"outputs":[{"name":"signers","type":"address[]"}]}
]`

// SignerDetail is the registration payload submitted once by a new signer.
type SignerDetail struct {
	Signer     common.Address
	Socket     string
	G1PubkeyX  *big.Int
	G1PubkeyY  *big.Int
	G2PubkeyX0 *big.Int
	G2PubkeyX1 *big.Int
	G2PubkeyY0 *big.Int
	G2PubkeyY1 *big.Int
}

// DASigners is the typed binding for the DASigners precompile.
type DASigners struct {
	client *Client
	addr   common.Address
	abi    abi.ABI
}

// NewDASigners constructs a binding for the DASigners precompile.
func NewDASigners(client *Client) *DASigners {
	return &DASigners{client: client, addr: DASignersPrecompileAddress, abi: mustParseABI(daSignersABI)}
}

// IsSigner reports whether addr has completed BLS key registration.
func (d *DASigners) IsSigner(ctx context.Context, addr common.Address) (bool, error) {
	var out bool
	err := d.client.call(ctx, d.abi, d.addr, "isSigner", &out, addr)
	return out, err
}

// GetSignerSocket returns the currently published socket address for addr.
func (d *DASigners) GetSignerSocket(ctx context.Context, addr common.Address) (string, error) {
	var out []string
	if err := d.client.call(ctx, d.abi, d.addr, "getSigner", &out, []common.Address{addr}); err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", ErrNotFound
	}
	return out[0], nil
}

// RegisteredEpoch reports whether addr is registered for epoch.
func (d *DASigners) RegisteredEpoch(ctx context.Context, addr common.Address, epoch uint64) (bool, error) {
	var out bool
	err := d.client.call(ctx, d.abi, d.addr, "registeredEpoch", &out, addr, new(big.Int).SetUint64(epoch))
	return out, err
}

// EpochNumber returns the current epoch.
func (d *DASigners) EpochNumber(ctx context.Context) (uint64, error) {
	var out *big.Int
	if err := d.client.call(ctx, d.abi, d.addr, "epochNumber", &out); err != nil {
		return 0, err
	}
	return out.Uint64(), nil
}

// QuorumCount returns the number of quorums defined for epoch.
func (d *DASigners) QuorumCount(ctx context.Context, epoch uint64) (uint64, error) {
	var out *big.Int
	if err := d.client.call(ctx, d.abi, d.addr, "quorumCount", &out, new(big.Int).SetUint64(epoch)); err != nil {
		return 0, err
	}
	return out.Uint64(), nil
}

// GetQuorum returns the ordered signer addresses of (epoch, quorumID).
func (d *DASigners) GetQuorum(ctx context.Context, epoch, quorumID uint64) ([]common.Address, error) {
	var out []common.Address
	err := d.client.call(ctx, d.abi, d.addr, "getQuorum", &out, new(big.Int).SetUint64(epoch), new(big.Int).SetUint64(quorumID))
	return out, err
}

// PackRegisterSigner builds the calldata for a one-time BLS key registration.
func (d *DASigners) PackRegisterSigner(detail SignerDetail, sigX, sigY *big.Int) ([]byte, error) {
	return d.abi.Pack("registerSigner", struct {
		Signer     common.Address
		Socket     string
		G1PubkeyX  *big.Int
		G1PubkeyY  *big.Int
		G2PubkeyX0 *big.Int
		G2PubkeyX1 *big.Int
		G2PubkeyY0 *big.Int
		G2PubkeyY1 *big.Int
	}{
		detail.Signer, detail.Socket,
		detail.G1PubkeyX, detail.G1PubkeyY,
		detail.G2PubkeyX0, detail.G2PubkeyX1, detail.G2PubkeyY0, detail.G2PubkeyY1,
	}, sigX, sigY)
}

// PackUpdateSocket builds the calldata to publish a new socket address.
func (d *DASigners) PackUpdateSocket(socket string) ([]byte, error) {
	return d.abi.Pack("updateSocket", socket)
}

// PackRegisterNextEpoch builds the calldata for next-epoch BLS re-registration.
func (d *DASigners) PackRegisterNextEpoch(sigX, sigY *big.Int) ([]byte, error) {
	return d.abi.Pack("registerNextEpoch", sigX, sigY)
}

// Address returns the precompile address this binding targets, for
// constructing transactions against it.
func (d *DASigners) Address() common.Address { return d.addr }
