// Package chainclient is the node's thin wrapper around the L1 JSON-RPC
// client. Block-finality tracking, raw log pagination, and transaction
// retry/backoff are treated as the responsibility of an external L1
// client library (go-ethereum's ethclient.Client, used directly here); this
// package only adds the node-specific retry policy and the typed call
// surface for the three contracts in the protocol.
package chainclient

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
)

// RetryBackoff is the sleep between retries of a transient L1 call, per §4.2.
const RetryBackoff = 5 * time.Second

// Client wraps *ethclient.Client with a retry-every-error call wrapper
// shared by every contract binding in this package.
type Client struct {
	Eth     *ethclient.Client
	ChainID *big.Int
	log     log.Logger
}

// Dial connects to the configured L1 JSON-RPC endpoint.
func Dial(ctx context.Context, endpoint string) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("chainclient: dial %s: %w", endpoint, err)
	}
	chainID, err := eth.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chainclient: chain id: %w", err)
	}
	return &Client{Eth: eth, ChainID: chainID, log: log.New("module", "chainclient")}, nil
}

// FinalizedBlock returns the highest finalized block number known to the L1
// node.
func (c *Client) FinalizedBlock(ctx context.Context) (uint64, error) {
	header, err := c.Eth.HeaderByNumber(ctx, big.NewInt(rpc.FinalizedBlockNumber.Int64()))
	if err != nil {
		return 0, err
	}
	return header.Number.Uint64(), nil
}

// retry invokes fn until it succeeds or ctx is done, sleeping RetryBackoff
// between attempts. Every loop in this node treats chain/RPC errors as
// transient per §7; callers that need a single attempt should not use this.
func (c *Client) retry(ctx context.Context, op string, fn func() error) error {
	for {
		err := fn()
		if err == nil {
			return nil
		}
		c.log.Warn("transient chain call failure, retrying", "op", op, "err", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(RetryBackoff):
		}
	}
}

// call performs a read-only contract call and unpacks result into out via
// the given ABI method name.
func (c *Client) call(ctx context.Context, parsed abi.ABI, addr common.Address, method string, out interface{}, args ...interface{}) error {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("chainclient: pack %s: %w", method, err)
	}
	var raw []byte
	err = c.retry(ctx, method, func() error {
		var callErr error
		raw, callErr = c.Eth.CallContract(ctx, ethereum.CallMsg{To: &addr, Data: data}, nil)
		return callErr
	})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return parsed.UnpackIntoInterface(out, method, raw)
}

// filterLogs pages [from, to] in blocks of at most maxPage,
// invoking handle for each decoded contract address + topic match.
func (c *Client) filterLogs(ctx context.Context, addr common.Address, topics [][]common.Hash, from, to uint64, maxPage uint64, handle func(types.Log) error) error {
	for start := from; start <= to; start += maxPage {
		end := start + maxPage - 1
		if end > to {
			end = to
		}
		var logs []types.Log
		err := c.retry(ctx, "FilterLogs", func() error {
			var err error
			logs, err = c.Eth.FilterLogs(ctx, ethereum.FilterQuery{
				FromBlock: big.NewInt(int64(start)),
				ToBlock:   big.NewInt(int64(end)),
				Addresses: []common.Address{addr},
				Topics:    topics,
			})
			return err
		})
		if err != nil {
			return err
		}
		for _, l := range logs {
			if err := handle(l); err != nil {
				return err
			}
		}
	}
	return nil
}

// ErrNotFound is returned by typed call helpers when the chain returns an
// empty result for a query expected to find something.
var ErrNotFound = errors.New("chainclient: not found")

func mustParseABI(fragment string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(fragment))
	if err != nil {
		panic(fmt.Sprintf("chainclient: invalid abi fragment: %v", err))
	}
	return parsed
}
