// Package chainstate implements the two cooperative background loops that
// keep the node's view of the L1 chain current: the event-scan loop, which
// ingests DataUpload/CommitRootVerified logs into blob status, and the
// epoch loop, which materializes quorum assignments and drives this
// signer's on-chain BLS registration state machine.
package chainstate

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"

	"github.com/0glabs/0g-da-node/internal/bls254"
	"github.com/0glabs/0g-da-node/internal/chainclient"
	"github.com/0glabs/0g-da-node/internal/storage"
	"github.com/0glabs/0g-da-node/internal/transactor"
)

// MaxLogsPagination bounds how many blocks are scanned per filter query.
const MaxLogsPagination = 1000

// RetryBackoff is the sleep after any loop error before retrying, per §4.2.
const RetryBackoff = 5 * time.Second

// TickInterval is how often the epoch loop re-evaluates registration state.
const TickInterval = 5 * time.Second

// Monitor drives the event-scan and epoch loops.
type Monitor struct {
	storage    *storage.Storage
	client     *chainclient.Client
	daEntrance *chainclient.DAEntrance
	daSigners  *chainclient.DASigners
	sender     transactor.Sender

	me         common.Address
	blsKey     *big.Int
	socket     string
	startBlock uint64

	log log.Logger
}

// New constructs a chain-state monitor.
func New(
	store *storage.Storage,
	client *chainclient.Client,
	daEntrance *chainclient.DAEntrance,
	daSigners *chainclient.DASigners,
	sender transactor.Sender,
	me common.Address,
	blsKey *big.Int,
	socket string,
	startBlock uint64,
) *Monitor {
	return &Monitor{
		storage:    store,
		client:     client,
		daEntrance: daEntrance,
		daSigners:  daSigners,
		sender:     sender,
		me:         me,
		blsKey:     blsKey,
		socket:     socket,
		startBlock: startBlock,
		log:        log.New("module", "chainstate"),
	}
}

// Run drives both loops until ctx is canceled; each loop retries every
// error, so neither ends for any other reason.
func (m *Monitor) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.runForever(ctx, "event-scan", m.scanOnce) })
	g.Go(func() error { return m.runForever(ctx, "epoch", m.epochTickOnce) })
	return g.Wait()
}

// runForever retries tick on a RetryBackoff sleep after any error, forever,
// until ctx is canceled — every loop in this node treats chain/RPC and
// storage errors as transient (§7).
func (m *Monitor) runForever(ctx context.Context, name string, tick func(context.Context) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := tick(ctx); err != nil {
			m.log.Warn("loop iteration failed, retrying", "loop", name, "err", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(RetryBackoff):
			}
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(TickInterval):
		}
	}
}
