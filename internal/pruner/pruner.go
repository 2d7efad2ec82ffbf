// Package pruner deletes slice and blob rows that have aged out of the
// configured epoch retention window.
package pruner

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/0glabs/0g-da-node/internal/chainclient"
	"github.com/0glabs/0g-da-node/internal/metrics"
	"github.com/0glabs/0g-da-node/internal/storage"
)

// TickInterval is how often the pruner checks for newly prunable epochs.
const TickInterval = 10 * time.Minute

// Pruner advances PruneProgress, deleting everything below the retention
// window as it goes.
type Pruner struct {
	storage    *storage.Storage
	daSigners  *chainclient.DASigners
	daEntrance *chainclient.DAEntrance
	log        log.Logger
}

// New constructs a Pruner. EpochWindowSize is read from the DAEntrance
// contract on every tick, so a governance change takes effect immediately.
func New(store *storage.Storage, daSigners *chainclient.DASigners, daEntrance *chainclient.DAEntrance) *Pruner {
	return &Pruner{storage: store, daSigners: daSigners, daEntrance: daEntrance, log: log.New("module", "pruner")}
}

// Run initializes PruneProgress if absent, then loops forever, pruning
// every TickInterval until ctx is canceled.
func (p *Pruner) Run(ctx context.Context) error {
	if _, ok, err := p.storage.GetPruneProgress(); err != nil {
		return err
	} else if !ok {
		if err := p.storage.PutPruneProgress(0); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()
	for {
		if err := p.tick(ctx); err != nil {
			p.log.Warn("prune tick failed", "err", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Pruner) tick(ctx context.Context) error {
	epoch, err := p.daSigners.EpochNumber(ctx)
	if err != nil {
		return err
	}
	window, err := p.daEntrance.EpochWindowSize(ctx)
	if err != nil {
		return err
	}

	for {
		progress, ok, err := p.storage.GetPruneProgress()
		if err != nil {
			return err
		}
		if !ok {
			progress = 0
		}
		if progress+1+window >= epoch {
			return nil
		}
		target := progress + 1
		if err := p.storage.Prune(target); err != nil {
			return err
		}
		if err := p.storage.PutPruneProgress(target); err != nil {
			return err
		}
		metrics.Registry.EpochsPruned.Inc()
		p.log.Debug("advanced prune progress", "epoch", target)
	}
}
