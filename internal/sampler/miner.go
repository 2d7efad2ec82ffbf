package sampler

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/0glabs/0g-da-node/internal/chainclient"
	"github.com/0glabs/0g-da-node/internal/storage"
	"github.com/0glabs/0g-da-node/internal/transactor"
)

// Miner wires the watcher, stage-1, stage-2, and submitter together: the
// watcher's feed fans out to stage-1 and the submitter, stage-1 feeds
// stage-2 over a channel, and stage-2 feeds the submitter over another.
type Miner struct {
	watcher   *Watcher
	stage1    *Stage1
	stage2    *Stage2
	submitter *Submitter
}

// NewMiner constructs the full sampler pipeline against one signing node's
// storage and L1 bindings.
func NewMiner(store *storage.Storage, daSample *chainclient.DASample, sender transactor.Sender) *Miner {
	watcher := NewWatcher(daSample)

	stage1Events := watcher.Subscribe()
	submitterEvents := watcher.Subscribe()

	candidates := make(chan []LineCandidate, 64)
	responses := make(chan SampleResponse, 64)

	stage1 := NewStage1(store, stage1Events, candidates)
	stage2 := NewStage2(store, candidates, responses)
	submitter := NewSubmitter(daSample, submitterEvents, responses, sender)

	return &Miner{watcher: watcher, stage1: stage1, stage2: stage2, submitter: submitter}
}

// Run starts all four stages and returns when any one of them returns (on
// ctx cancellation or an unrecoverable error).
func (m *Miner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.watcher.Run(ctx) })
	g.Go(func() error { return m.stage1.Run(ctx) })
	g.Go(func() error { return m.stage2.Run(ctx) })
	g.Go(func() error { return m.submitter.Run(ctx) })
	return g.Wait()
}
