package sampler

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"

	"github.com/0glabs/0g-da-node/internal/chainclient"
)

// UpdateSampleRange is broadcast when the active epoch window changes.
type UpdateSampleRange struct {
	StartEpoch uint64
	EndEpoch   uint64
}

// NewSampleTask is broadcast when a new, nonzero sample_hash appears.
type NewSampleTask struct {
	Task SampleTask
}

// ClosedSampleTask is broadcast when the current task's rest_submissions
// reaches zero.
type ClosedSampleTask struct {
	SampleSeed [32]byte
}

// Watcher polls the sampling contract every WatcherPollInterval seconds and
// broadcasts state transitions to its subscribers. Broadcasts are a lossy
// ring, not a reliable feed: a send to a full subscriber channel drops the
// oldest buffered value rather than blocking, so one slow subscriber never
// stalls the poll loop or another subscriber. Every tick re-reads ground
// truth from the contract, so a dropped broadcast is never load-bearing —
// a lagged subscriber simply re-syncs on the next tick.
type Watcher struct {
	daSample *chainclient.DASample
	log      log.Logger

	mu          sync.Mutex
	subscribers []chan interface{}

	lastRange UpdateSampleRange
	haveRange bool
	lastTask  SampleTask
	haveTask  bool
}

// NewWatcher constructs a Watcher polling daSample.
func NewWatcher(daSample *chainclient.DASample) *Watcher {
	return &Watcher{daSample: daSample, log: log.New("module", "sampler.watcher")}
}

// Subscribe returns a new lossy ring channel of capacity FeedBufferSize that
// receives every subsequent broadcast. Callers must keep reading it; a full
// channel has its oldest entry dropped to make room for the newest.
func (w *Watcher) Subscribe() <-chan interface{} {
	ch := make(chan interface{}, FeedBufferSize)
	w.mu.Lock()
	w.subscribers = append(w.subscribers, ch)
	w.mu.Unlock()
	return ch
}

// broadcast delivers v to every subscriber without blocking: a full channel
// has its oldest value evicted to make room, so broadcast never waits on a
// slow or stalled reader.
func (w *Watcher) broadcast(v interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ch := range w.subscribers {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}

// Run polls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(WatcherPollInterval * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.tick(ctx); err != nil {
				w.log.Warn("sampler watcher tick failed", "err", err)
			}
		}
	}
}

func (w *Watcher) tick(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	var task chainclient.SampleTaskOnChain
	var rng chainclient.SampleRangeOnChain

	g.Go(func() error {
		var err error
		task, err = w.daSample.SampleTask(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		rng, err = w.daSample.SampleRange(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	newRange := UpdateSampleRange{StartEpoch: rng.StartEpoch, EndEpoch: rng.EndEpoch}
	if !w.haveRange || newRange != w.lastRange {
		w.lastRange = newRange
		w.haveRange = true
		w.broadcast(newRange)
	}

	var zero [32]byte
	if task.SampleSeed != zero {
		newTask := SampleTask{SampleSeed: task.SampleSeed, PodasTarget: task.PodasTarget, RestSubmissions: task.RestSubmissions}
		if !w.haveTask || newTask.SampleSeed != w.lastTask.SampleSeed || newTask.PodasTarget.Cmp(taskTarget(w.lastTask)) != 0 {
			w.lastTask = newTask
			w.haveTask = true
			w.broadcast(NewSampleTask{Task: newTask})
		}
		if task.RestSubmissions == 0 {
			w.broadcast(ClosedSampleTask{SampleSeed: task.SampleSeed})
		}
	}
	return nil
}

func taskTarget(t SampleTask) *big.Int {
	if t.PodasTarget == nil {
		return big.NewInt(0)
	}
	return t.PodasTarget
}
