package sampler

import (
	"context"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/0glabs/0g-da-node/internal/storage"
)

// fetchPendingWindow bounds how long one fetchPending call may drain the
// pending set before ceding back to scanBatch/emit, per the cooperative
// loop's fairness requirement.
const fetchPendingWindow = 100 * time.Millisecond

// Stage1 maintains a cache of each in-range epoch's blob index (LineMetadata)
// and walks it in EpochBatchSize-sized slices, emitting LineCandidate
// batches for every (blob, index) whose line_quality is below the current
// target.
type Stage1 struct {
	storage *storage.Storage
	events  <-chan interface{}
	out     chan<- []LineCandidate
	log     log.Logger

	data    map[uint64][]storage.BlobInfo
	pending map[uint64]bool
	current *cursor
}

type cursor struct {
	task SampleTask
	s    uint64
}

// NewStage1 builds a Stage1 miner. events is the watcher's feed subscriber
// channel; out is the unbounded (buffered + overflow) channel stage-2 reads
// from — see sendOverflow in pipe.go.
func NewStage1(store *storage.Storage, events <-chan interface{}, out chan<- []LineCandidate) *Stage1 {
	return &Stage1{
		storage: store,
		events:  events,
		out:     out,
		log:     log.New("module", "sampler.stage1"),
		data:    make(map[uint64][]storage.BlobInfo),
		pending: make(map[uint64]bool),
	}
}

// Run is the single cooperative loop described in §4.4: a biased select
// that drains pending watcher events before doing one unit of scan work.
func (s *Stage1) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-s.events:
			if !ok {
				return nil
			}
			s.handleEvent(ev)
			continue
		default:
		}

		if s.current == nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ev, ok := <-s.events:
				if !ok {
					return nil
				}
				s.handleEvent(ev)
			}
			continue
		}

		s.scanBatch()
	}
}

func (s *Stage1) handleEvent(ev interface{}) {
	switch e := ev.(type) {
	case UpdateSampleRange:
		s.applyRange(e)
	case NewSampleTask:
		s.current = &cursor{task: e.Task, s: 0}
	case ClosedSampleTask:
		if s.current != nil && s.current.task.SampleSeed == e.SampleSeed {
			s.current = nil
		}
	}
}

// applyRange retains only in-range cached epochs and marks the rest of the
// range as pending fetch.
func (s *Stage1) applyRange(r UpdateSampleRange) {
	for epoch := range s.data {
		if epoch < r.StartEpoch || epoch > r.EndEpoch {
			delete(s.data, epoch)
		}
	}
	pending := make(map[uint64]bool)
	for epoch := r.StartEpoch; epoch <= r.EndEpoch; epoch++ {
		if _, ok := s.data[epoch]; !ok {
			pending[epoch] = true
		}
	}
	s.pending = pending
}

// fetchPending loads pending epochs from storage into the cache, up to
// fetchPendingWindow. Called as part of each scan unit so newly in-range
// epochs become visible without a dedicated goroutine; any epochs left
// over when the deadline passes stay in s.pending for the next call.
func (s *Stage1) fetchPending() {
	if len(s.pending) == 0 {
		return
	}
	s.storage.RLock()
	defer s.storage.RUnlock()

	deadline := time.Now().Add(fetchPendingWindow)
	for epoch := range s.pending {
		if time.Now().After(deadline) {
			return
		}
		infos, err := s.storage.GetEpochInfo(epoch)
		if err != nil {
			s.log.Warn("fetch epoch info failed", "epoch", epoch, "err", err)
			continue
		}
		s.data[epoch] = infos
		delete(s.pending, epoch)
	}
}

func (s *Stage1) scanBatch() {
	s.fetchPending()
	if s.current == nil {
		return
	}

	epochs := make([]uint64, 0, len(s.data))
	for epoch := range s.data {
		if epoch >= s.current.s {
			epochs = append(epochs, epoch)
		}
	}
	sort.Slice(epochs, func(i, j int) bool { return epochs[i] < epochs[j] })
	if len(epochs) > EpochBatchSize {
		epochs = epochs[:EpochBatchSize]
	}

	var batch []LineCandidate
	target := s.current.task.PodasTarget
	for _, epoch := range epochs {
		for _, blob := range s.data[epoch] {
			for _, idx := range blob.Indices {
				q := lineQuality(s.current.task.SampleSeed, epoch, blob.QuorumID, blob.Root, idx)
				if u256(q).Cmp(target) <= 0 {
					batch = append(batch, LineCandidate{
						Epoch:       epoch,
						QuorumID:    blob.QuorumID,
						Root:        blob.Root,
						Index:       idx,
						LineQuality: q,
						Task:        s.current.task,
					})
				}
			}
		}
	}

	if len(epochs) == 0 {
		s.current = nil
	} else {
		s.current.s = epochs[len(epochs)-1] + 1
	}

	if len(batch) > 0 {
		sendOverflow(s.out, batch)
	}
}
