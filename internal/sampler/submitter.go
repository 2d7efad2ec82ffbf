package sampler

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/log"

	"github.com/0glabs/0g-da-node/internal/chainclient"
	"github.com/0glabs/0g-da-node/internal/transactor"
)

// Submitter tracks the currently open sampling task and turns matching
// stage-2 responses into on-chain submissions. Every failure past
// commitment-existence is logged and swallowed: the on-chain game simply
// reissues the challenge if nobody answers it in time.
type Submitter struct {
	daSample *chainclient.DASample
	events   <-chan interface{}
	in       <-chan SampleResponse
	sender   transactor.Sender
	log      log.Logger

	current *SampleTask
}

// NewSubmitter builds a Submitter. events is the watcher's feed subscriber
// channel (shared with Stage1); in is stage-2's response channel.
func NewSubmitter(daSample *chainclient.DASample, events <-chan interface{}, in <-chan SampleResponse, sender transactor.Sender) *Submitter {
	return &Submitter{
		daSample: daSample,
		events:   events,
		in:       in,
		sender:   sender,
		log:      log.New("module", "sampler.submitter"),
	}
}

// Run processes watcher events and stage-2 responses until ctx is
// cancelled.
func (s *Submitter) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-s.events:
			if !ok {
				return nil
			}
			s.handleEvent(ev)
		case resp, ok := <-s.in:
			if !ok {
				return nil
			}
			s.handleResponse(ctx, resp)
		}
	}
}

func (s *Submitter) handleEvent(ev interface{}) {
	switch e := ev.(type) {
	case NewSampleTask:
		t := e.Task
		s.current = &t
	case ClosedSampleTask:
		if s.current != nil && s.current.SampleSeed == e.SampleSeed {
			s.current = nil
		}
	case UpdateSampleRange:
		// ignored: only task identity gates submission
	}
}

func (s *Submitter) handleResponse(ctx context.Context, resp SampleResponse) {
	if s.current == nil || resp.SampleSeed != s.current.SampleSeed {
		return
	}

	exists, err := s.daSample.CommitmentExists(ctx, resp.DataRoot, resp.Epoch, resp.QuorumID)
	if err != nil {
		s.log.Warn("commitmentExists check failed, dropping submission", "err", err)
		return
	}
	if !exists {
		return
	}

	data, err := s.daSample.PackSubmitSamplingResponse(toChainResponse(resp))
	if err != nil {
		s.log.Warn("pack submission failed, dropping", "err", err)
		return
	}
	if _, err := s.sender.Send(ctx, s.daSample.Address(), data); err != nil {
		s.log.Warn("submit sampling response failed, dropping", "epoch", resp.Epoch, "quorum", resp.QuorumID, "err", err)
	}
}

func toChainResponse(r SampleResponse) chainclient.SampleResponse {
	return chainclient.SampleResponse{
		Epoch:        r.Epoch,
		QuorumID:     r.QuorumID,
		DataRoot:     r.DataRoot,
		Quality:      new(big.Int).SetBytes(r.Quality[:]),
		LineIndex:    r.LineIndex,
		SublineIndex: r.SublineIndex,
		Data:         r.Data,
		BlobRoots:    r.BlobRoots,
		Proof:        r.Proof,
		SampleSeed:   r.SampleSeed,
	}
}
