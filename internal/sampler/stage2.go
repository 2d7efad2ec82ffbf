package sampler

import (
	"container/heap"
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/log"

	"github.com/0glabs/0g-da-node/internal/slicewire"
	"github.com/0glabs/0g-da-node/internal/storage"
)

// SampleResponse is the winning submission stage-2 hands to the submitter.
type SampleResponse struct {
	Epoch        uint64
	QuorumID     uint64
	DataRoot     [32]byte
	Quality      [32]byte
	LineIndex    uint64
	SublineIndex uint64
	Data         []byte
	BlobRoots    [][32]byte
	Proof        [][32]byte
	SampleSeed   [32]byte
}

type lineHeap []LineCandidate

func (h lineHeap) Len() int { return len(h) }
func (h lineHeap) Less(i, j int) bool {
	return u256(h[i].LineQuality).Cmp(u256(h[j].LineQuality)) < 0
}
func (h lineHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *lineHeap) Push(x interface{}) { *h = append(*h, x.(LineCandidate)) }
func (h *lineHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

type lineKey struct {
	epoch    uint64
	quorumID uint64
	root     [32]byte
	index    uint16
}

// Stage2 holds a min-heap of candidates (lowest line_quality first) and, for
// each, searches its 32 sublines for a hit below the task's podas_target.
type Stage2 struct {
	storage *storage.Storage
	in      <-chan []LineCandidate
	out     chan<- SampleResponse
	log     log.Logger

	heap  lineHeap
	trees map[lineKey]*sublineTree
}

// NewStage2 builds a Stage2 miner reading candidate batches from in and
// writing winning responses to out.
func NewStage2(store *storage.Storage, in <-chan []LineCandidate, out chan<- SampleResponse) *Stage2 {
	return &Stage2{
		storage: store,
		in:      in,
		out:     out,
		log:     log.New("module", "sampler.stage2"),
		trees:   make(map[lineKey]*sublineTree),
	}
}

// Run drains candidate batches into the heap and searches one candidate per
// loop iteration, blocking on a fresh batch only when the heap runs dry.
func (s *Stage2) Run(ctx context.Context) error {
	for {
		if s.heap.Len() == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case batch, ok := <-s.in:
				if !ok {
					return nil
				}
				for _, c := range batch {
					heap.Push(&s.heap, c)
				}
			}
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case batch, ok := <-s.in:
			if !ok {
				return nil
			}
			for _, c := range batch {
				heap.Push(&s.heap, c)
			}
			continue
		default:
		}

		c := heap.Pop(&s.heap).(LineCandidate)
		s.search(c)
	}
}

func (s *Stage2) search(c LineCandidate) {
	line, ok, err := s.storage.GetSliceData(c.Epoch, c.QuorumID, c.Root, uint64(c.Index))
	if err != nil {
		s.log.Warn("load slice data failed", "epoch", c.Epoch, "quorum", c.QuorumID, "index", c.Index, "err", err)
		return
	}
	if !ok {
		s.log.Debug("slice data absent, skipping candidate", "epoch", c.Epoch, "quorum", c.QuorumID, "index", c.Index)
		return
	}
	if len(line) != LineBytes {
		s.log.Warn("unexpected line length", "epoch", c.Epoch, "quorum", c.QuorumID, "index", c.Index, "got", len(line), "want", LineBytes)
		return
	}

	key := lineKey{epoch: c.Epoch, quorumID: c.QuorumID, root: c.Root, index: c.Index}
	tree, ok := s.trees[key]
	if !ok {
		var err error
		tree, err = buildSublineTree(line)
		if err != nil {
			s.log.Warn("build subline tree failed", "err", err)
			return
		}
		s.trees[key] = tree
	}

	target := c.Task.PodasTarget
	for sub := 0; sub < NumSublines; sub++ {
		elements := line[sub*SublineBytes : (sub+1)*SublineBytes]
		dq := dataQuality(c.LineQuality, sub, elements)
		final, fits := checkedAdd256(u256(c.LineQuality), u256(dq))
		if !fits || final.Cmp(target) > 0 {
			continue
		}
		s.emit(c, key, sub, elements, tree, final)
	}
}

func (s *Stage2) emit(c LineCandidate, key lineKey, sub int, elements []byte, tree *sublineTree, quality *big.Int) {
	subProof := tree.proof(sub)

	lightBytes, ok, err := s.storage.GetSlice(c.Epoch, c.QuorumID, c.Root, uint64(c.Index))
	if err != nil || !ok {
		s.log.Warn("load light slice failed", "epoch", c.Epoch, "quorum", c.QuorumID, "index", c.Index, "err", err)
		return
	}
	merkleRoot, outerProof, err := slicewire.DecodeLight(lightBytes)
	if err != nil {
		s.log.Warn("decode light slice failed", "err", err)
		return
	}

	proof := make([][32]byte, 0, len(subProof)+len(outerProof))
	proof = append(proof, subProof...)
	for _, sib := range outerProof {
		var h [32]byte
		copy(h[:], sib)
		proof = append(proof, h)
	}

	var qualityArr [32]byte
	qb := quality.Bytes()
	copy(qualityArr[32-len(qb):], qb)

	sendOverflow(s.out, SampleResponse{
		Epoch:        c.Epoch,
		QuorumID:     c.QuorumID,
		DataRoot:     c.Root,
		Quality:      qualityArr,
		LineIndex:    uint64(c.Index),
		SublineIndex: uint64(sub),
		Data:         append([]byte(nil), elements...),
		BlobRoots:    [][32]byte{merkleRoot},
		Proof:        proof,
		SampleSeed:   c.Task.SampleSeed,
	})
}
