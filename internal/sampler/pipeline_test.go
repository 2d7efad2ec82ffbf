package sampler

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/0glabs/0g-da-node/internal/slicewire"
	"github.com/0glabs/0g-da-node/internal/storage"
)

func newTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// maxTarget makes every candidate a hit so the pipeline test is deterministic
// without needing to brute-force a real quality vector.
func maxTarget() *big.Int {
	max := new(big.Int).Lsh(big.NewInt(1), 256)
	return max.Sub(max, big.NewInt(1))
}

func TestStage1ThenStage2ProducesResponse(t *testing.T) {
	store := newTestStorage(t)

	var root, outerRoot [32]byte
	root[0] = 0x55
	outerRoot[0] = 0x66
	line := make([]byte, LineBytes)
	for i := range line {
		line[i] = byte(i)
	}
	light, err := slicewire.EncodeLight(outerRoot, [][]byte{{0x01, 0x02}})
	require.NoError(t, err)
	require.NoError(t, store.PutSlices(3, 0, root, []storage.SliceRecord{
		{Index: 7, Light: light, Data: line},
	}))

	events := make(chan interface{}, 8)
	candidates := make(chan []LineCandidate, 8)
	responses := make(chan SampleResponse, 8)

	stage1 := NewStage1(store, events, candidates)
	stage2 := NewStage2(store, candidates, responses)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = stage1.Run(ctx) }()
	go func() { _ = stage2.Run(ctx) }()

	var seed [32]byte
	seed[0] = 0x77
	task := SampleTask{SampleSeed: seed, PodasTarget: maxTarget()}

	events <- UpdateSampleRange{StartEpoch: 0, EndEpoch: 10}
	events <- NewSampleTask{Task: task}

	select {
	case resp := <-responses:
		require.Equal(t, uint64(3), resp.Epoch)
		require.Equal(t, uint64(0), resp.QuorumID)
		require.Equal(t, root, resp.DataRoot)
		require.Equal(t, uint64(7), resp.LineIndex)
		require.Len(t, resp.Proof, MerkleDepth+1) // subline proof + outer light-slice proof
		require.LessOrEqual(t, u256(resp.Quality).Cmp(task.PodasTarget), 0)

		// Property: recomputing quality from the emitted fields reproduces it.
		lq := lineQuality(seed, resp.Epoch, resp.QuorumID, resp.DataRoot, uint16(resp.LineIndex))
		dq := dataQuality(lq, int(resp.SublineIndex), resp.Data)
		want, fits := checkedAdd256(u256(lq), u256(dq))
		require.True(t, fits)
		require.Equal(t, 0, want.Cmp(u256(resp.Quality)))
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for sample response")
	}
}
