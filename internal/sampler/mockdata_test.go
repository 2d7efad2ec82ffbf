package sampler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/0glabs/0g-da-node/internal/storage"
)

func TestSeedMockDataPopulatesEpochInfo(t *testing.T) {
	store, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, SeedMockData(store))

	infos, err := store.GetEpochInfo(mockEpoch)
	require.NoError(t, err)
	require.Len(t, infos, mockBlobCount)

	for _, info := range infos {
		require.Equal(t, uint64(mockQuorumID), info.QuorumID)
		require.Len(t, info.Indices, mockRowEnd-mockRowStart)

		data, ok, err := store.GetSliceData(mockEpoch, mockQuorumID, info.Root, uint64(mockRowStart))
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, data, LineBytes)
	}
}
