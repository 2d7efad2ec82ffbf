package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBlobStatusMonotone(t *testing.T) {
	s := newTestStorage(t)
	var root [32]byte
	root[0] = 0xAB

	_, ok, err := s.GetBlobStatus(7, 0, root)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.PutBlobStatus(7, 0, root, StatusUploaded))
	st, ok, err := s.GetBlobStatus(7, 0, root)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, StatusUploaded, st)

	require.NoError(t, s.PutBlobStatus(7, 0, root, StatusVerified))
	st, _, err = s.GetBlobStatus(7, 0, root)
	require.NoError(t, err)
	require.Equal(t, StatusVerified, st)

	// A late UPLOADED must not downgrade an already-VERIFIED blob.
	require.NoError(t, s.PutBlobStatus(7, 0, root, StatusUploaded))
	st, _, err = s.GetBlobStatus(7, 0, root)
	require.NoError(t, err)
	require.Equal(t, StatusVerified, st)
}

func TestSyncAndPruneProgress(t *testing.T) {
	s := newTestStorage(t)

	_, ok, err := s.GetSyncProgress()
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.PutSyncProgress(100))
	v, ok, err := s.GetSyncProgress()
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 100, v)

	require.NoError(t, s.PutPruneProgress(5))
	v, ok, err = s.GetPruneProgress()
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 5, v)
}

func TestAssignedSlicesRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.PutQuorumNum(7, 3))
	n, ok, err := s.GetQuorumNum(7)
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 3, n)

	require.NoError(t, s.PutAssignedSlices(7, 0, []uint64{3}))
	indices, ok, err := s.GetAssignedSlices(7, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []uint64{3}, indices)
}

func TestPutSlicesAndGetEpochInfo(t *testing.T) {
	s := newTestStorage(t)
	var rootA, rootB [32]byte
	rootA[0] = 0xAA
	rootB[0] = 0xBB

	require.NoError(t, s.PutSlices(10, 0, rootA, []SliceRecord{
		{Index: 2, Light: []byte("lightA2"), Data: []byte("dataA2")},
		{Index: 5, Light: []byte("lightA5"), Data: []byte("dataA5")},
	}))
	require.NoError(t, s.PutSlices(10, 1, rootB, []SliceRecord{
		{Index: 9, Light: []byte("lightB9"), Data: []byte("dataB9")},
	}))

	light, ok, err := s.GetSlice(10, 0, rootA, 2)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("lightA2"), light)

	data, ok, err := s.GetSliceData(10, 1, rootB, 9)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("dataB9"), data)

	infos, err := s.GetEpochInfo(10)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	byQuorum := map[uint64]BlobInfo{}
	for _, info := range infos {
		byQuorum[info.QuorumID] = info
	}
	require.ElementsMatch(t, []uint16{2, 5}, byQuorum[0].Indices)
	require.ElementsMatch(t, []uint16{9}, byQuorum[1].Indices)
}

func TestPruneRemovesAllSliceKeysForEpoch(t *testing.T) {
	s := newTestStorage(t)
	var root [32]byte
	root[0] = 0xCC

	require.NoError(t, s.PutSlices(20, 0, root, []SliceRecord{
		{Index: 1, Light: []byte("l"), Data: []byte("d")},
	}))
	require.NoError(t, s.PutSlices(21, 0, root, []SliceRecord{
		{Index: 1, Light: []byte("l"), Data: []byte("d")},
	}))

	require.NoError(t, s.Prune(20))

	infos, err := s.GetEpochInfo(20)
	require.NoError(t, err)
	require.Empty(t, infos)
	_, ok, err := s.GetSlice(20, 0, root, 1)
	require.NoError(t, err)
	require.False(t, ok)

	// Epoch 21 must be untouched.
	infos, err = s.GetEpochInfo(21)
	require.NoError(t, err)
	require.Len(t, infos, 1)
}
