package chainstate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/0glabs/0g-da-node/internal/chainclient"
	"github.com/0glabs/0g-da-node/internal/storage"
)

func newTestMonitor(t *testing.T) *Monitor {
	t.Helper()
	store, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return &Monitor{storage: store}
}

func TestHandleDataUploadIsIdempotent(t *testing.T) {
	m := newTestMonitor(t)
	root := [32]byte{0x01}
	ev := chainclient.DataUploadEvent{Epoch: 1, QuorumID: 2, DataRoot: root}

	require.NoError(t, m.handleDataUpload(ev))
	status, ok, err := m.storage.GetBlobStatus(1, 2, root)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, storage.StatusUploaded, status)

	// Replaying the same event must not regress a later verified status.
	require.NoError(t, m.storage.PutBlobStatus(1, 2, root, storage.StatusVerified))
	require.NoError(t, m.handleDataUpload(ev))
	status, ok, err = m.storage.GetBlobStatus(1, 2, root)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, storage.StatusVerified, status, "a replayed DataUpload must not downgrade an already-verified blob")
}

func TestHandleCommitRootVerifiedMarksVerified(t *testing.T) {
	m := newTestMonitor(t)
	root := [32]byte{0x02}
	require.NoError(t, m.storage.PutBlobStatus(3, 4, root, storage.StatusUploaded))

	ev := chainclient.CommitRootVerifiedEvent{Epoch: 3, QuorumID: 4, DataRoot: root}
	require.NoError(t, m.handleCommitRootVerified(ev))

	status, ok, err := m.storage.GetBlobStatus(3, 4, root)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, storage.StatusVerified, status)
}

func TestHandleCommitRootVerifiedWithoutPriorUpload(t *testing.T) {
	m := newTestMonitor(t)
	root := [32]byte{0x03}
	ev := chainclient.CommitRootVerifiedEvent{Epoch: 5, QuorumID: 6, DataRoot: root}
	require.NoError(t, m.handleCommitRootVerified(ev))

	status, ok, err := m.storage.GetBlobStatus(5, 6, root)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, storage.StatusVerified, status)
}
