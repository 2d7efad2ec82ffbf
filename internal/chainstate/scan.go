package chainstate

import (
	"context"

	"github.com/0glabs/0g-da-node/internal/chainclient"
	"github.com/0glabs/0g-da-node/internal/storage"
)

// scanOnce performs one event-scan loop body: determine [from, to] and, if
// non-empty, page through it in MaxLogsPagination-sized windows, applying
// the monotone blob-status transitions for each decoded log, then persist
// SyncProgress after every page. Replaying an already-processed page is a
// no-op because every handler check-then-writes.
func (m *Monitor) scanOnce(ctx context.Context) error {
	from, ok, err := m.storage.GetSyncProgress()
	if err != nil {
		return err
	}
	if !ok {
		from = m.startBlock
	}

	to, err := m.client.FinalizedBlock(ctx)
	if err != nil {
		return err
	}
	if to <= from {
		return nil
	}

	for pageStart := from; pageStart <= to; pageStart += MaxLogsPagination {
		pageEnd := pageStart + MaxLogsPagination - 1
		if pageEnd > to {
			pageEnd = to
		}
		if err := m.scanPage(ctx, pageStart, pageEnd); err != nil {
			return err
		}
		if err := m.storage.PutSyncProgress(pageEnd); err != nil {
			return err
		}
	}
	return nil
}

func (m *Monitor) scanPage(ctx context.Context, from, to uint64) error {
	if err := m.daEntrance.ScanDataUpload(ctx, from, to, MaxLogsPagination, m.handleDataUpload); err != nil {
		return err
	}
	return m.daEntrance.ScanCommitRootVerified(ctx, from, to, MaxLogsPagination, m.handleCommitRootVerified)
}

func (m *Monitor) handleDataUpload(ev chainclient.DataUploadEvent) error {
	_, exists, err := m.storage.GetBlobStatus(ev.Epoch, ev.QuorumID, ev.DataRoot)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return m.storage.PutBlobStatus(ev.Epoch, ev.QuorumID, ev.DataRoot, storage.StatusUploaded)
}

func (m *Monitor) handleCommitRootVerified(ev chainclient.CommitRootVerifiedEvent) error {
	status, exists, err := m.storage.GetBlobStatus(ev.Epoch, ev.QuorumID, ev.DataRoot)
	if err != nil {
		return err
	}
	if exists && status == storage.StatusVerified {
		return nil
	}
	return m.storage.PutBlobStatus(ev.Epoch, ev.QuorumID, ev.DataRoot, storage.StatusVerified)
}
