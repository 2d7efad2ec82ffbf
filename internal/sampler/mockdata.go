package sampler

import (
	"crypto/rand"

	"github.com/0glabs/0g-da-node/internal/slicewire"
	"github.com/0glabs/0g-da-node/internal/storage"
)

// Mock data parameters mirror the original das_test seeding routine: five
// fabricated blobs at a fixed epoch/quorum, each covering row indices
// [mockRowStart, mockRowEnd), so the sampler has something to scan against
// without a live chain or signing traffic.
const (
	mockEpoch     = 6
	mockQuorumID  = 0
	mockBlobCount = 5
	mockRowStart  = 1500
	mockRowEnd    = 2500
)

// SeedMockData is the das_test config toggle's only effect: it populates
// storage with fabricated blobs so stage-1/stage-2 have line metadata and
// slice data to scan. Root and row bytes are random and carry no real
// erasure-coding or commitment relationship — this is local/dev scanning
// fixture data, never submitted anywhere a real commitment is checked.
func SeedMockData(store *storage.Storage) error {
	for i := 0; i < mockBlobCount; i++ {
		root, recs, err := mockBlob()
		if err != nil {
			return err
		}
		if err := store.PutSlices(mockEpoch, mockQuorumID, root, recs); err != nil {
			return err
		}
	}
	return nil
}

func mockBlob() ([32]byte, []storage.SliceRecord, error) {
	var root [32]byte
	if _, err := rand.Read(root[:]); err != nil {
		return root, nil, err
	}

	recs := make([]storage.SliceRecord, 0, mockRowEnd-mockRowStart)
	for row := mockRowStart; row < mockRowEnd; row++ {
		data := make([]byte, LineBytes)
		if _, err := rand.Read(data); err != nil {
			return root, nil, err
		}
		light, err := slicewire.EncodeLight(root, nil)
		if err != nil {
			return root, nil, err
		}
		recs = append(recs, storage.SliceRecord{
			Index: uint64(row),
			Light: light,
			Data:  data,
		})
	}
	return root, recs, nil
}
