package signerrpc

import (
	"github.com/0glabs/0g-da-node/internal/slicewire"
	"github.com/0glabs/0g-da-node/internal/storage"
)

// persistSlices writes every verified slice's light record (merkle root +
// proof) and raw row data for (epoch, quorumID, root) in one atomic batch.
func (s *Service) persistSlices(epoch, quorumID uint64, root [32]byte, slices []EncodedSlice) error {
	recs := make([]storage.SliceRecord, len(slices))
	for i, sl := range slices {
		light, err := slicewire.EncodeLight(sl.MerkleRoot(), sl.MerkleProof())
		if err != nil {
			return err
		}
		recs[i] = storage.SliceRecord{
			Index: uint64(sl.Index()),
			Light: light,
			Data:  slicewire.EncodeRowData(sl.RowData()),
		}
	}
	return s.storage.PutSlices(epoch, quorumID, root, recs)
}
