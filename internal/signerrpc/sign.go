package signerrpc

import (
	"context"
	"fmt"

	"github.com/0glabs/0g-da-node/internal/apperr"
	"github.com/0glabs/0g-da-node/internal/bls254"
	"github.com/0glabs/0g-da-node/internal/chainstate"
	"github.com/0glabs/0g-da-node/internal/signerpb"
	"github.com/0glabs/0g-da-node/internal/storage"
)

// processSignRequest runs the full per-request pipeline: decode and admit
// the commitment, require the blob be UPLOADED, deserialize and verify every
// given slice against the assignment this node holds for (epoch, quorumID),
// sign the verified blob, and persist the accepted slices. It returns the
// uncompressed BLS signature bytes on success.
func (s *Service) processSignRequest(ctx context.Context, r signerpb.SignRequest) ([]byte, error) {
	root, err := to32(r.StorageRoot)
	if err != nil {
		return nil, apperr.Validation("decode storage_root", err)
	}

	commitment, err := decodeG1(r.ErasureCommitment)
	if err != nil {
		return nil, apperr.Validation("decode erasure_commitment", err)
	}

	status, ok, err := s.storage.GetBlobStatus(r.Epoch, r.QuorumID, root)
	if err != nil {
		return nil, apperr.Internal("load blob status", err)
	}
	if !ok {
		return nil, apperr.Internal("load blob status", fmt.Errorf("blob %x not observed", root))
	}
	if status == storage.StatusVerified {
		return nil, apperr.Internal("load blob status", fmt.Errorf("blob %x already verified", root))
	}
	if status != storage.StatusUploaded {
		return nil, apperr.Internal("load blob status", fmt.Errorf("blob %x in unexpected status %s", root, status))
	}

	slices := make([]EncodedSlice, len(r.EncodedSlice))
	if err := parallelEach(s.pool, len(r.EncodedSlice), func(i int) error {
		slice, err := s.verifier.Deserialize(r.EncodedSlice[i])
		if err != nil {
			return err
		}
		slices[i] = slice
		return nil
	}); err != nil {
		return nil, apperr.Validation("deserialize encoded_slice", err)
	}

	assigned, ok, err := s.storage.GetAssignedSlices(r.Epoch, r.QuorumID)
	if err != nil {
		return nil, apperr.Internal("load assigned slices", err)
	}
	if !ok {
		if err := chainstate.FetchQuorumIfMissing(ctx, s.storage, s.daSigners, s.me, r.Epoch); err != nil {
			return nil, apperr.Internal("materialize quorum", err)
		}
		assigned, ok, err = s.storage.GetAssignedSlices(r.Epoch, r.QuorumID)
		if err != nil {
			return nil, apperr.Internal("load assigned slices", err)
		}
		if !ok {
			return nil, apperr.Internal("load assigned slices", fmt.Errorf("quorum %d has no assignment for this node", r.QuorumID))
		}
	}

	if err := s.verifyAssignedSlices(assigned, slices, commitment, root); err != nil {
		return nil, err
	}

	gx, gy := bls254.AffineXY(commitment)
	digest := bls254.BlobVerifiedDigest(root, r.Epoch, r.QuorumID, gx, gy)
	h := bls254.MapToG1(digest[:])
	sig := bls254.ScalarMulG1(h, s.blsKey)

	if err := s.persistSlices(r.Epoch, r.QuorumID, root, slices); err != nil {
		return nil, apperr.Internal("persist slices", err)
	}

	return bls254.SerializeUncompressed(sig), nil
}

