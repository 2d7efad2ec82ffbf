package signerrpc

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254"
)

// verifyAssignedSlices checks that every given slice's index matches this
// node's assignment at the same position, then verifies each slice against
// commitment and root in parallel, deferring the expensive pairing check to
// one batched equality test run once every slice has been queued.
func (s *Service) verifyAssignedSlices(assigned []uint64, slices []EncodedSlice, commitment bn254.G1Affine, root [32]byte) error {
	if len(assigned) != len(slices) {
		return toValidation("verify assigned slices", fmt.Errorf("assigned slice count %d does not match given slice count %d", len(assigned), len(slices)))
	}

	deferred := s.verifier.NewDeferredVerifier()
	err := parallelEach(s.pool, len(slices), func(i int) error {
		if assigned[i] != uint64(slices[i].Index()) {
			return fmt.Errorf("slice %d: assigned index %d does not match given index %d", i, assigned[i], slices[i].Index())
		}
		return s.verifier.Verify(slices[i], commitment, root, deferred)
	})
	if err != nil {
		return toValidation("verify assigned slices", err)
	}
	if !deferred.FastCheck() {
		return toValidation("verify assigned slices", fmt.Errorf("deferred pairing check failed"))
	}
	return nil
}
