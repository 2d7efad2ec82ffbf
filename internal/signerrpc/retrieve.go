package signerrpc

import (
	"context"
	"fmt"
	"sort"

	"github.com/0glabs/0g-da-node/internal/apperr"
	"github.com/0glabs/0g-da-node/internal/signerpb"
)

// BatchRetrieve returns the raw row data this node holds for the requested
// (epoch, quorumID, root, row indexes). Asking for a row this node was not
// assigned is a caller error (InvalidArgument); an assigned row with no
// stored data is reported as Internal.
func (s *Service) BatchRetrieve(ctx context.Context, req *signerpb.BatchRetrieveRequest) (*signerpb.BatchRetrieveReply, error) {
	out := make([]signerpb.Slices, len(req.Requests))
	for i, r := range req.Requests {
		rows, err := s.retrieveOne(r)
		if err != nil {
			return nil, toGRPCError(err)
		}
		out[i] = signerpb.Slices{EncodedSlice: rows}
	}
	return &signerpb.BatchRetrieveReply{EncodedSlice: out}, nil
}

func (s *Service) retrieveOne(r signerpb.RetrieveRequest) ([][]byte, error) {
	root, err := to32(r.StorageRoot)
	if err != nil {
		return nil, apperr.Validation("decode storage_root", err)
	}

	wanted := append([]uint32(nil), r.RowIndexes...)
	sort.Slice(wanted, func(i, j int) bool { return wanted[i] < wanted[j] })
	wanted = dedupSortedU32(wanted)

	assigned, ok, err := s.storage.GetAssignedSlices(r.Epoch, r.QuorumID)
	if err != nil {
		return nil, apperr.Internal("load assigned slices", err)
	}
	if !ok {
		return nil, apperr.Validation("load assigned slices", fmt.Errorf("no assignment for quorum %d at epoch %d", r.QuorumID, r.Epoch))
	}
	sorted := append([]uint64(nil), assigned...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	rows := make([][]byte, 0, len(wanted))
	ai := 0
	for _, w := range wanted {
		for ai < len(sorted) && sorted[ai] < uint64(w) {
			ai++
		}
		if ai >= len(sorted) || sorted[ai] != uint64(w) {
			return nil, apperr.Validation("retrieve slice", fmt.Errorf("row %d is not assigned to this node", w))
		}
		data, ok, err := s.storage.GetSliceData(r.Epoch, r.QuorumID, root, uint64(w))
		if err != nil {
			return nil, apperr.Internal("load slice data", err)
		}
		if !ok {
			return nil, apperr.Internal("load slice data", fmt.Errorf("assigned row %d not yet signed for this blob", w))
		}
		rows = append(rows, data)
	}
	return rows, nil
}

func dedupSortedU32(s []uint32) []uint32 {
	if len(s) == 0 {
		return s
	}
	out := s[:1]
	for _, v := range s[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
