package signerrpc

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/0glabs/0g-da-node/internal/bls254"
	"github.com/0glabs/0g-da-node/internal/signerpb"
	"github.com/0glabs/0g-da-node/internal/storage"
)

func newTestService(t *testing.T, verifier Verifier) (*Service, *storage.Storage) {
	t.Helper()
	st, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	svc := New(Config{
		Storage:  st,
		Verifier: verifier,
		BLSKey:   big.NewInt(7),
		Me:       common.HexToAddress("0x0000000000000000000000000000000000000001"),
	})
	return svc, st
}

func testCommitment() []byte {
	return bls254.SerializeUncompressed(bls254.PublicKeyG1(big.NewInt(1)))
}

func TestBatchSignHappyPath(t *testing.T) {
	svc, st := newTestService(t, &fakeVerifier{})

	var root [32]byte
	root[0] = 0x42
	require.NoError(t, st.PutBlobStatus(5, 0, root, storage.StatusUploaded))
	require.NoError(t, st.PutAssignedSlices(5, 0, []uint64{0, 1}))

	slice0 := encodeFakeSlice(fakeSlice{Idx: 0, Root: root, Rows: [][]byte{[]byte("row0")}})
	slice1 := encodeFakeSlice(fakeSlice{Idx: 1, Root: root, Rows: [][]byte{[]byte("row1")}})

	reply, err := svc.BatchSign(context.Background(), &signerpb.BatchSignRequest{
		Requests: []signerpb.SignRequest{{
			Epoch:             5,
			QuorumID:          0,
			ErasureCommitment: testCommitment(),
			StorageRoot:       root[:],
			EncodedSlice:      [][]byte{slice0, slice1},
		}},
	})
	require.NoError(t, err)
	require.Len(t, reply.Signatures, 1)
	require.Len(t, reply.Signatures[0], 64)

	data, ok, err := st.GetSliceData(5, 0, root, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("row0"), data)
}

func TestBatchSignRejectsUnobservedBlob(t *testing.T) {
	svc, _ := newTestService(t, &fakeVerifier{})

	var root [32]byte
	root[0] = 0x43
	// Blob never observed: GetBlobStatus returns ok=false.

	_, err := svc.BatchSign(context.Background(), &signerpb.BatchSignRequest{
		Requests: []signerpb.SignRequest{{
			Epoch:             5,
			QuorumID:          0,
			ErasureCommitment: testCommitment(),
			StorageRoot:       root[:],
			EncodedSlice:      nil,
		}},
	})
	require.Error(t, err)
}

func TestBatchSignRejectsBadCommitment(t *testing.T) {
	svc, st := newTestService(t, &fakeVerifier{})

	var root [32]byte
	root[0] = 0x44
	require.NoError(t, st.PutBlobStatus(5, 0, root, storage.StatusUploaded))

	_, err := svc.BatchSign(context.Background(), &signerpb.BatchSignRequest{
		Requests: []signerpb.SignRequest{{
			Epoch:             5,
			QuorumID:          0,
			ErasureCommitment: []byte("too short"),
			StorageRoot:       root[:],
		}},
	})
	require.Error(t, err)
}

func TestBatchSignRejectsSliceIndexMismatch(t *testing.T) {
	svc, st := newTestService(t, &fakeVerifier{})

	var root [32]byte
	root[0] = 0x45
	require.NoError(t, st.PutBlobStatus(5, 0, root, storage.StatusUploaded))
	require.NoError(t, st.PutAssignedSlices(5, 0, []uint64{0}))

	wrongIndex := encodeFakeSlice(fakeSlice{Idx: 9, Root: root, Rows: [][]byte{[]byte("row0")}})

	_, err := svc.BatchSign(context.Background(), &signerpb.BatchSignRequest{
		Requests: []signerpb.SignRequest{{
			Epoch:             5,
			QuorumID:          0,
			ErasureCommitment: testCommitment(),
			StorageRoot:       root[:],
			EncodedSlice:      [][]byte{wrongIndex},
		}},
	})
	require.Error(t, err)
}

func TestBatchSignAdmissionControl(t *testing.T) {
	svc, _ := newTestService(t, &fakeVerifier{})
	svc.admission = newAdmission(0)

	_, err := svc.BatchSign(context.Background(), &signerpb.BatchSignRequest{})
	require.Error(t, err)
}

func TestGetStatus(t *testing.T) {
	svc, _ := newTestService(t, &fakeVerifier{})
	reply, err := svc.GetStatus(context.Background(), &signerpb.Empty{})
	require.NoError(t, err)
	require.EqualValues(t, 200, reply.StatusCode)
}

func TestBatchRetrieveRoundTrip(t *testing.T) {
	svc, st := newTestService(t, &fakeVerifier{})

	var root [32]byte
	root[0] = 0x46
	require.NoError(t, st.PutAssignedSlices(5, 0, []uint64{0, 1, 2}))
	require.NoError(t, st.PutSlices(5, 0, root, []storage.SliceRecord{
		{Index: 0, Light: []byte("l0"), Data: []byte("d0")},
		{Index: 2, Light: []byte("l2"), Data: []byte("d2")},
	}))

	reply, err := svc.BatchRetrieve(context.Background(), &signerpb.BatchRetrieveRequest{
		Requests: []signerpb.RetrieveRequest{{
			Epoch:       5,
			QuorumID:    0,
			StorageRoot: root[:],
			RowIndexes:  []uint32{2, 0, 0},
		}},
	})
	require.NoError(t, err)
	require.Len(t, reply.EncodedSlice, 1)
	require.Equal(t, [][]byte{[]byte("d0"), []byte("d2")}, reply.EncodedSlice[0].EncodedSlice)
}

func TestBatchRetrieveRejectsUnassignedRow(t *testing.T) {
	svc, st := newTestService(t, &fakeVerifier{})

	var root [32]byte
	root[0] = 0x47
	require.NoError(t, st.PutAssignedSlices(5, 0, []uint64{0}))

	_, err := svc.BatchRetrieve(context.Background(), &signerpb.BatchRetrieveRequest{
		Requests: []signerpb.RetrieveRequest{{
			Epoch:       5,
			QuorumID:    0,
			StorageRoot: root[:],
			RowIndexes:  []uint32{9},
		}},
	})
	require.Error(t, err)
}
