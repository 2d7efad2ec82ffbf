// Package signerrpc implements the Signer gRPC service: batch slice
// verification and BLS signing, retrieval of previously accepted slices, and
// a liveness probe. See proto/signer.proto for the wire contract.
package signerrpc

import (
	"context"
	"math/big"
	"time"

	"github.com/JekaMas/workerpool"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/0glabs/0g-da-node/internal/apperr"
	"github.com/0glabs/0g-da-node/internal/chainclient"
	"github.com/0glabs/0g-da-node/internal/metrics"
	"github.com/0glabs/0g-da-node/internal/signerpb"
	"github.com/0glabs/0g-da-node/internal/storage"
)

// DefaultMaxOngoingSignRequests is the admission-control ceiling applied
// when the operator does not override max_ongoing_sign_request.
const DefaultMaxOngoingSignRequests = 10

// Service implements signerpb.SignerServer.
type Service struct {
	storage   *storage.Storage
	daSigners *chainclient.DASigners
	verifier  Verifier
	pool      *workerpool.WorkerPool
	blsKey    *big.Int
	me        common.Address
	admission *admission
	log       log.Logger
}

// Config bundles Service's construction-time dependencies.
type Config struct {
	Storage              *storage.Storage
	DASigners            *chainclient.DASigners
	Verifier             Verifier
	BLSKey               *big.Int
	Me                   common.Address
	MaxOngoingSignReqs   int32
	VerifyWorkerPoolSize int
}

// New builds a Service. A MaxOngoingSignReqs of 0 falls back to
// DefaultMaxOngoingSignRequests.
func New(cfg Config) *Service {
	max := cfg.MaxOngoingSignReqs
	if max <= 0 {
		max = DefaultMaxOngoingSignRequests
	}
	poolSize := cfg.VerifyWorkerPoolSize
	if poolSize <= 0 {
		poolSize = 8
	}
	return &Service{
		storage:   cfg.Storage,
		daSigners: cfg.DASigners,
		verifier:  cfg.Verifier,
		pool:      workerpool.New(poolSize),
		blsKey:    cfg.BLSKey,
		me:        cfg.Me,
		admission: newAdmission(max),
		log:       log.New("module", "signerrpc"),
	}
}

// GetStatus is a bare liveness probe: reaching this handler at all means the
// gRPC server and its goroutine are up.
func (s *Service) GetStatus(ctx context.Context, _ *signerpb.Empty) (*signerpb.StatusReply, error) {
	return &signerpb.StatusReply{StatusCode: 200}, nil
}

// BatchSign verifies and signs every request in req.Requests, failing the
// whole call on the first request that does not verify. Admission control
// rejects the call outright, before any work begins, once
// max_ongoing_sign_request calls are already in flight.
func (s *Service) BatchSign(ctx context.Context, req *signerpb.BatchSignRequest) (*signerpb.BatchSignReply, error) {
	release, ok := s.admission.acquire()
	if !ok {
		return nil, toGRPCError(apperr.ResourceExhausted("BatchSign"))
	}
	defer release()

	start := time.Now()
	sigs := make([][]byte, 0, len(req.Requests))
	for _, r := range req.Requests {
		sig, err := s.processSignRequest(ctx, r)
		if err != nil {
			s.log.Debug("sign request rejected", "epoch", r.Epoch, "quorum", r.QuorumID, "err", err)
			return nil, toGRPCError(err)
		}
		sigs = append(sigs, sig)
		metrics.Registry.BlobsVerified.Inc()
	}
	metrics.Registry.SignRequestsTotal.Inc()
	metrics.Registry.VerifyLatency.Observe(time.Since(start))
	return &signerpb.BatchSignReply{Signatures: sigs}, nil
}
