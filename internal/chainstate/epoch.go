package chainstate

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0glabs/0g-da-node/internal/bls254"
	"github.com/0glabs/0g-da-node/internal/chainclient"
	"github.com/0glabs/0g-da-node/internal/storage"
)

// registrationSettleDelay is how long the epoch loop waits after submitting
// a first-time registration before checking socket/next-epoch state, to let
// the chain catch up.
const registrationSettleDelay = 10 * time.Second

// epochTickOnce performs one epoch loop body: (a) ensure this signer is
// registered and its published socket is current, (b) materialize the
// current epoch's quorum assignments if missing, (c) ensure registration
// for the following epoch.
func (m *Monitor) epochTickOnce(ctx context.Context) error {
	if err := m.ensureRegistered(ctx); err != nil {
		return err
	}

	epoch, err := m.daSigners.EpochNumber(ctx)
	if err != nil {
		return err
	}
	if err := m.fetchQuorumIfMissing(ctx, epoch); err != nil {
		return err
	}
	return m.ensureNextEpochRegistered(ctx, epoch)
}

func (m *Monitor) ensureRegistered(ctx context.Context) error {
	var addr [20]byte
	copy(addr[:], m.me.Bytes())

	isSigner, err := m.daSigners.IsSigner(ctx, m.me)
	if err != nil {
		return err
	}
	if !isSigner {
		digest := bls254.RegistrationDigest(addr, m.client.ChainID)
		h1 := bls254.MapToG1(digest[:])
		sig := bls254.ScalarMulG1(h1, m.blsKey)
		sigX, sigY := bls254.AffineXY(sig)

		g1 := bls254.PublicKeyG1(m.blsKey)
		g1x, g1y := bls254.AffineXY(g1)
		g2 := bls254.PublicKeyG2(m.blsKey)
		g2x0, g2x1, g2y0, g2y1 := bls254.AffineXYG2(g2)

		data, err := m.daSigners.PackRegisterSigner(chainclient.SignerDetail{
			Signer:     m.me,
			Socket:     m.socket,
			G1PubkeyX:  g1x,
			G1PubkeyY:  g1y,
			G2PubkeyX0: g2x0,
			G2PubkeyX1: g2x1,
			G2PubkeyY0: g2y0,
			G2PubkeyY1: g2y1,
		}, sigX, sigY)
		if err != nil {
			return err
		}
		if _, err := m.sender.Send(ctx, m.daSigners.Address(), data); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(registrationSettleDelay):
		}
	}

	onChainSocket, err := m.daSigners.GetSignerSocket(ctx, m.me)
	if err != nil {
		return err
	}
	if onChainSocket == m.socket {
		return nil
	}
	data, err := m.daSigners.PackUpdateSocket(m.socket)
	if err != nil {
		return err
	}
	_, err = m.sender.Send(ctx, m.daSigners.Address(), data)
	return err
}

// fetchQuorumIfMissing materializes the AssignedSlices for epoch if they
// have not already been computed, deriving them from the on-chain ordered
// quorum membership. Once written, AssignedSlices are never modified.
func (m *Monitor) fetchQuorumIfMissing(ctx context.Context, epoch uint64) error {
	return FetchQuorumIfMissing(ctx, m.storage, m.daSigners, m.me, epoch)
}

// FetchQuorumIfMissing is the shared quorum-materialization routine: it is
// used by the epoch loop proactively and by the signing service lazily,
// the first time a request needs assignments the epoch loop hasn't reached
// yet.
func FetchQuorumIfMissing(ctx context.Context, store *storage.Storage, daSigners *chainclient.DASigners, me common.Address, epoch uint64) error {
	if _, ok, err := store.GetQuorumNum(epoch); err != nil {
		return err
	} else if ok {
		return nil
	}

	n, err := daSigners.QuorumCount(ctx, epoch)
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		signers, err := daSigners.GetQuorum(ctx, epoch, i)
		if err != nil {
			return err
		}
		var mine []uint64
		for idx, addr := range signers {
			if addr == me {
				mine = append(mine, uint64(idx))
			}
		}
		if err := store.PutAssignedSlices(epoch, i, mine); err != nil {
			return err
		}
	}
	return store.PutQuorumNum(epoch, n)
}

func (m *Monitor) ensureNextEpochRegistered(ctx context.Context, epoch uint64) error {
	nextEpoch := epoch + 1
	registered, err := m.daSigners.RegisteredEpoch(ctx, m.me, nextEpoch)
	if err != nil {
		return err
	}
	if registered {
		return nil
	}

	var addr [20]byte
	copy(addr[:], m.me.Bytes())
	digest := bls254.NextEpochDigest(addr, nextEpoch, m.client.ChainID)
	h2 := bls254.MapToG1(digest[:])
	sig := bls254.ScalarMulG1(h2, m.blsKey)
	sigX, sigY := bls254.AffineXY(sig)

	data, err := m.daSigners.PackRegisterNextEpoch(sigX, sigY)
	if err != nil {
		return err
	}
	_, err = m.sender.Send(ctx, m.daSigners.Address(), data)
	return err
}
