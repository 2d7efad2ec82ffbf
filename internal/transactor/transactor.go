// Package transactor serializes every outgoing transaction from this node
// behind a single mutex and classifies submission failures per §7: a base
// fee race is retried with the same payload, insufficient funds aborts the
// caller with a warning, and anything else is treated as a will-revert
// failure and also aborts the caller. This breaks the cyclic reference the
// original design had between the chain monitor and the transaction
// sender (§9): the transactor owns the wallet and the L1 client, and is
// injected into its callers as a narrow Sender capability.
package transactor

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"

	"github.com/0glabs/0g-da-node/internal/apperr"
	"github.com/0glabs/0g-da-node/internal/chainclient"
)

// Sender is the narrow capability the chain monitor and the PoDAS submitter
// depend on, instead of holding a wallet themselves.
type Sender interface {
	Send(ctx context.Context, to common.Address, data []byte) (common.Hash, error)
}

// Transactor serializes transaction submission for one wallet.
type Transactor struct {
	client *chainclient.Client
	key    *ecdsa.PrivateKey
	from   common.Address
	mu     sync.Mutex
	log    log.Logger
}

// New constructs a Transactor for the given hex-encoded secp256k1 private key.
func New(client *chainclient.Client, hexKey string) (*Transactor, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("transactor: parse private key: %w", err)
	}
	return &Transactor{
		client: client,
		key:    key,
		from:   crypto.PubkeyToAddress(key.PublicKey),
		log:    log.New("module", "transactor"),
	}, nil
}

// From returns the wallet address transactions are sent from.
func (t *Transactor) From() common.Address { return t.from }

// Send builds, signs, and submits a transaction to `to` carrying `data`,
// waiting for it to be mined. Only one Send is ever in flight at a time.
func (t *Transactor) Send(ctx context.Context, to common.Address, data []byte) (common.Hash, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for {
		hash, err := t.attempt(ctx, to, data)
		if err == nil {
			return hash, nil
		}
		switch classify(err) {
		case classRetryBaseFee:
			t.log.Warn("base fee raced ahead of submission, retrying", "err", err)
			continue
		case classInsufficientFunds:
			t.log.Warn("insufficient funds for transaction, aborting", "err", err)
			return common.Hash{}, apperr.Internal("transactor.Send", err)
		default:
			t.log.Error("transaction will revert, aborting", "err", err)
			return common.Hash{}, apperr.Internal("transactor.Send", err)
		}
	}
}

func (t *Transactor) attempt(ctx context.Context, to common.Address, data []byte) (common.Hash, error) {
	nonce, err := t.client.Eth.PendingNonceAt(ctx, t.from)
	if err != nil {
		return common.Hash{}, err
	}
	gasPrice, err := t.client.Eth.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	gasLimit, err := t.client.Eth.EstimateGas(ctx, ethereum.CallMsg{From: t.from, To: &to, Data: data})
	if err != nil {
		return common.Hash{}, err
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    nil,
		Gas:      gasLimit + gasLimit/5, // 20% headroom over the estimate
		GasPrice: gasPrice,
		Data:     data,
	})
	signer := types.LatestSignerForChainID(t.client.ChainID)
	signedTx, err := types.SignTx(tx, signer, t.key)
	if err != nil {
		return common.Hash{}, err
	}
	if err := t.client.Eth.SendTransaction(ctx, signedTx); err != nil {
		return common.Hash{}, err
	}
	receipt, err := waitMined(ctx, t.client, signedTx.Hash())
	if err != nil {
		return common.Hash{}, err
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return common.Hash{}, fmt.Errorf("transaction %s reverted", signedTx.Hash())
	}
	return signedTx.Hash(), nil
}

type errorClass int

const (
	classFatal errorClass = iota
	classRetryBaseFee
	classInsufficientFunds
)

func classify(err error) errorClass {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "max fee per gas less than block base fee"):
		return classRetryBaseFee
	case strings.Contains(msg, "insufficient funds"):
		return classInsufficientFunds
	default:
		return classFatal
	}
}
