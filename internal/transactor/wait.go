package transactor

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/0glabs/0g-da-node/internal/chainclient"
)

// pollInterval is how often waitMined polls for a receipt.
const pollInterval = 1 * time.Second

// waitMined blocks until txHash is mined, mirroring the poll loop
// accounts/abi/bind.WaitMined implements in the teacher for the same
// purpose.
func waitMined(ctx context.Context, client *chainclient.Client, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		receipt, err := client.Eth.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if err != ethereum.NotFound {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
