package chain

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
)

// ReceiptReader fetches transaction receipts. Pending transactions must be
// reported as ethereum.NotFound.
type ReceiptReader interface {
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// WaitMined polls every period until hash has a receipt, i.e. one
// confirmation. There is no deadline of its own; only ctx stops the wait.
// A reverted transaction is returned with a nil error and Status == 0.
func WaitMined(ctx context.Context, r ReceiptReader, hash common.Hash, period time.Duration) (*types.Receipt, error) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		receipt, err := r.TransactionReceipt(ctx, hash)
		switch {
		case err == nil && receipt != nil:
			return receipt, nil
		case err == nil, errors.Is(err, ethereum.NotFound):
			log.Trace("Transaction not yet mined", "hash", hash)
		default:
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
