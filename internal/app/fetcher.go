package app

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tonindexer/txmon/internal/core"
)

type FetcherConfig struct {
	Client  EthClient
	ChainID *big.Int

	// RateLimit is the maximum number of node requests per second, zero disables limiting.
	RateLimit float64

	ReceiptCacheSize int
}

func TimeTrack(start time.Time, fun string, args ...any) {
	elapsed := float64(time.Since(start)) / 1e9
	if elapsed < 0.1 {
		return
	}
	log.Debug().Str("func", fmt.Sprintf(fun, args...)).Float64("elapsed", elapsed).Msg("timer")
}

// FetcherService is a read-only ledger query client.
type FetcherService interface {
	CurrentHeight(ctx context.Context) (uint64, error)
	// Block returns core.ErrNotFound if the block is not produced yet.
	Block(ctx context.Context, height uint64) (*core.Block, error)
	TransactionReceipt(ctx context.Context, txHash string) (*core.Receipt, error)
}
