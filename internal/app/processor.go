package app

import (
	"context"
	"time"

	"github.com/tonindexer/txmon/addr"
	"github.com/tonindexer/txmon/internal/core"
)

type ProcessorConfig struct {
	Accounts *addr.Set
	Fetcher  FetcherService

	// RequestTimeout bounds a single receipt request.
	RequestTimeout time.Duration
}

type ProcessorService interface {
	// ProcessBlock returns events for the block transactions sent to monitored accounts.
	// Failures of single transactions are logged and skipped.
	ProcessBlock(ctx context.Context, b *core.Block) ([]*core.TransactionEvent, error)
}
