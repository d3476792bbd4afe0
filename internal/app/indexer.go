package app

import (
	"context"
	"time"

	"github.com/tonindexer/txmon/internal/core"
)

type IndexerConfig struct {
	Fetcher   FetcherService
	Processor ProcessorService
	Publisher PublisherService

	EventRepo  core.EventRepository
	CursorRepo core.CursorRepository

	// CursorID names persisted cursor row.
	CursorID string

	// FromBlock is the first block to process if there is no saved cursor.
	// Zero means starting from the current chain tip.
	FromBlock uint64

	PollInterval     time.Duration
	MaxBlocksPerTick int
	RequestTimeout   time.Duration
}

type IndexerService interface {
	Start() error
	Stop()

	// Tick runs one polling iteration.
	Tick(ctx context.Context) error
	Cursor() uint64
}
