package app

import (
	"context"
	"time"

	"github.com/tonindexer/txmon/internal/core"
)

type RescanConfig struct {
	Fetcher   FetcherService
	Processor ProcessorService
	Publisher PublisherService

	EventRepo core.EventRepository

	RequestTimeout time.Duration
}

type RescanResult struct {
	Blocks     int `json:"blocks"`
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
	Failed     int `json:"failed"`
}

// RescanService processes a closed range of already produced blocks again.
// It records missed events and does not move the indexer cursor.
type RescanService interface {
	Rescan(ctx context.Context, from, to uint64) (*RescanResult, error)
}
