package app

import (
	"context"

	"github.com/tonindexer/txmon/internal/core"
	"github.com/tonindexer/txmon/internal/core/filter"
	"github.com/tonindexer/txmon/internal/core/repository"
)

type QueryConfig struct {
	EventRepo repository.Event
}

type QueryService interface {
	// ListAll returns all recorded events, newest first.
	ListAll(ctx context.Context) ([]*core.TransactionEvent, error)
	// GetEvents returns a page of recorded events, newest first; limit <= 0 means no limit.
	GetEvents(ctx context.Context, offset, limit int) ([]*core.TransactionEvent, error)
	FilterEvents(ctx context.Context, req *filter.EventsReq) (*filter.EventsRes, error)
}
