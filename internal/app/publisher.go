package app

import (
	"context"

	"github.com/tonindexer/txmon/internal/core"
)

// PublisherService notifies downstream consumers about newly recorded events.
type PublisherService interface {
	Publish(ctx context.Context, e *core.TransactionEvent) error
	Close() error
}
