package core

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/extra/bunbig"
	"github.com/uptrace/go-clickhouse/ch"
)

// TransactionEvent is a recorded transaction sent to one of the monitored accounts.
// It is created once per transaction hash and never updated.
type TransactionEvent struct {
	ch.CHModel    `ch:"transaction_events,partition:toYYYYMM(observed_at)" json:"-"`
	bun.BaseModel `bun:"table:transaction_events" json:"-"`

	TxHash      string `ch:",pk" bun:",pk,notnull" json:"transactionHash"`
	BlockNumber uint64 `bun:",notnull" json:"blockNumber"`

	From string `ch:"from_address" bun:"from_address,notnull" json:"from"`
	To   string `ch:"to_address,lc" bun:"to_address,notnull" json:"to"`

	FunctionID string `ch:",lc" bun:",notnull" json:"functionName"`

	Value    string      `bun:",notnull" json:"value"`
	ValueWei *bunbig.Int `ch:"type:UInt256" bun:"type:numeric" json:"valueWei" swaggertype:"string"`

	Gas     uint64 `bun:",notnull" json:"gas"`
	GasUsed uint64 `bun:",notnull" json:"gasUsed"`

	ObservedAt time.Time `ch:",pk" bun:"type:timestamp without time zone,notnull" json:"timestamp"`
	CreatedAt  time.Time `bun:"type:timestamp without time zone,notnull,default:current_timestamp" json:"-"`
}

type EventRepository interface {
	// AddEvent inserts the event unless an event with the same hash exists.
	AddEvent(ctx context.Context, e *TransactionEvent) (inserted bool, err error)
	GetEvents(ctx context.Context, offset, limit int) ([]*TransactionEvent, error)
}
