package core

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Cursor is the last block height fully processed by a monitor.
type Cursor struct {
	bun.BaseModel `bun:"table:monitor_cursor,alias:mc"`

	ID        string    `bun:",pk,notnull" json:"id"`
	Height    uint64    `bun:",notnull" json:"height"`
	UpdatedAt time.Time `bun:"type:timestamp without time zone,notnull" json:"updated_at"`
}

type CursorRepository interface {
	GetCursor(ctx context.Context, id string) (*Cursor, error)
	// SetCursor stores the cursor height, never lowering an already stored one.
	SetCursor(ctx context.Context, c *Cursor) error
}
