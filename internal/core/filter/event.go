package filter

import (
	"context"

	"github.com/tonindexer/txmon/internal/core"
)

type EventsReq struct {
	To   string `form:"to"`
	From string `form:"from"`

	FunctionID string `form:"function"`

	Order string `form:"order"` // ASC, DESC

	Offset int `form:"offset"`
	Limit  int `form:"limit"`
}

type EventsRes struct {
	Total int                      `json:"total"`
	Rows  []*core.TransactionEvent `json:"results"`
}

type EventRepository interface {
	FilterEvents(context.Context, *EventsReq) (*EventsRes, error)
}
