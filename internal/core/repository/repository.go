package repository

import (
	"github.com/tonindexer/txmon/internal/core"
	"github.com/tonindexer/txmon/internal/core/filter"
)

type Event interface {
	core.EventRepository
	filter.EventRepository
}

type Cursor interface {
	core.CursorRepository
}
