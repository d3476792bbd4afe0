package event

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/go-clickhouse/ch"

	"github.com/tonindexer/txmon/internal/core"
	"github.com/tonindexer/txmon/internal/core/repository"
)

var _ repository.Event = (*Repository)(nil)

type Repository struct {
	ch *ch.DB
	pg *bun.DB
}

// NewRepository creates event repository. Clickhouse connection is optional,
// if it is set, newly inserted events are mirrored there.
func NewRepository(_ch *ch.DB, _pg *bun.DB) *Repository {
	return &Repository{ch: _ch, pg: _pg}
}

func createIndexes(ctx context.Context, pgDB *bun.DB) error {
	_, err := pgDB.NewCreateIndex().
		Model(&core.TransactionEvent{}).
		Index("transaction_events_observed_at_idx").
		IfNotExists().
		Using("BTREE").
		ColumnExpr("observed_at DESC").
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "transaction event observed_at pg create index")
	}

	_, err = pgDB.NewCreateIndex().
		Model(&core.TransactionEvent{}).
		Index("transaction_events_to_address_idx").
		IfNotExists().
		Using("HASH").
		Column("to_address").
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "transaction event to_address pg create index")
	}

	return nil
}

func CreateTables(ctx context.Context, chDB *ch.DB, pgDB *bun.DB) error {
	if chDB != nil {
		_, err := chDB.NewCreateTable().
			IfNotExists().
			Engine("ReplacingMergeTree").
			Model(&core.TransactionEvent{}).
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "transaction event ch create table")
		}
	}

	if pgDB == nil {
		return nil
	}

	_, err := pgDB.NewCreateTable().
		Model(&core.TransactionEvent{}).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "transaction event pg create table")
	}

	return createIndexes(ctx, pgDB)
}

func (r *Repository) AddEvent(ctx context.Context, e *core.TransactionEvent) (bool, error) {
	if e == nil || e.TxHash == "" {
		return false, errors.Wrap(core.ErrInvalidArg, "empty transaction event")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	res, err := r.pg.NewInsert().
		Model(e).
		On("CONFLICT (tx_hash) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, errors.Wrapf(err, "insert event (tx_hash = %s)", e.TxHash)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return false, nil
	}

	if r.ch != nil {
		// replacing merge tree collapses accidental duplicates
		if _, err := r.ch.NewInsert().Model(e).Exec(ctx); err != nil {
			log.Error().Err(err).Str("tx_hash", e.TxHash).Msg("cannot mirror event to clickhouse")
		}
	}

	return true, nil
}

func (r *Repository) getEventsQuery(ret *[]*core.TransactionEvent, offset, limit int) *bun.SelectQuery {
	return eventsOrder(r.pg.NewSelect().Model(ret), "DESC").
		Offset(offset).
		Limit(limit)
}

func (r *Repository) GetEvents(ctx context.Context, offset, limit int) (ret []*core.TransactionEvent, err error) {
	if offset < 0 || limit < 0 {
		return nil, errors.Wrapf(core.ErrInvalidArg, "offset %d, limit %d", offset, limit)
	}

	err = r.getEventsQuery(&ret, offset, limit).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return ret, nil
}
