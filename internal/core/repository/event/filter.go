package event

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/tonindexer/txmon/internal/core"
	"github.com/tonindexer/txmon/internal/core/filter"
)

func eventsFilter(q *bun.SelectQuery, req *filter.EventsReq) *bun.SelectQuery {
	if req.To != "" {
		q = q.Where("to_address = ?", strings.ToLower(req.To))
	}
	if req.From != "" {
		q = q.Where("lower(from_address) = ?", strings.ToLower(req.From))
	}
	if req.FunctionID != "" {
		q = q.Where("function_id = ?", req.FunctionID)
	}
	return q
}

// eventsOrder sorts by observation time, newest first unless order is ASC.
// Ties are broken by block number and transaction hash.
func eventsOrder(q *bun.SelectQuery, order string) *bun.SelectQuery {
	if strings.ToUpper(order) == "ASC" {
		return q.Order("observed_at ASC", "block_number ASC", "tx_hash ASC")
	}
	return q.Order("observed_at DESC", "block_number DESC", "tx_hash ASC")
}

func (r *Repository) filterEvents(ctx context.Context, req *filter.EventsReq) (ret []*core.TransactionEvent, err error) {
	q := eventsOrder(eventsFilter(r.pg.NewSelect().Model(&ret), req), req.Order)

	if req.Limit == 0 {
		req.Limit = 10
	}
	q = q.Offset(req.Offset).Limit(req.Limit)

	err = q.Scan(ctx)
	return ret, err
}

func (r *Repository) countEvents(ctx context.Context, req *filter.EventsReq) (int, error) {
	return eventsFilter(r.pg.NewSelect().Model((*core.TransactionEvent)(nil)), req).Count(ctx)
}

func (r *Repository) FilterEvents(ctx context.Context, req *filter.EventsReq) (*filter.EventsRes, error) {
	var (
		res = new(filter.EventsRes)
		err error
	)

	if req.Offset < 0 || req.Limit < 0 {
		return res, errors.Wrapf(core.ErrInvalidArg, "offset %d, limit %d", req.Offset, req.Limit)
	}
	if o := strings.ToUpper(req.Order); o != "" && o != "ASC" && o != "DESC" {
		return res, errors.Wrapf(core.ErrInvalidArg, "order %q", req.Order)
	}

	res.Rows, err = r.filterEvents(ctx, req)
	if err != nil {
		return res, err
	}
	if len(res.Rows) == 0 {
		return res, nil
	}

	res.Total, err = r.countEvents(ctx, req)
	if err != nil {
		return res, err
	}

	return res, nil
}
