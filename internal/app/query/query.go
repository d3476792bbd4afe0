package query

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tonindexer/txmon/internal/app"
	"github.com/tonindexer/txmon/internal/core"
	"github.com/tonindexer/txmon/internal/core/filter"
)

var _ app.QueryService = (*Service)(nil)

type Service struct {
	*app.QueryConfig
}

func NewService(_ context.Context, cfg *app.QueryConfig) (*Service, error) {
	if cfg == nil || cfg.EventRepo == nil {
		return nil, errors.Wrap(core.ErrInvalidArg, "no event repository")
	}
	return &Service{QueryConfig: cfg}, nil
}

func (s *Service) ListAll(ctx context.Context) ([]*core.TransactionEvent, error) {
	return s.GetEvents(ctx, 0, 0)
}

func (s *Service) GetEvents(ctx context.Context, offset, limit int) ([]*core.TransactionEvent, error) {
	if offset < 0 {
		return nil, errors.Wrapf(core.ErrInvalidArg, "offset %d", offset)
	}
	if limit < 0 {
		limit = 0
	}

	ret, err := s.EventRepo.GetEvents(ctx, offset, limit)
	if err != nil {
		return nil, errors.Wrap(err, "get events")
	}
	if ret == nil {
		ret = []*core.TransactionEvent{}
	}
	return ret, nil
}

func (s *Service) FilterEvents(ctx context.Context, req *filter.EventsReq) (*filter.EventsRes, error) {
	res, err := s.EventRepo.FilterEvents(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "filter events")
	}
	if res.Rows == nil {
		res.Rows = []*core.TransactionEvent{}
	}
	return res, nil
}
