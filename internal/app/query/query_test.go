package query_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonindexer/txmon/internal/app"
	"github.com/tonindexer/txmon/internal/app/query"
	"github.com/tonindexer/txmon/internal/core"
	"github.com/tonindexer/txmon/internal/core/filter"
	"github.com/tonindexer/txmon/internal/core/repository"
	"github.com/tonindexer/txmon/internal/core/rndm"
)

type fakeRepo struct {
	events []*core.TransactionEvent // newest first
	err    error

	offset, limit int
}

var _ repository.Event = (*fakeRepo)(nil)

func (r *fakeRepo) AddEvent(context.Context, *core.TransactionEvent) (bool, error) {
	return false, errors.New("not implemented")
}

func (r *fakeRepo) GetEvents(_ context.Context, offset, limit int) ([]*core.TransactionEvent, error) {
	r.offset, r.limit = offset, limit
	if r.err != nil {
		return nil, r.err
	}
	if offset >= len(r.events) {
		return nil, nil
	}
	ret := r.events[offset:]
	if limit > 0 && limit < len(ret) {
		ret = ret[:limit]
	}
	return ret, nil
}

func (r *fakeRepo) FilterEvents(context.Context, *filter.EventsReq) (*filter.EventsRes, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &filter.EventsRes{Total: len(r.events)}, nil
}

func newService(t *testing.T, r *fakeRepo) *query.Service {
	s, err := query.NewService(context.Background(), &app.QueryConfig{EventRepo: r})
	require.Nil(t, err)
	return s
}

func reversed(in []*core.TransactionEvent) (out []*core.TransactionEvent) {
	for i := len(in) - 1; i >= 0; i-- {
		out = append(out, in[i])
	}
	return out
}

func TestService_ListAll(t *testing.T) {
	ctx := context.Background()

	events := reversed(rndm.Events(rndm.Address(), 3))
	r := &fakeRepo{events: events}
	s := newService(t, r)

	got, err := s.ListAll(ctx)
	require.Nil(t, err)
	assert.Equal(t, events, got)
	assert.Equal(t, 0, r.limit)
}

func TestService_ListAll_Empty(t *testing.T) {
	got, err := newService(t, &fakeRepo{}).ListAll(context.Background())
	require.Nil(t, err)
	assert.NotNil(t, got)
	assert.Len(t, got, 0)
}

func TestService_GetEvents(t *testing.T) {
	ctx := context.Background()

	events := reversed(rndm.Events(rndm.Address(), 5))
	s := newService(t, &fakeRepo{events: events})

	got, err := s.GetEvents(ctx, 1, 2)
	require.Nil(t, err)
	assert.Equal(t, events[1:3], got)

	_, err = s.GetEvents(ctx, -1, 2)
	assert.True(t, errors.Is(err, core.ErrInvalidArg))
}

func TestService_StoreFailure(t *testing.T) {
	ctx := context.Background()
	s := newService(t, &fakeRepo{err: errors.New("connection refused")})

	got, err := s.ListAll(ctx)
	assert.NotNil(t, err)
	assert.Nil(t, got)

	res, err := s.FilterEvents(ctx, &filter.EventsReq{})
	assert.NotNil(t, err)
	assert.Nil(t, res)
}

func TestService_FilterEvents(t *testing.T) {
	s := newService(t, &fakeRepo{})

	res, err := s.FilterEvents(context.Background(), &filter.EventsReq{})
	require.Nil(t, err)
	assert.Equal(t, 0, res.Total)
	assert.NotNil(t, res.Rows)
}

func TestNewService(t *testing.T) {
	_, err := query.NewService(context.Background(), &app.QueryConfig{})
	assert.True(t, errors.Is(err, core.ErrInvalidArg))
}
