package publisher

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/tonindexer/txmon/internal/app"
	"github.com/tonindexer/txmon/internal/core"
)

type streamClient interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	Close() error
}

var _ streamClient = (*redis.Client)(nil)

var _ app.PublisherService = (*Redis)(nil)

// Redis appends events to a redis stream.
type Redis struct {
	client streamClient
	stream string
}

func NewRedis(client streamClient, stream string) *Redis {
	if stream == "" {
		stream = DefaultStream
	}
	return &Redis{client: client, stream: stream}
}

func DialRedis(url, stream string) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	return NewRedis(redis.NewClient(opt), stream), nil
}

func (p *Redis) Publish(ctx context.Context, e *core.TransactionEvent) error {
	raw, err := marshal(e)
	if err != nil {
		return err
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"tx_hash": e.TxHash,
			"payload": raw,
		},
	}).Err()
	if err != nil {
		return errors.Wrapf(err, "xadd to %s", p.stream)
	}

	return nil
}

func (p *Redis) Close() error {
	return p.client.Close()
}
