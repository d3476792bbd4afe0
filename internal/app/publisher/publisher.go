package publisher

import (
	"context"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/tonindexer/txmon/internal/app"
	"github.com/tonindexer/txmon/internal/core"
)

const (
	KindRedis = "redis"
	KindKafka = "kafka"

	DefaultStream = "txmon:events"
	DefaultTopic  = "txmon.events"
)

type Config struct {
	Kind string

	RedisURL    string
	RedisStream string

	KafkaBrokers []string
	KafkaTopic   string
}

// NewService returns a publisher of the configured kind,
// or a no-op publisher if the kind is empty.
func NewService(cfg *Config) (app.PublisherService, error) {
	switch strings.ToLower(cfg.Kind) {
	case "", "none":
		return Nop{}, nil
	case KindRedis:
		return DialRedis(cfg.RedisURL, cfg.RedisStream)
	case KindKafka:
		return NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
	default:
		return nil, errors.Wrapf(core.ErrInvalidArg, "unknown publisher %q", cfg.Kind)
	}
}

func marshal(e *core.TransactionEvent) ([]byte, error) {
	if e == nil || e.TxHash == "" {
		return nil, errors.Wrap(core.ErrInvalidArg, "empty event")
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal event %s", e.TxHash)
	}
	return raw, nil
}

var _ app.PublisherService = Nop{}

// Nop discards all events.
type Nop struct{}

func (Nop) Publish(context.Context, *core.TransactionEvent) error { return nil }

func (Nop) Close() error { return nil }
