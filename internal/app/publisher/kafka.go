package publisher

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"github.com/tonindexer/txmon/internal/app"
	"github.com/tonindexer/txmon/internal/core"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ messageWriter = (*kafka.Writer)(nil)

var _ app.PublisherService = (*Kafka)(nil)

// Kafka writes events to a kafka topic keyed by transaction hash.
type Kafka struct {
	writer messageWriter
}

func NewKafka(brokers []string, topic string) (*Kafka, error) {
	if len(brokers) == 0 {
		return nil, errors.Wrap(core.ErrInvalidArg, "no kafka brokers")
	}
	if topic == "" {
		topic = DefaultTopic
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
	}

	return &Kafka{writer: w}, nil
}

func (p *Kafka) Publish(ctx context.Context, e *core.TransactionEvent) error {
	raw, err := marshal(e)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.TxHash),
		Value: raw,
		Time:  e.ObservedAt,
	})
	if err != nil {
		return errors.Wrapf(err, "write %s", e.TxHash)
	}

	return nil
}

func (p *Kafka) Close() error {
	return p.writer.Close()
}
