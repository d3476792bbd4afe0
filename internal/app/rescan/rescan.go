package rescan

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/tonindexer/txmon/internal/app"
	"github.com/tonindexer/txmon/internal/core"
	"github.com/tonindexer/txmon/internal/metrics"
)

var _ app.RescanService = (*Service)(nil)

// MaxRange is the maximum number of blocks in one rescan call.
const MaxRange = 100000

type Service struct {
	*app.RescanConfig
}

func NewService(cfg *app.RescanConfig) *Service {
	var s = new(Service)

	s.RescanConfig = cfg

	if s.RequestTimeout <= 0 {
		s.RequestTimeout = 30 * time.Second
	}

	return s
}

func (s *Service) block(ctx context.Context, height uint64) (*core.Block, error) {
	ctx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	return s.Fetcher.Block(ctx, height)
}

func (s *Service) addEvent(ctx context.Context, ev *core.TransactionEvent) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	return s.EventRepo.AddEvent(ctx, ev)
}

func (s *Service) publish(ctx context.Context, ev *core.TransactionEvent) error {
	ctx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	return s.Publisher.Publish(ctx, ev)
}

func (s *Service) save(ctx context.Context, ev *core.TransactionEvent, res *app.RescanResult) {
	inserted, err := s.addEvent(ctx, ev)
	switch {
	case err != nil:
		res.Failed++
		metrics.Events.WithLabelValues(metrics.EventError).Inc()
		log.Error().Err(err).Str("tx_hash", ev.TxHash).Msg("cannot save transaction event")
		return
	case !inserted:
		res.Duplicates++
		metrics.Events.WithLabelValues(metrics.EventDuplicate).Inc()
		return
	}

	res.Inserted++
	metrics.Events.WithLabelValues(metrics.EventInserted).Inc()
	log.Info().
		Uint64("block", ev.BlockNumber).
		Str("tx_hash", ev.TxHash).
		Str("to", ev.To).
		Msg("missed transaction recorded")

	if s.Publisher == nil {
		return
	}
	if err := s.publish(ctx, ev); err != nil {
		log.Warn().Err(err).Str("tx_hash", ev.TxHash).Msg("cannot publish transaction event")
	}
}

func (s *Service) Rescan(ctx context.Context, from, to uint64) (*app.RescanResult, error) {
	if from > to {
		return nil, errors.Wrapf(core.ErrInvalidArg, "from %d is greater than to %d", from, to)
	}
	if to-from >= MaxRange {
		return nil, errors.Wrapf(core.ErrInvalidArg, "range %d-%d is too wide (max %d blocks)", from, to, MaxRange)
	}

	defer app.TimeTrack(time.Now(), "Rescan(%d, %d)", from, to)

	res := new(app.RescanResult)

	for h := from; h <= to; h++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		b, err := s.block(ctx, h)
		if err != nil {
			return res, errors.Wrapf(err, "fetch block %d", h)
		}

		events, err := s.Processor.ProcessBlock(ctx, b)
		if err != nil {
			return res, errors.Wrapf(err, "process block %d", h)
		}
		res.Blocks++

		for _, ev := range events {
			s.save(ctx, ev, res)
		}

		if h%1000 == 0 {
			log.Info().Uint64("height", h).Uint64("to", to).Int("inserted", res.Inserted).Msg("rescanning")
		}
	}

	log.Info().
		Uint64("from", from).
		Uint64("to", to).
		Int("blocks", res.Blocks).
		Int("inserted", res.Inserted).
		Int("duplicates", res.Duplicates).
		Int("failed", res.Failed).
		Msg("rescan finished")

	return res, nil
}
