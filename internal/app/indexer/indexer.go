package indexer

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/tonindexer/txmon/internal/app"
	"github.com/tonindexer/txmon/internal/core"
	"github.com/tonindexer/txmon/internal/metrics"
)

var _ app.IndexerService = (*Service)(nil)

const (
	DefaultCursorID         = "main"
	DefaultPollInterval     = 10 * time.Second
	DefaultMaxBlocksPerTick = 100
	DefaultRequestTimeout   = 30 * time.Second
)

type Service struct {
	*app.IndexerConfig

	cursor    uint64
	cursorSet bool
	cursorMx  sync.Mutex

	// held for the whole iteration
	tickMx sync.Mutex

	cron     *cron.Cron
	run      bool
	stopping bool
	mx       sync.RWMutex
}

func NewService(cfg *app.IndexerConfig) *Service {
	var s = new(Service)

	s.IndexerConfig = cfg

	if s.CursorID == "" {
		s.CursorID = DefaultCursorID
	}
	if s.PollInterval <= 0 {
		s.PollInterval = DefaultPollInterval
	}
	if s.PollInterval < time.Second {
		log.Warn().Dur("poll_interval", s.PollInterval).Msg("poll interval is less than a second, using 1s")
		s.PollInterval = time.Second
	}
	if s.MaxBlocksPerTick <= 0 {
		s.MaxBlocksPerTick = DefaultMaxBlocksPerTick
	}
	if s.RequestTimeout <= 0 {
		s.RequestTimeout = DefaultRequestTimeout
	}

	return s
}

func (s *Service) running() bool {
	s.mx.RLock()
	defer s.mx.RUnlock()

	return s.run
}

func (s *Service) stopRequested() bool {
	s.mx.RLock()
	defer s.mx.RUnlock()

	return s.stopping
}

// Cursor returns the last fully processed block height.
func (s *Service) Cursor() uint64 {
	s.cursorMx.Lock()
	defer s.cursorMx.Unlock()

	return s.cursor
}

func (s *Service) getCursor() (uint64, bool) {
	s.cursorMx.Lock()
	defer s.cursorMx.Unlock()

	return s.cursor, s.cursorSet
}

func (s *Service) setCursor(height uint64) {
	s.cursorMx.Lock()
	defer s.cursorMx.Unlock()

	if s.cursorSet && height < s.cursor {
		return
	}
	s.cursor, s.cursorSet = height, true
	metrics.CursorHeight.Set(float64(height))
}

// loadCursor restores the persisted cursor or derives it from FromBlock.
// It returns false if the cursor is still unknown.
func (s *Service) loadCursor(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	c, err := s.CursorRepo.GetCursor(ctx, s.CursorID)
	switch {
	case err == nil:
		s.setCursor(c.Height)
		return true, nil
	case !errors.Is(err, core.ErrNotFound):
		return false, errors.Wrap(err, "get cursor")
	}

	if s.FromBlock > 0 {
		s.setCursor(s.FromBlock - 1)
		return true, nil
	}

	return false, nil
}

func (s *Service) Start() error {
	s.mx.Lock()
	defer s.mx.Unlock()

	if s.run {
		return errors.New("indexer is already running")
	}

	if _, err := s.loadCursor(context.Background()); err != nil {
		return err
	}

	l := cronLogger{}
	c := cron.New(
		cron.WithLogger(l),
		cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
	)
	c.Schedule(cron.Every(s.PollInterval), cron.FuncJob(s.tick))
	c.Start()

	s.cron, s.run, s.stopping = c, true, false

	ev := log.Info().
		Dur("poll_interval", s.PollInterval).
		Int("max_blocks_per_tick", s.MaxBlocksPerTick)
	if cursor, ok := s.getCursor(); ok {
		ev = ev.Uint64("cursor", cursor)
	} else {
		ev = ev.Str("cursor", "chain tip")
	}
	ev.Msg("started")

	return nil
}

// Stop stops scheduling new ticks and waits for the running one.
func (s *Service) Stop() {
	s.mx.Lock()
	if !s.run {
		s.mx.Unlock()
		return
	}
	s.run, s.stopping = false, true
	c := s.cron
	s.mx.Unlock()

	<-c.Stop().Done()

	log.Info().Uint64("cursor", s.Cursor()).Msg("stopped")
}

func (s *Service) tick() {
	if err := s.Tick(context.Background()); err != nil {
		log.Error().Err(err).Uint64("cursor", s.Cursor()).Msg("tick")
	}
}

func (s *Service) currentHeight(ctx context.Context) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	return s.Fetcher.CurrentHeight(ctx)
}

func (s *Service) block(ctx context.Context, height uint64) (*core.Block, error) {
	ctx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	return s.Fetcher.Block(ctx, height)
}

// Tick scans blocks after the cursor up to the chain tip,
// processing at most MaxBlocksPerTick of them.
// It returns immediately if another iteration is in progress.
func (s *Service) Tick(ctx context.Context) (err error) {
	if !s.tickMx.TryLock() {
		log.Debug().Msg("previous tick is still running, skipping")
		metrics.Ticks.WithLabelValues(metrics.StatusSkipped).Inc()
		return nil
	}
	defer s.tickMx.Unlock()

	defer func(start time.Time) {
		metrics.TickDuration.Observe(time.Since(start).Seconds())
	}(time.Now())

	tip, err := s.currentHeight(ctx)
	if err != nil {
		metrics.Ticks.WithLabelValues(metrics.StatusError).Inc()
		return errors.Wrap(err, "get current height")
	}
	metrics.ChainHeight.Set(float64(tip))

	cursor, ok := s.getCursor()
	if !ok {
		ok, err = s.loadCursor(ctx)
		if err != nil {
			metrics.Ticks.WithLabelValues(metrics.StatusError).Inc()
			return err
		}
		if !ok {
			// start from the current chain tip
			var h uint64
			if tip > 0 {
				h = tip - 1
			}
			s.setCursor(h)
		}
		cursor, _ = s.getCursor()
	}

	if tip <= cursor {
		metrics.Ticks.WithLabelValues(metrics.StatusIdle).Inc()
		return nil
	}

	last := tip
	if limit := uint64(s.MaxBlocksPerTick); tip-cursor > limit {
		last = cursor + limit
	}

	for h := cursor + 1; h <= last; h++ {
		if s.stopRequested() || ctx.Err() != nil {
			break
		}

		if err := s.processBlock(ctx, h); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				log.Debug().Uint64("height", h).Msg("block is not available yet")
				break
			}
			metrics.Ticks.WithLabelValues(metrics.StatusError).Inc()
			return errors.Wrapf(err, "process block %d", h)
		}
	}

	metrics.Ticks.WithLabelValues(metrics.StatusOK).Inc()
	return nil
}

func (s *Service) processBlock(ctx context.Context, height uint64) error {
	defer app.TimeTrack(time.Now(), "processBlock(%d)", height)

	b, err := s.block(ctx, height)
	if err != nil {
		return errors.Wrap(err, "fetch block")
	}

	events, err := s.Processor.ProcessBlock(ctx, b)
	if err != nil {
		return errors.Wrap(err, "process block")
	}
	metrics.BlocksProcessed.Inc()

	for _, ev := range events {
		s.saveEvent(ctx, ev)
	}

	s.advance(ctx, height)

	if height%100 == 0 {
		log.Info().Uint64("height", height).Msg("indexed")
	} else {
		log.Debug().Uint64("height", height).Int("events", len(events)).Msg("indexed")
	}

	return nil
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

func (s *Service) saveEvent(ctx context.Context, ev *core.TransactionEvent) {
	inserted, err := s.addEvent(ctx, ev)
	switch {
	case err != nil:
		metrics.Events.WithLabelValues(metrics.EventError).Inc()
		log.Error().Err(err).Str("tx_hash", ev.TxHash).Msg("cannot save transaction event")
		return
	case !inserted:
		metrics.Events.WithLabelValues(metrics.EventDuplicate).Inc()
		log.Debug().Str("tx_hash", ev.TxHash).Msg("transaction event is already recorded")
		return
	}

	metrics.Events.WithLabelValues(metrics.EventInserted).Inc()
	log.Info().
		Uint64("block", ev.BlockNumber).
		Str("tx_hash", ev.TxHash).
		Str("from", ev.From).
		Str("to", ev.To).
		Str("value", ev.Value).
		Str("function", ev.FunctionID).
		Msg("transaction recorded")

	if s.Publisher == nil {
		return
	}
	if err := s.publish(ctx, ev); err != nil {
		log.Warn().Err(err).Str("tx_hash", ev.TxHash).Msg("cannot publish transaction event")
	}
}

func (s *Service) advance(ctx context.Context, height uint64) {
	s.setCursor(height)

	ctx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	err := s.CursorRepo.SetCursor(ctx, &core.Cursor{
		ID:        s.CursorID,
		Height:    height,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		log.Error().Err(err).Uint64("height", height).Msg("cannot persist cursor")
	}
}
