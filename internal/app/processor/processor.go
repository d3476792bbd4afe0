package processor

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun/extra/bunbig"

	"github.com/tonindexer/txmon/abi"
	"github.com/tonindexer/txmon/internal/app"
	"github.com/tonindexer/txmon/internal/core"
	"github.com/tonindexer/txmon/internal/metrics"
)

var _ app.ProcessorService = (*Service)(nil)

// EtherDecimals is the number of decimal places of the ledger native unit.
const EtherDecimals = 18

const defaultRequestTimeout = 30 * time.Second

type Service struct {
	*app.ProcessorConfig
}

func NewService(cfg *app.ProcessorConfig) *Service {
	s := &Service{ProcessorConfig: cfg}
	if s.RequestTimeout <= 0 {
		s.RequestTimeout = defaultRequestTimeout
	}
	return s
}

// FormatValue converts value in the smallest ledger unit to its display unit.
func FormatValue(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -EtherDecimals).String()
}

func (s *Service) receipt(ctx context.Context, tx *core.Transaction) (*core.Receipt, error) {
	if tx.Receipt != nil {
		return tx.Receipt, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	r, err := s.Fetcher.TransactionReceipt(ctx, tx.Hash)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, errors.Wrap(core.ErrNotFound, "empty receipt")
	}
	return r, nil
}

func (s *Service) processTransaction(ctx context.Context, b *core.Block, tx *core.Transaction) (*core.TransactionEvent, error) {
	r, err := s.receipt(ctx, tx)
	if err != nil {
		return nil, errors.Wrap(err, "get receipt")
	}

	wei := tx.Value
	if wei == nil {
		wei = new(big.Int)
	}

	ev := &core.TransactionEvent{
		TxHash:      tx.Hash,
		BlockNumber: b.Number,
		From:        tx.From,
		To:          strings.ToLower(*tx.To),
		FunctionID:  abi.FunctionID(r),
		Value:       FormatValue(wei),
		ValueWei:    bunbig.FromMathBig(new(big.Int).Set(wei)),
		Gas:         tx.Gas,
		GasUsed:     r.GasUsed,
		ObservedAt:  time.Unix(int64(b.Time), 0).UTC(),
	}

	l := log.Debug().
		Uint64("block", b.Number).
		Str("tx_hash", ev.TxHash).
		Str("to", ev.To).
		Str("value", ev.Value).
		Str("function", ev.FunctionID)
	if name, ok := abi.EventName(ev.FunctionID); ok {
		l = l.Str("event", name)
	}
	l.Msg("transaction detected")

	return ev, nil
}

func (s *Service) ProcessBlock(ctx context.Context, b *core.Block) ([]*core.TransactionEvent, error) {
	if b == nil {
		return nil, errors.Wrap(core.ErrInvalidArg, "nil block")
	}

	defer app.TimeTrack(time.Now(), "ProcessBlock(%d)", b.Number)

	var events []*core.TransactionEvent

	for _, tx := range b.Transactions {
		if tx == nil || !s.Accounts.ContainsPtr(tx.To) {
			continue
		}

		ev, err := s.processTransaction(ctx, b, tx)
		if err != nil {
			metrics.TransactionErrors.Inc()
			log.Error().Err(err).
				Uint64("block", b.Number).
				Str("tx_hash", tx.Hash).
				Msg("cannot process transaction")
			continue
		}

		events = append(events, ev)
	}

	return events, nil
}
