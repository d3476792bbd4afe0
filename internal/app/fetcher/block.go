package fetcher

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/pkg/errors"

	"github.com/tonindexer/txmon/internal/app"
	"github.com/tonindexer/txmon/internal/core"
)

func (s *Service) CurrentHeight(ctx context.Context) (uint64, error) {
	if err := s.wait(ctx); err != nil {
		return 0, err
	}

	h, err := s.Client.BlockNumber(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "get block number")
	}
	return h, nil
}

func (s *Service) Block(ctx context.Context, height uint64) (*core.Block, error) {
	defer app.TimeTrack(time.Now(), "Block(%d)", height)

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	raw, err := s.Client.BlockByNumber(ctx, new(big.Int).SetUint64(height))
	if errors.Is(err, ethereum.NotFound) || (err == nil && raw == nil) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get block %d", height)
	}

	return s.mapBlock(raw), nil
}
