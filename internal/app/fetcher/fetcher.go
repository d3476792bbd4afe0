package fetcher

import (
	"context"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/tonindexer/txmon/internal/app"
	"github.com/tonindexer/txmon/internal/core"
	"github.com/tonindexer/txmon/lru"
)

var _ app.FetcherService = (*Service)(nil)

const defaultReceiptCacheSize = 4096

type Service struct {
	*app.FetcherConfig

	signer   types.Signer
	limiter  *rate.Limiter
	receipts *lru.Cache[string, *core.Receipt]
}

func NewService(cfg *app.FetcherConfig) *Service {
	s := &Service{FetcherConfig: cfg}

	if cfg.ChainID == nil {
		log.Warn().Msg("chain id is not set, sender recovery supports only pre-EIP-155 transactions")
	}
	s.signer = types.LatestSignerForChainID(cfg.ChainID)

	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	size := cfg.ReceiptCacheSize
	if size <= 0 {
		size = defaultReceiptCacheSize
	}
	s.receipts = lru.New[string, *core.Receipt](size)

	return s
}

func (s *Service) wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}
