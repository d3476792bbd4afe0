package fetcher

import (
	"context"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/tonindexer/txmon/internal/core"
)

func (s *Service) TransactionReceipt(ctx context.Context, txHash string) (*core.Receipt, error) {
	if r, ok := s.receipts.Get(txHash); ok {
		return r, nil
	}

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	raw, err := s.Client.TransactionReceipt(ctx, common.HexToHash(txHash))
	if errors.Is(err, ethereum.NotFound) || (err == nil && raw == nil) {
		return nil, errors.Wrapf(core.ErrNotFound, "receipt of %s", txHash)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get receipt of %s", txHash)
	}

	r := mapReceipt(raw)
	s.receipts.Put(txHash, r)

	return r, nil
}
