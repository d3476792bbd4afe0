package fetcher

import (
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog/log"

	"github.com/tonindexer/txmon/internal/core"
)

func (s *Service) mapTransaction(raw *types.Transaction) *core.Transaction {
	tx := &core.Transaction{
		Hash:  raw.Hash().Hex(),
		Value: new(big.Int).Set(raw.Value()),
		Gas:   raw.Gas(),
	}

	if to := raw.To(); to != nil {
		a := to.Hex()
		tx.To = &a
	}

	from, err := s.signer.Sender(raw)
	if err != nil {
		log.Warn().Err(err).Str("tx_hash", tx.Hash).Msg("cannot recover transaction sender")
	} else {
		tx.From = from.Hex()
	}

	return tx
}

func (s *Service) mapBlock(raw *types.Block) *core.Block {
	b := &core.Block{
		Number: raw.NumberU64(),
		Hash:   raw.Hash().Hex(),
		Time:   raw.Time(),
	}
	for _, tx := range raw.Transactions() {
		b.Transactions = append(b.Transactions, s.mapTransaction(tx))
	}
	return b
}

func mapReceipt(raw *types.Receipt) *core.Receipt {
	r := &core.Receipt{
		TxHash:  raw.TxHash.Hex(),
		GasUsed: raw.GasUsed,
	}
	for _, l := range raw.Logs {
		if l == nil {
			continue
		}
		rl := &core.Log{
			Address: l.Address.Hex(),
			Data:    l.Data,
		}
		for _, t := range l.Topics {
			rl.Topics = append(rl.Topics, t.Hex())
		}
		r.Logs = append(r.Logs, rl)
	}
	return r
}
