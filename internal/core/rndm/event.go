package rndm

import (
	"math/big"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun/extra/bunbig"

	"github.com/tonindexer/txmon/internal/core"
)

var (
	eventTS           = time.Now().UTC().Truncate(time.Second)
	eventBlock uint64 = 1000
)

func Event(to string) *core.TransactionEvent {
	eventTS = eventTS.Add(time.Minute)
	eventBlock++

	wei := BigInt()

	return &core.TransactionEvent{
		TxHash:      Hash(),
		BlockNumber: eventBlock,
		From:        Address(),
		To:          to,
		FunctionID:  Hash(),
		Value:       decimal.NewFromBigInt(wei, -18).String(),
		ValueWei:    bunbig.FromMathBig(new(big.Int).Set(wei)),
		Gas:         uint64(21000 + rand.Intn(100000)),
		GasUsed:     uint64(21000 + rand.Intn(50000)),
		ObservedAt:  eventTS,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

func Events(to string, n int) (ret []*core.TransactionEvent) {
	for i := 0; i < n; i++ {
		ret = append(ret, Event(to))
	}
	return
}
