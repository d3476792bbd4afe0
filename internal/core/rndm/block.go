package rndm

import (
	"math/rand"
	"time"

	"github.com/tonindexer/txmon/internal/core"
)

func Transaction(to *string) *core.Transaction {
	return &core.Transaction{
		Hash:  Hash(),
		From:  Address(),
		To:    to,
		Value: BigInt(),
		Gas:   uint64(21000 + rand.Intn(100000)),
	}
}

func Receipt(txHash string, logs int) *core.Receipt {
	r := &core.Receipt{
		TxHash:  txHash,
		GasUsed: uint64(21000 + rand.Intn(50000)),
	}
	for i := 0; i < logs; i++ {
		r.Logs = append(r.Logs, &core.Log{
			Address: Address(),
			Topics:  []string{Hash(), Hash()},
			Data:    Bytes(32),
		})
	}
	return r
}

// Block returns block with transactions sent to the given addresses.
func Block(number uint64, to ...string) *core.Block {
	b := &core.Block{
		Number: number,
		Hash:   Hash(),
		Time:   uint64(time.Now().Unix()),
	}
	for i := range to {
		a := to[i]
		b.Transactions = append(b.Transactions, Transaction(&a))
	}
	return b
}
