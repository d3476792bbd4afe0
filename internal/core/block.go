package core

import "math/big"

// Block is a read-only projection of one ledger block.
// It is owned by a single processing call and discarded afterwards.
type Block struct {
	Number uint64
	Hash   string
	Time   uint64 // seconds since epoch

	Transactions []*Transaction
}

type Transaction struct {
	Hash  string
	From  string
	To    *string // nil for contract creation
	Value *big.Int
	Gas   uint64

	Receipt *Receipt // may be nil, fetched on demand
}

type Receipt struct {
	TxHash  string
	GasUsed uint64
	Logs    []*Log
}

type Log struct {
	Address string
	Topics  []string
	Data    []byte
}
