package fetcher

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonindexer/txmon/internal/app"
	"github.com/tonindexer/txmon/internal/core"
)

var chainID = big.NewInt(11155111)

type mockClient struct {
	height   uint64
	err      error
	blocks   map[uint64]*types.Block
	receipts map[common.Hash]*types.Receipt

	receiptCalls int
}

var _ app.EthClient = (*mockClient)(nil)

func (m *mockClient) ChainID(context.Context) (*big.Int, error) {
	return chainID, nil
}

func (m *mockClient) BlockNumber(context.Context) (uint64, error) {
	return m.height, m.err
}

func (m *mockClient) BlockByNumber(_ context.Context, number *big.Int) (*types.Block, error) {
	if m.err != nil {
		return nil, m.err
	}
	b, ok := m.blocks[number.Uint64()]
	if !ok {
		return nil, ethereum.NotFound
	}
	return b, nil
}

func (m *mockClient) TransactionReceipt(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
	m.receiptCalls++
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return r, nil
}

func signedTx(t *testing.T, nonce uint64, to *common.Address, value *big.Int) (*types.Transaction, common.Address) {
	key, err := crypto.GenerateKey()
	require.Nil(t, err)

	tx, err := types.SignNewTx(key, types.LatestSignerForChainID(chainID), &types.LegacyTx{
		Nonce:    nonce,
		To:       to,
		Value:    value,
		Gas:      52000,
		GasPrice: big.NewInt(1e9),
	})
	require.Nil(t, err)

	return tx, crypto.PubkeyToAddress(key.PublicKey)
}

func TestService_Block(t *testing.T) {
	ctx := context.Background()

	to := common.HexToAddress("0x510848bE71Eac101a4Eb871C6436178e52210646")
	transfer, sender := signedTx(t, 0, &to, big.NewInt(5e17))
	deploy, _ := signedTx(t, 1, nil, big.NewInt(0))

	header := &types.Header{Number: big.NewInt(100), Time: 1700000000}
	block := types.NewBlockWithHeader(header).WithBody(types.Body{Transactions: []*types.Transaction{transfer, deploy}})

	m := &mockClient{height: 100, blocks: map[uint64]*types.Block{100: block}}
	s := NewService(&app.FetcherConfig{Client: m, ChainID: chainID})

	h, err := s.CurrentHeight(ctx)
	assert.Nil(t, err)
	assert.Equal(t, uint64(100), h)

	got, err := s.Block(ctx, 100)
	require.Nil(t, err)
	assert.Equal(t, uint64(100), got.Number)
	assert.Equal(t, uint64(1700000000), got.Time)
	assert.Equal(t, block.Hash().Hex(), got.Hash)
	require.Len(t, got.Transactions, 2)

	tx := got.Transactions[0]
	assert.Equal(t, transfer.Hash().Hex(), tx.Hash)
	assert.Equal(t, sender.Hex(), tx.From)
	require.NotNil(t, tx.To)
	assert.Equal(t, to.Hex(), *tx.To)
	assert.Equal(t, "500000000000000000", tx.Value.String())
	assert.Equal(t, uint64(52000), tx.Gas)

	assert.Nil(t, got.Transactions[1].To)

	_, err = s.Block(ctx, 101)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestService_Errors(t *testing.T) {
	ctx := context.Background()

	m := &mockClient{err: errors.New("connection refused")}
	s := NewService(&app.FetcherConfig{Client: m, ChainID: chainID, RateLimit: 1000})

	_, err := s.CurrentHeight(ctx)
	assert.Error(t, err)

	_, err = s.Block(ctx, 1)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, core.ErrNotFound))

	_, err = s.TransactionReceipt(ctx, common.Hash{}.Hex())
	assert.Error(t, err)
}

func TestService_TransactionReceipt(t *testing.T) {
	ctx := context.Background()

	txHash := common.HexToHash("0x01")
	topic := common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef")
	contract := common.HexToAddress("0x9371E44CBD6924703F7Dd2AB812BF513992b1802")

	m := &mockClient{receipts: map[common.Hash]*types.Receipt{
		txHash: {
			TxHash:  txHash,
			GasUsed: 48000,
			Logs: []*types.Log{
				{Address: contract, Topics: []common.Hash{topic, common.HexToHash("0x02")}, Data: []byte{1}},
			},
		},
	}}
	s := NewService(&app.FetcherConfig{Client: m, ChainID: chainID, ReceiptCacheSize: 8})

	r, err := s.TransactionReceipt(ctx, txHash.Hex())
	require.Nil(t, err)
	assert.Equal(t, txHash.Hex(), r.TxHash)
	assert.Equal(t, uint64(48000), r.GasUsed)
	require.Len(t, r.Logs, 1)
	assert.Equal(t, contract.Hex(), r.Logs[0].Address)
	assert.Equal(t, []string{topic.Hex(), common.HexToHash("0x02").Hex()}, r.Logs[0].Topics)

	// cached
	_, err = s.TransactionReceipt(ctx, txHash.Hex())
	require.Nil(t, err)
	assert.Equal(t, 1, m.receiptCalls)

	_, err = s.TransactionReceipt(ctx, common.HexToHash("0x03").Hex())
	assert.ErrorIs(t, err, core.ErrNotFound)
}
