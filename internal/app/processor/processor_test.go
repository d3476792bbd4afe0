package processor_test

import (
	"context"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonindexer/txmon/abi"
	"github.com/tonindexer/txmon/addr"
	"github.com/tonindexer/txmon/internal/app"
	"github.com/tonindexer/txmon/internal/app/processor"
	"github.com/tonindexer/txmon/internal/core"
	"github.com/tonindexer/txmon/internal/core/rndm"
)

type mockFetcher struct {
	receipts map[string]*core.Receipt
	failed   map[string]bool
	calls    int

	noDeadline int
}

var _ app.FetcherService = (*mockFetcher)(nil)

func (m *mockFetcher) CurrentHeight(context.Context) (uint64, error) {
	return 0, errors.New("not implemented")
}

func (m *mockFetcher) Block(context.Context, uint64) (*core.Block, error) {
	return nil, errors.New("not implemented")
}

func (m *mockFetcher) TransactionReceipt(ctx context.Context, txHash string) (*core.Receipt, error) {
	m.calls++
	if _, ok := ctx.Deadline(); !ok {
		m.noDeadline++
	}
	if m.failed[txHash] {
		return nil, errors.New("node timeout")
	}
	r, ok := m.receipts[txHash]
	if !ok {
		return &core.Receipt{TxHash: txHash, GasUsed: 21000}, nil
	}
	return r, nil
}

func newService(t *testing.T, f app.FetcherService, accounts ...string) *processor.Service {
	set, err := addr.NewSet(accounts)
	require.Nil(t, err)
	return processor.NewService(&app.ProcessorConfig{Accounts: set, Fetcher: f})
}

func TestFormatValue(t *testing.T) {
	var testCases = []struct {
		wei string
		out string
	}{
		{wei: "1000000000000000000", out: "1"},
		{wei: "500000000000000000", out: "0.5"},
		{wei: "0", out: "0"},
		{wei: "1", out: "0.000000000000000001"},
		{wei: "123456789000000000000", out: "123.456789"},
		{wei: "115792089237316195423570985008687907853269984665640564039457584007913129639935", out: "115792089237316195423570985008687907853269984665640564039457.584007913129639935"},
	}

	for _, c := range testCases {
		wei, ok := new(big.Int).SetString(c.wei, 10)
		require.True(t, ok)
		assert.Equal(t, c.out, processor.FormatValue(wei), c.wei)
	}

	assert.Equal(t, "0", processor.FormatValue(nil))
}

func TestService_ProcessBlock_NotMonitored(t *testing.T) {
	f := &mockFetcher{}
	s := newService(t, f, rndm.Address())

	b := rndm.Block(10, rndm.Address(), rndm.Address())
	b.Transactions = append(b.Transactions, rndm.Transaction(nil)) // contract creation

	events, err := s.ProcessBlock(context.Background(), b)
	assert.Nil(t, err)
	assert.Len(t, events, 0)
	assert.Equal(t, 0, f.calls)
}

func TestService_ProcessBlock_MixedCaseScenario(t *testing.T) {
	monitored := rndm.Address()
	f := &mockFetcher{}
	s := newService(t, f, monitored)

	b := rndm.Block(100, "0x"+strings.ToUpper(monitored[2:]))
	b.Transactions[0].Value, _ = new(big.Int).SetString("500000000000000000", 10)
	b.Transactions[0].Receipt = &core.Receipt{TxHash: b.Transactions[0].Hash, GasUsed: 30000}

	events, err := s.ProcessBlock(context.Background(), b)
	require.Nil(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, b.Transactions[0].Hash, ev.TxHash)
	assert.Equal(t, monitored, ev.To)
	assert.Equal(t, "0.5", ev.Value)
	assert.Equal(t, "500000000000000000", ev.ValueWei.String())
	assert.Equal(t, abi.UnknownFunction, ev.FunctionID)
	assert.Equal(t, uint64(100), ev.BlockNumber)
	assert.Equal(t, uint64(30000), ev.GasUsed)
	assert.Equal(t, time.Unix(int64(b.Time), 0).UTC(), ev.ObservedAt)

	// embedded receipt is used
	assert.Equal(t, 0, f.calls)
}

func TestService_ProcessBlock_FunctionID(t *testing.T) {
	monitored := rndm.Address()
	other := rndm.Address()

	b := rndm.Block(7, monitored, other, monitored)
	first, third := b.Transactions[0], b.Transactions[2]

	f := &mockFetcher{receipts: map[string]*core.Receipt{
		first.Hash: rndm.Receipt(first.Hash, 2),
		third.Hash: rndm.Receipt(third.Hash, 0),
	}}
	s := newService(t, f, monitored)

	events, err := s.ProcessBlock(context.Background(), b)
	require.Nil(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, first.Hash, events[0].TxHash)
	assert.Equal(t, f.receipts[first.Hash].Logs[0].Topics[0], events[0].FunctionID)

	assert.Equal(t, third.Hash, events[1].TxHash)
	assert.Equal(t, abi.UnknownFunction, events[1].FunctionID)

	assert.Equal(t, 2, f.calls)
}

func TestService_ProcessBlock_TransactionFailure(t *testing.T) {
	monitored := rndm.Address()

	b := rndm.Block(8, monitored, monitored, monitored)
	broken := b.Transactions[1]

	f := &mockFetcher{failed: map[string]bool{broken.Hash: true}}
	s := newService(t, f, monitored)

	events, err := s.ProcessBlock(context.Background(), b)
	require.Nil(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, b.Transactions[0].Hash, events[0].TxHash)
	assert.Equal(t, b.Transactions[2].Hash, events[1].TxHash)
}

func TestService_ProcessBlock_Nil(t *testing.T) {
	s := newService(t, &mockFetcher{}, rndm.Address())

	_, err := s.ProcessBlock(context.Background(), nil)
	assert.ErrorIs(t, err, core.ErrInvalidArg)
}

func TestService_ProcessBlock_ReceiptDeadline(t *testing.T) {
	monitored := rndm.Address()
	f := &mockFetcher{}

	set, err := addr.NewSet([]string{monitored})
	require.Nil(t, err)
	s := processor.NewService(&app.ProcessorConfig{Accounts: set, Fetcher: f, RequestTimeout: time.Second})

	events, err := s.ProcessBlock(context.Background(), rndm.Block(3, monitored, monitored))
	require.Nil(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, 2, f.calls)
	assert.Equal(t, 0, f.noDeadline)
}
