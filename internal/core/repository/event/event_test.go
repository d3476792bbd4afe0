package event_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/allisson/go-env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/go-clickhouse/ch"

	"github.com/tonindexer/txmon/internal/core"
	"github.com/tonindexer/txmon/internal/core/filter"
	"github.com/tonindexer/txmon/internal/core/repository/event"
	"github.com/tonindexer/txmon/internal/core/rndm"
)

var (
	ck   *ch.DB
	pg   *bun.DB
	repo *event.Repository
)

func initdb(t testing.TB) {
	dsnPG := env.GetString("TEST_DB_PG_URL", "")
	if dsnPG == "" {
		t.Skip("TEST_DB_PG_URL is not set")
	}
	dsnCH := env.GetString("TEST_DB_CH_URL", "")

	ctx := context.Background()

	if dsnCH != "" {
		ck = ch.Connect(ch.WithDSN(dsnCH), ch.WithAutoCreateDatabase(true), ch.WithPoolSize(16))
		require.Nil(t, ck.Ping(ctx))
	}

	pg = bun.NewDB(sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsnPG))), pgdialect.New())
	require.Nil(t, pg.Ping())

	repo = event.NewRepository(ck, pg)
}

func createTables(t testing.TB) {
	err := event.CreateTables(context.Background(), ck, pg)
	assert.Nil(t, err)
}

func dropTables(t testing.TB) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if ck != nil {
		_, err := ck.NewDropTable().Model((*core.TransactionEvent)(nil)).IfExists().Exec(ctx)
		assert.Nil(t, err)
	}
	_, err := pg.NewDropTable().Model((*core.TransactionEvent)(nil)).IfExists().Exec(ctx)
	assert.Nil(t, err)
}

func TestRepository_AddEvent(t *testing.T) {
	initdb(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	to := rndm.Address()
	events := rndm.Events(to, 5)

	t.Run("drop tables", func(t *testing.T) {
		dropTables(t)
	})

	t.Run("create tables", func(t *testing.T) {
		createTables(t)
	})

	t.Run("add events", func(t *testing.T) {
		for _, e := range events {
			inserted, err := repo.AddEvent(ctx, e)
			assert.Nil(t, err)
			assert.True(t, inserted)
		}
	})

	t.Run("add duplicate event", func(t *testing.T) {
		dup := *events[0]
		dup.Value = "42"

		inserted, err := repo.AddEvent(ctx, &dup)
		assert.Nil(t, err)
		assert.False(t, inserted)

		count, err := pg.NewSelect().Model((*core.TransactionEvent)(nil)).Count(ctx)
		assert.Nil(t, err)
		assert.Equal(t, len(events), count)

		got := new(core.TransactionEvent)
		err = pg.NewSelect().Model(got).Where("tx_hash = ?", events[0].TxHash).Scan(ctx)
		assert.Nil(t, err)
		assert.Equal(t, events[0].Value, got.Value)
	})

	t.Run("add empty event", func(t *testing.T) {
		_, err := repo.AddEvent(ctx, &core.TransactionEvent{})
		assert.ErrorIs(t, err, core.ErrInvalidArg)
	})

	t.Run("get events newest first", func(t *testing.T) {
		got, err := repo.GetEvents(ctx, 0, 0)
		assert.Nil(t, err)
		assert.Len(t, got, len(events))
		for i := 1; i < len(got); i++ {
			assert.False(t, got[i].ObservedAt.After(got[i-1].ObservedAt))
		}
		assert.Equal(t, events[len(events)-1].TxHash, got[0].TxHash)
		assert.Equal(t, events[len(events)-1].ValueWei.String(), got[0].ValueWei.String())
	})

	t.Run("get events page", func(t *testing.T) {
		got, err := repo.GetEvents(ctx, 1, 2)
		assert.Nil(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, events[3].TxHash, got[0].TxHash)
		assert.Equal(t, events[2].TxHash, got[1].TxHash)
	})

	t.Run("filter events", func(t *testing.T) {
		res, err := repo.FilterEvents(ctx, &filter.EventsReq{To: rndm.MixedCaseAddress(to), Order: "ASC", Limit: 2})
		assert.Nil(t, err)
		assert.Equal(t, len(events), res.Total)
		assert.Len(t, res.Rows, 2)
		assert.Equal(t, events[0].TxHash, res.Rows[0].TxHash)

		res, err = repo.FilterEvents(ctx, &filter.EventsReq{To: rndm.Address()})
		assert.Nil(t, err)
		assert.Equal(t, 0, res.Total)
		assert.Len(t, res.Rows, 0)

		_, err = repo.FilterEvents(ctx, &filter.EventsReq{Order: "sideways"})
		assert.ErrorIs(t, err, core.ErrInvalidArg)
	})

	t.Run("drop tables again", func(t *testing.T) {
		dropTables(t)
	})
}
