package event

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/tonindexer/txmon/internal/core"
	"github.com/tonindexer/txmon/internal/core/filter"
)

const (
	newestFirst = `ORDER BY "observed_at" DESC, "block_number" DESC, "tx_hash" ASC`
	oldestFirst = `ORDER BY "observed_at" ASC, "block_number" ASC, "tx_hash" ASC`
)

// queries are only rendered, no connection is made
func newQueryRepo() *Repository {
	return &Repository{pg: bun.NewDB(sql.OpenDB(pgdriver.NewConnector()), pgdialect.New())}
}

func TestRepository_getEventsQuery(t *testing.T) {
	r := newQueryRepo()

	var ret []*core.TransactionEvent

	q := r.getEventsQuery(&ret, 0, 0).String()
	assert.Contains(t, q, `FROM "transaction_events"`)
	assert.Contains(t, q, newestFirst)
	assert.NotContains(t, q, "LIMIT")
	assert.NotContains(t, q, "OFFSET")

	q = r.getEventsQuery(&ret, 5, 10).String()
	assert.Contains(t, q, newestFirst+" LIMIT 10 OFFSET 5")
}

func TestEventsOrder(t *testing.T) {
	var testCases = []struct {
		order string
		want  string
	}{
		{order: "", want: newestFirst},
		{order: "desc", want: newestFirst},
		{order: "DESC", want: newestFirst},
		{order: "asc", want: oldestFirst},
		{order: "ASC", want: oldestFirst},
	}

	r := newQueryRepo()

	for _, c := range testCases {
		var ret []*core.TransactionEvent
		q := eventsOrder(eventsFilter(r.pg.NewSelect().Model(&ret), &filter.EventsReq{}), c.order)
		assert.Contains(t, q.String(), c.want, c.order)
	}
}
