package pgmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/tonindexer/txmon/internal/core"
	"github.com/tonindexer/txmon/internal/core/repository/cursor"
	"github.com/tonindexer/txmon/internal/core/repository/event"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if err := event.CreateTables(ctx, nil, db); err != nil {
			return err
		}
		if err := cursor.CreateTables(ctx, db); err != nil {
			return err
		}
		fmt.Println(" [up migration] transaction_events, monitor_cursor")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		for _, m := range []any{(*core.Cursor)(nil), (*core.TransactionEvent)(nil)} {
			if _, err := db.NewDropTable().Model(m).IfExists().Exec(ctx); err != nil {
				return err
			}
		}
		fmt.Println(" [down migration] transaction_events, monitor_cursor")
		return nil
	})
}
