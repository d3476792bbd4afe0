package chmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/go-clickhouse/ch"

	"github.com/tonindexer/txmon/internal/core"
	"github.com/tonindexer/txmon/internal/core/repository/event"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *ch.DB) error {
		if err := event.CreateTables(ctx, db, nil); err != nil {
			return err
		}
		fmt.Println(" [up migration] transaction_events")
		return nil
	}, func(ctx context.Context, db *ch.DB) error {
		_, err := db.NewDropTable().Model((*core.TransactionEvent)(nil)).IfExists().Exec(ctx)
		if err != nil {
			return err
		}
		fmt.Println(" [down migration] transaction_events")
		return nil
	})
}
