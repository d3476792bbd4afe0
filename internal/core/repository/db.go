package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/go-clickhouse/ch"
)

type DB struct {
	CH *ch.DB // optional mirror, nil when not configured
	PG *bun.DB
}

func (db *DB) Close() {
	if db.CH != nil {
		_ = db.CH.Close()
	}
	_ = db.PG.Close()
}

// ConnectDB connects to postgres and, if dsnCH is not empty, to clickhouse.
func ConnectDB(ctx context.Context, dsnCH, dsnPG string, opts ...ch.Option) (*DB, error) {
	var (
		chDB *ch.DB
		err  error
	)

	if dsnPG == "" {
		return nil, errors.New("empty postgres dsn")
	}

	if dsnCH != "" {
		opts = append(opts, ch.WithDSN(dsnCH), ch.WithAutoCreateDatabase(true), ch.WithPoolSize(16))
		chDB = ch.Connect(opts...)

		for i := 0; i < 8; i++ { // wait for ch start
			err = chDB.Ping(ctx)
			if err == nil {
				break
			}
			time.Sleep(2 * time.Second)
		}
		if err != nil {
			return nil, errors.Wrap(err, "cannot ping ch")
		}
	}

	sqlDB := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsnPG), pgdriver.WithWriteTimeout(time.Minute)))
	pgDB := bun.NewDB(sqlDB, pgdialect.New())

	for i := 0; i < 8; i++ { // wait for pg start
		err = pgDB.PingContext(ctx)
		if err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		if chDB != nil {
			_ = chDB.Close()
		}
		return nil, errors.Wrap(err, "cannot ping pg")
	}

	return &DB{CH: chDB, PG: pgDB}, nil
}
