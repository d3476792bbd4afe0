package db

import (
	"context"
	"strings"
	"time"

	"github.com/allisson/go-env"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun/migrate"
	"github.com/uptrace/go-clickhouse/chmigrate"
	"github.com/urfave/cli/v2"

	"github.com/tonindexer/txmon/internal/core/repository"
	"github.com/tonindexer/txmon/migrations/ch"
	"github.com/tonindexer/txmon/migrations/pg"
)

// migrators holds postgres migrator and an optional clickhouse one.
type migrators struct {
	conn *repository.DB
	pg   *migrate.Migrator
	ch   *chmigrate.Migrator
}

func newMigrators() (*migrators, error) {
	chURL := env.GetString("DB_CH_URL", "")
	pgURL := env.GetString("DB_PG_URL", "")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := repository.ConnectDB(ctx, chURL, pgURL)
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to the databases")
	}

	m := &migrators{conn: conn}
	m.pg = migrate.NewMigrator(conn.PG, pgmigrations.Migrations)
	if conn.CH != nil {
		m.ch = chmigrate.NewMigrator(conn.CH, chmigrations.Migrations)
	}

	return m, nil
}

func (m *migrators) close() {
	m.conn.Close()
}

func pgUnlock(ctx context.Context, m *migrate.Migrator) {
	if err := m.Unlock(ctx); err != nil {
		log.Error().Err(err).Msg("cannot unlock pg")
	}
}

func chUnlock(ctx context.Context, m *chmigrate.Migrator) {
	if err := m.Unlock(ctx); err != nil {
		log.Error().Err(err).Msg("cannot unlock ch")
	}
}

func withMigrators(f func(c *cli.Context, m *migrators) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		m, err := newMigrators()
		if err != nil {
			return err
		}
		defer m.close()

		return f(c, m)
	}
}

func migrateUp(ctx context.Context, m *migrators) error {
	if err := m.pg.Lock(ctx); err != nil {
		return err
	}
	defer pgUnlock(ctx, m.pg)

	pgGroup, err := m.pg.Migrate(ctx)
	if err != nil {
		return err
	}
	if pgGroup.IsZero() {
		log.Info().Msg("there are no new migrations to run (pg database is up to date)")
	} else {
		log.Info().Str("group", pgGroup.String()).Msg("pg migrated")
	}

	if m.ch == nil {
		return nil
	}

	if err := m.ch.Lock(ctx); err != nil {
		return err
	}
	defer chUnlock(ctx, m.ch)

	chGroup, err := m.ch.Migrate(ctx)
	if err != nil {
		return err
	}
	if chGroup.IsZero() {
		log.Info().Msg("there are no new migrations to run (ch database is up to date)")
	} else {
		log.Info().Str("group", chGroup.String()).Msg("ch migrated")
	}

	return nil
}

func migrateDown(ctx context.Context, m *migrators) error {
	if err := m.pg.Lock(ctx); err != nil {
		return err
	}
	defer pgUnlock(ctx, m.pg)

	pgGroup, err := m.pg.Rollback(ctx)
	if err != nil {
		return err
	}
	if pgGroup.IsZero() {
		log.Info().Msg("there are no pg groups to roll back")
	} else {
		log.Info().Str("group", pgGroup.String()).Msg("pg rolled back")
	}

	if m.ch == nil {
		return nil
	}

	if err := m.ch.Lock(ctx); err != nil {
		return err
	}
	defer chUnlock(ctx, m.ch)

	chGroup, err := m.ch.Rollback(ctx)
	if err != nil {
		return err
	}
	if chGroup.IsZero() {
		log.Info().Msg("there are no ch groups to roll back")
	} else {
		log.Info().Str("group", chGroup.String()).Msg("ch rolled back")
	}

	return nil
}

var Command = &cli.Command{
	Name:  "migrate",
	Usage: "Migrates database",

	Subcommands: []*cli.Command{
		{
			Name:  "init",
			Usage: "Creates migration tables",
			Action: withMigrators(func(c *cli.Context, m *migrators) error {
				if err := m.pg.Init(c.Context); err != nil {
					return err
				}
				if m.ch != nil {
					return m.ch.Init(c.Context)
				}
				return nil
			}),
		},
		{
			Name:  "create",
			Usage: "Creates up and down SQL migrations",
			Action: withMigrators(func(c *cli.Context, m *migrators) error {
				name := strings.Join(c.Args().Slice(), "_")

				pgFiles, err := m.pg.CreateSQLMigrations(c.Context, name)
				if err != nil {
					return err
				}
				for _, mf := range pgFiles {
					log.Info().Str("name", mf.Name).Str("path", mf.Path).Msg("created pg migration")
				}

				if m.ch == nil {
					return nil
				}

				chFiles, err := m.ch.CreateSQLMigrations(c.Context, name)
				if err != nil {
					return err
				}
				for _, mf := range chFiles {
					log.Info().Str("name", mf.Name).Str("path", mf.Path).Msg("created ch migration")
				}

				return nil
			}),
		},
		{
			Name:  "up",
			Usage: "Migrates database",
			Action: withMigrators(func(c *cli.Context, m *migrators) error {
				return migrateUp(c.Context, m)
			}),
		},
		{
			Name:  "down",
			Usage: "Rollbacks the last migration group",
			Action: withMigrators(func(c *cli.Context, m *migrators) error {
				return migrateDown(c.Context, m)
			}),
		},
		{
			Name:  "status",
			Usage: "Prints migrations status",
			Action: withMigrators(func(c *cli.Context, m *migrators) error {
				spg, err := m.pg.MigrationsWithStatus(c.Context)
				if err != nil {
					return err
				}
				log.Info().Str("slice", spg.String()).Msg("pg all")
				log.Info().Str("slice", spg.Unapplied().String()).Msg("pg unapplied")
				log.Info().Str("group", spg.LastGroup().String()).Msg("pg last migration")

				if m.ch == nil {
					return nil
				}

				sch, err := m.ch.MigrationsWithStatus(c.Context)
				if err != nil {
					return err
				}
				log.Info().Str("slice", sch.String()).Msg("ch all")
				log.Info().Str("slice", sch.Unapplied().String()).Msg("ch unapplied")
				log.Info().Str("group", sch.LastGroup().String()).Msg("ch last migration")

				return nil
			}),
		},
		{
			Name:  "lock",
			Usage: "Locks migrations",
			Action: withMigrators(func(c *cli.Context, m *migrators) error {
				if err := m.pg.Lock(c.Context); err != nil {
					return err
				}
				if m.ch != nil {
					return m.ch.Lock(c.Context)
				}
				return nil
			}),
		},
		{
			Name:  "unlock",
			Usage: "Unlocks migrations",
			Action: withMigrators(func(c *cli.Context, m *migrators) error {
				if err := m.pg.Unlock(c.Context); err != nil {
					return err
				}
				if m.ch != nil {
					return m.ch.Unlock(c.Context)
				}
				return nil
			}),
		},
		{
			Name:  "mark_applied",
			Usage: "Marks migrations as applied without actually running them",
			Action: withMigrators(func(c *cli.Context, m *migrators) error {
				pgGroup, err := m.pg.Migrate(c.Context, migrate.WithNopMigration())
				if err != nil {
					return err
				}
				if pgGroup.IsZero() {
					log.Info().Msg("there are no new pg migrations to mark as applied")
				} else {
					log.Info().Str("group", pgGroup.String()).Msg("pg marked as applied")
				}

				if m.ch == nil {
					return nil
				}

				chGroup, err := m.ch.Migrate(c.Context, chmigrate.WithNopMigration())
				if err != nil {
					return err
				}
				if chGroup.IsZero() {
					log.Info().Msg("there are no new ch migrations to mark as applied")
				} else {
					log.Info().Str("group", chGroup.String()).Msg("ch marked as applied")
				}

				return nil
			}),
		},
	},
}
