package query

import (
	"fmt"

	"github.com/allisson/go-env"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/tonindexer/txmon/internal/app"
	"github.com/tonindexer/txmon/internal/app/query"
	"github.com/tonindexer/txmon/internal/core/filter"
	"github.com/tonindexer/txmon/internal/core/repository"
	"github.com/tonindexer/txmon/internal/core/repository/event"
)

var Command = &cli.Command{
	Name:  "query",
	Usage: "Reads recorded data from the database",

	Subcommands: []*cli.Command{
		{
			Name:  "events",
			Usage: "Prints recorded transactions, newest first",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "offset", Value: 0},
				&cli.IntFlag{Name: "limit", Value: 10},
				&cli.StringFlag{Name: "to", Usage: "monitored account"},
				&cli.StringFlag{Name: "function", Usage: "function identifier"},
			},
			Action: func(c *cli.Context) error {
				chURL := env.GetString("DB_CH_URL", "")
				pgURL := env.GetString("DB_PG_URL", "")

				conn, err := repository.ConnectDB(c.Context, chURL, pgURL)
				if err != nil {
					return errors.Wrap(err, "cannot connect to a database")
				}
				defer conn.Close()

				qs, err := query.NewService(c.Context, &app.QueryConfig{
					EventRepo: event.NewRepository(conn.CH, conn.PG),
				})
				if err != nil {
					return err
				}

				res, err := qs.FilterEvents(c.Context, &filter.EventsReq{
					To:         c.String("to"),
					FunctionID: c.String("function"),
					Offset:     c.Int("offset"),
					Limit:      c.Int("limit"),
				})
				if err != nil {
					return err
				}

				raw, err := json.MarshalIndent(res, "", "  ")
				if err != nil {
					return errors.Wrap(err, "marshal events")
				}
				fmt.Println(string(raw))

				return nil
			},
		},
	},
}
