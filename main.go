package main

import (
	"fmt"
	"os"

	"github.com/allisson/go-env"
	"github.com/urfave/cli/v2"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tonindexer/txmon/cmd/db"
	"github.com/tonindexer/txmon/cmd/indexer"
	"github.com/tonindexer/txmon/cmd/query"
	"github.com/tonindexer/txmon/cmd/rescan"
	"github.com/tonindexer/txmon/cmd/web"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if env.GetBool("DEBUG_LOGS", false) {
		level = zerolog.DebugLevel
	}

	// add file and line number to log
	log.Logger = log.With().Caller().Logger().Level(level)
}

func main() {
	app := &cli.App{
		Name:  "txmon",
		Usage: "monitors transactions sent to EVM accounts",
		Commands: []*cli.Command{
			db.Command,
			indexer.Command,
			web.Command,
			query.Command,
			rescan.Command,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
