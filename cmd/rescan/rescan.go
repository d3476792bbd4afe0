package rescan

import (
	"strings"

	"github.com/allisson/go-env"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/tonindexer/txmon/addr"
	"github.com/tonindexer/txmon/internal/app"
	"github.com/tonindexer/txmon/internal/app/fetcher"
	"github.com/tonindexer/txmon/internal/app/processor"
	"github.com/tonindexer/txmon/internal/app/publisher"
	"github.com/tonindexer/txmon/internal/app/rescan"
	"github.com/tonindexer/txmon/internal/core/repository"
	"github.com/tonindexer/txmon/internal/core/repository/event"
)

var Command = &cli.Command{
	Name:  "rescan",
	Usage: "Processes a range of past blocks again, recording missed transactions",
	Flags: []cli.Flag{
		&cli.Uint64Flag{Name: "from", Required: true},
		&cli.Uint64Flag{Name: "to", Required: true},
		&cli.BoolFlag{Name: "publish", Usage: "notify about recorded transactions"},
	},

	Action: func(ctx *cli.Context) error {
		accounts, err := addr.ParseSet(env.GetString("MONITORED_ACCOUNTS", ""))
		if err != nil {
			return errors.Wrap(err, "MONITORED_ACCOUNTS")
		}

		conn, err := repository.ConnectDB(ctx.Context, env.GetString("DB_CH_URL", ""), env.GetString("DB_PG_URL", ""))
		if err != nil {
			return errors.Wrap(err, "cannot connect to a database")
		}
		defer conn.Close()

		client, err := ethclient.DialContext(ctx.Context, env.GetString("ETH_RPC_URL", ""))
		if err != nil {
			return errors.Wrap(err, "cannot connect to the node")
		}
		defer client.Close()

		chainID, err := client.ChainID(ctx.Context)
		if err != nil {
			return errors.Wrap(err, "get chain id")
		}

		f := fetcher.NewService(&app.FetcherConfig{
			Client:    client,
			ChainID:   chainID,
			RateLimit: float64(env.GetInt("RPC_RATE_LIMIT", 0)),
		})

		var pub app.PublisherService = publisher.Nop{}
		if ctx.Bool("publish") {
			pub, err = publisher.NewService(&publisher.Config{
				Kind:         env.GetString("PUBLISHER", ""),
				RedisURL:     env.GetString("REDIS_URL", "redis://localhost:6379/0"),
				RedisStream:  env.GetString("REDIS_STREAM", publisher.DefaultStream),
				KafkaBrokers: strings.Split(env.GetString("KAFKA_BROKERS", ""), ","),
				KafkaTopic:   env.GetString("KAFKA_TOPIC", publisher.DefaultTopic),
			})
			if err != nil {
				return errors.Wrap(err, "new publisher")
			}
		}
		defer func() {
			if err := pub.Close(); err != nil {
				log.Error().Err(err).Msg("close publisher")
			}
		}()

		s := rescan.NewService(&app.RescanConfig{
			Fetcher:   f,
			Processor: processor.NewService(&app.ProcessorConfig{Accounts: accounts, Fetcher: f}),
			Publisher: pub,
			EventRepo: event.NewRepository(conn.CH, conn.PG),
		})

		res, err := s.Rescan(ctx.Context, ctx.Uint64("from"), ctx.Uint64("to"))
		if err != nil {
			if res != nil {
				log.Warn().Int("blocks", res.Blocks).Int("inserted", res.Inserted).Msg("rescan interrupted")
			}
			return err
		}

		return nil
	},
}
