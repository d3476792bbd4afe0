package indexer

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/allisson/go-env"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/tonindexer/txmon/addr"
	"github.com/tonindexer/txmon/internal/app"
	"github.com/tonindexer/txmon/internal/app/fetcher"
	"github.com/tonindexer/txmon/internal/app/indexer"
	"github.com/tonindexer/txmon/internal/app/processor"
	"github.com/tonindexer/txmon/internal/app/publisher"
	"github.com/tonindexer/txmon/internal/core/repository"
	"github.com/tonindexer/txmon/internal/core/repository/cursor"
	"github.com/tonindexer/txmon/internal/core/repository/event"
)

func splitList(s string) (ret []string) {
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			ret = append(ret, item)
		}
	}
	return ret
}

func millis(key string, def int) time.Duration {
	return time.Duration(env.GetInt64(key, int64(def))) * time.Millisecond
}

func serveMetrics(listen string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("listen", listen).Msg("metrics server")
		}
	}()

	return srv
}

var Command = &cli.Command{
	Name:    "indexer",
	Aliases: []string{"idx"},
	Usage:   "Scans new blocks for transactions sent to monitored accounts",

	Action: func(ctx *cli.Context) error {
		accounts, err := addr.ParseSet(env.GetString("MONITORED_ACCOUNTS", ""))
		if err != nil {
			return errors.Wrap(err, "MONITORED_ACCOUNTS")
		}

		rpcURL := env.GetString("ETH_RPC_URL", "")
		if rpcURL == "" {
			return errors.New("ETH_RPC_URL is not set")
		}

		fromBlock := env.GetInt64("FROM_BLOCK", 0)
		if fromBlock < 0 {
			return errors.Errorf("wrong FROM_BLOCK %d", fromBlock)
		}

		requestTimeout := millis("REQUEST_TIMEOUT_MS", 30000)

		chURL := env.GetString("DB_CH_URL", "")
		pgURL := env.GetString("DB_PG_URL", "")

		conn, err := repository.ConnectDB(ctx.Context, chURL, pgURL)
		if err != nil {
			return errors.Wrap(err, "cannot connect to a database")
		}
		defer conn.Close()

		client, err := ethclient.DialContext(ctx.Context, rpcURL)
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

		p := processor.NewService(&app.ProcessorConfig{
			Accounts:       accounts,
			Fetcher:        f,
			RequestTimeout: requestTimeout,
		})

		pub, err := publisher.NewService(&publisher.Config{
			Kind:         env.GetString("PUBLISHER", ""),
			RedisURL:     env.GetString("REDIS_URL", "redis://localhost:6379/0"),
			RedisStream:  env.GetString("REDIS_STREAM", publisher.DefaultStream),
			KafkaBrokers: splitList(env.GetString("KAFKA_BROKERS", "")),
			KafkaTopic:   env.GetString("KAFKA_TOPIC", publisher.DefaultTopic),
		})
		if err != nil {
			return errors.Wrap(err, "new publisher")
		}
		defer func() {
			if err := pub.Close(); err != nil {
				log.Error().Err(err).Msg("close publisher")
			}
		}()

		i := indexer.NewService(&app.IndexerConfig{
			Fetcher:          f,
			Processor:        p,
			Publisher:        pub,
			EventRepo:        event.NewRepository(conn.CH, conn.PG),
			CursorRepo:       cursor.NewRepository(conn.PG),
			CursorID:         env.GetString("CURSOR_ID", indexer.DefaultCursorID),
			FromBlock:        uint64(fromBlock),
			PollInterval:     millis("POLL_INTERVAL_MS", 10000),
			MaxBlocksPerTick: env.GetInt("MAX_BLOCKS_PER_TICK", indexer.DefaultMaxBlocksPerTick),
			RequestTimeout:   requestTimeout,
		})
		if err = i.Start(); err != nil {
			return err
		}

		log.Info().
			Str("chain_id", chainID.String()).
			Strs("accounts", accounts.Slice()).
			Msg("monitoring")

		var metricsSrv *http.Server
		if listen := env.GetString("METRICS_LISTEN", ""); listen != "" {
			metricsSrv = serveMetrics(listen)
		}

		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		<-c

		i.Stop()

		if metricsSrv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("metrics server shutdown")
			}
		}

		return nil
	},
}
