package web

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/allisson/go-env"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/tonindexer/txmon/internal/api/http"
	"github.com/tonindexer/txmon/internal/app"
	"github.com/tonindexer/txmon/internal/app/query"
	"github.com/tonindexer/txmon/internal/core/repository"
	"github.com/tonindexer/txmon/internal/core/repository/event"
)

var Command = &cli.Command{
	Name:  "web",
	Usage: "HTTP JSON API",

	Action: func(ctx *cli.Context) error {
		chURL := env.GetString("DB_CH_URL", "")
		pgURL := env.GetString("DB_PG_URL", "")

		conn, err := repository.ConnectDB(ctx.Context, chURL, pgURL)
		if err != nil {
			return errors.Wrap(err, "cannot connect to a database")
		}
		defer conn.Close()

		qs, err := query.NewService(ctx.Context, &app.QueryConfig{
			EventRepo: event.NewRepository(conn.CH, conn.PG),
		})
		if err != nil {
			return err
		}

		if !env.GetBool("DEBUG_LOGS", false) {
			gin.SetMode(gin.ReleaseMode)
		}

		srv := http.NewServer(
			env.GetString("LISTEN", "0.0.0.0:5000"),
		)
		srv.RegisterRoutes(http.NewController(qs))

		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-c
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("http server shutdown")
			}
		}()

		return srv.Run()
	},
}
