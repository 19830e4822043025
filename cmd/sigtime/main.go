package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/AnatoleLucet/sigtime"
	"github.com/AnatoleLucet/sigtime/loop"
)

func main() {
	app := newApp()

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("sigtime failed")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "sigtime",
		Usage: "watch clock-driven signals",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (trace, debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"SIGTIME_LOG_LEVEL"},
			},
			&cli.DurationFlag{
				Name:    "duration",
				Usage:   "stop after this long, 0 runs until interrupted",
				EnvVars: []string{"SIGTIME_DURATION"},
			},
			&cli.StringFlag{
				Name:    "metrics-addr",
				Usage:   "serve prometheus metrics on this address",
				EnvVars: []string{"SIGTIME_METRICS_ADDR"},
			},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			fpsCmd,
			everyCmd,
			sinceCmd,
			parseCmd,
		},
	}
}

func setupLogging(cctx *cli.Context) error {
	level, err := zerolog.ParseLevel(cctx.String("log-level"))
	if err != nil {
		return err
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()

	return nil
}

// runLoop builds the graph with build, then serves the loop (and metrics)
// until interrupted or --duration elapses.
func runLoop(cctx *cli.Context, build func(c *sigtime.Clock) error) error {
	ctx, stop := signal.NotifyContext(cctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if d := cctx.Duration("duration"); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	l := loop.New(loop.WithLogger(log.Logger), loop.WithRegisterer(reg))
	defer l.Close()

	if err := build(sigtime.New(l)); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return l.Run(ctx)
	})

	if addr := cctx.String("metrics-addr"); addr != "" {
		srv := &http.Server{
			Addr:              addr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			log.Info().Str("addr", addr).Msg("serving metrics")
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			return srv.Shutdown(shutdownCtx)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}

	return err
}
