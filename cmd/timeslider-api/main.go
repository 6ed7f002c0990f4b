// Command timeslider-api serves one timeslider session over HTTP
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"timeslider/internal/core/version"
	"timeslider/internal/platform/config"
	"timeslider/internal/platform/logger"
	phttp "timeslider/internal/platform/net/http"
	"timeslider/internal/platform/sched"

	"timeslider/internal/services/api"
	tsmod "timeslider/internal/services/timeslider/module"
)

func main() {
	// service-scoped config for HTTP etc (TIMESLIDER_API_*); the session reads TIMESLIDER_*
	root := config.New()
	apiCfg := root.Prefix("TIMESLIDER_API_")

	// bring up logging early
	l := logger.Get()
	l.Info().Str("build", version.Info(api.ServiceName).String()).Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// every session callback runs on this loop
	var ts *tsmod.Module
	loop := sched.NewLoop(sched.LoopOptions{
		Logger: logger.Named("sched"),
		OnPanic: func(v any) {
			if ts != nil {
				ts.OnPanic(v)
			}
		},
	})

	// http server (reads TIMESLIDER_API_PORT / TIMESLIDER_API_SHUTDOWN_GRACE)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	ts, err := api.Mount(srv.Router(), api.Options{
		Config:         apiCfg,
		Root:           root,
		Logger:         l,
		Sched:          loop,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
		EnableMetrics:  apiCfg.MayBool("METRICS", true),
	})
	if err != nil {
		l.Fatal().Err(err).Msg("api mount failed")
	}
	watcher, err := ts.Watcher()
	if err != nil {
		l.Fatal().Err(err).Msg("style watcher failed")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop.Run(gctx) })
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error {
		// a shutdown that beats the first attach is not a failure
		if err := ts.Start(gctx); err != nil && gctx.Err() == nil {
			return err
		}
		return nil
	})
	if watcher != nil {
		g.Go(func() error { return watcher.Run(gctx) })
	}

	// run
	if err := g.Wait(); err != nil {
		l.Fatal().Err(err).Msg("timeslider-api stopped")
	}
	l.Info().Msg("timeslider-api stopped")
}
