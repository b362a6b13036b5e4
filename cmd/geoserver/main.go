// Command geoserver loads a gazetteer dataset once and serves lookups over
// HTTP.
//
// Configuration comes from the environment (see internal/config), e.g.:
//
//	DATASET_PATH=./RU.txt HTTP_ADDR=:8080 go run ./cmd/geoserver
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/andreiashu/gazetteer"
	"github.com/andreiashu/gazetteer/internal/config"
	"github.com/andreiashu/gazetteer/internal/httpapi"
	"github.com/andreiashu/gazetteer/internal/observability"
)

func main() {
	cfg := config.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	g, err := gazetteer.LoadFile(cfg.DatasetPath, gazetteer.WithLogger(log.Logger))
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatasetPath).Msg("dataset load failed")
	}
	reg := observability.InitRegistry()
	observability.DatasetRecords.Set(float64(g.Len()))

	srv := httpapi.New(httpapi.Options{
		Logger:    log.Logger,
		Timeout:   cfg.RequestTimeout,
		RateLimit: rate.Limit(cfg.RateLimitRPS),
		Burst:     cfg.RateLimitBurst,
	})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&httpapi.Handlers{G: g, DefaultPerPage: cfg.DefaultPerPage})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})
	if cfg.MetricsAddr != "" {
		eg.Go(func() error {
			return observability.ServeMetrics(ctx, cfg.MetricsAddr, reg)
		})
	}

	if err := eg.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
