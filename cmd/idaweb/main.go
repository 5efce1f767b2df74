// Command idaweb reads MeteoSwiss IDAweb order files, builds the station and
// precipitation tables, and renders the station map. With MAP_SERVE_ADDR set
// it keeps serving the map until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/idaweb-station-etl/internal/adapter/http"
	"github.com/couchcryptid/idaweb-station-etl/internal/adapter/idaweb"
	"github.com/couchcryptid/idaweb-station-etl/internal/adapter/legend"
	"github.com/couchcryptid/idaweb-station-etl/internal/adapter/mapsvg"
	"github.com/couchcryptid/idaweb-station-etl/internal/config"
	"github.com/couchcryptid/idaweb-station-etl/internal/observability"
	"github.com/couchcryptid/idaweb-station-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	if err := run(cfg, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	metrics := observability.NewMetrics()

	basemap, err := mapsvg.LoadBasemap(cfg.BasemapPath)
	if err != nil {
		return err
	}
	if cfg.BasemapPath == "" {
		logger.Info("using embedded basemap")
	}

	renderer := mapsvg.NewRenderer(basemap, cfg.MapOutput, cfg.GeoJSONOutput, logger)
	p := pipeline.New(
		legend.NewReader(cfg.LegendMaxLines, logger),
		idaweb.NewReader(logger),
		renderer,
		logger,
		metrics,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The viewer is optional; without it the run ends once the map is written.
	var srv *httpadapter.Server
	serverErr := make(chan error, 1)
	if cfg.MapServeAddr != "" {
		srv = httpadapter.NewServer(cfg.MapServeAddr, renderer, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- fmt.Errorf("http server: %w", err)
				stop()
			}
		}()
	}

	_, runErr := p.Run(ctx, cfg.LegendFiles, cfg.DataFiles)
	if runErr == nil && srv != nil {
		logger.Info("serving station map", "addr", cfg.MapServeAddr)
		<-ctx.Done()
		logger.Info("shutting down")
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}

	// A failed listener cancels ctx, so report it over the run's context error.
	select {
	case err := <-serverErr:
		return err
	default:
		return runErr
	}
}
