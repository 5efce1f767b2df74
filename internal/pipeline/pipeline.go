package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/idaweb-station-etl/internal/domain"
	"github.com/couchcryptid/idaweb-station-etl/internal/observability"
)

// StationSource reads the station records of one legend file.
type StationSource interface {
	Read(ctx context.Context, path string) ([]domain.Station, error)
}

// ObservationSource reads the precipitation table of one data file.
type ObservationSource interface {
	Read(ctx context.Context, path string) (domain.PrecipitationTable, domain.ReadStats, error)
}

// MapRenderer draws the normalized station table.
type MapRenderer interface {
	Render(ctx context.Context, table domain.StationTable) error
}

// Result is everything a run produced.
type Result struct {
	Stations      domain.StationTable
	Precipitation domain.PrecipitationTable
}

// Pipeline runs the extract-normalize-render sequence once.
type Pipeline struct {
	stations     StationSource
	observations ObservationSource
	renderer     MapRenderer
	logger       *slog.Logger
	metrics      *observability.Metrics
	ready        atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(s StationSource, o ObservationSource, r MapRenderer, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		stations:     s,
		observations: o,
		renderer:     r,
		logger:       logger,
		metrics:      metrics,
	}
}

// CheckReadiness returns nil once a run has rendered the station map.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("station map has not been rendered yet")
	}
	return nil
}

// Run reads every legend file into one station table, reads and concatenates
// every data file, and renders the station map. The precipitation table is
// returned but not joined with the stations.
func (p *Pipeline) Run(ctx context.Context, legendFiles, dataFiles []string) (Result, error) {
	p.logger.Info("pipeline started", "legend_files", len(legendFiles), "data_files", len(dataFiles))
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	start := time.Now()
	stations, err := p.collectStations(ctx, legendFiles)
	if err != nil {
		return Result{}, err
	}
	p.observeStage("stations", start)

	start = time.Now()
	precipitation, err := p.collectPrecipitation(ctx, dataFiles)
	if err != nil {
		return Result{}, err
	}
	p.observeStage("precipitation", start)

	start = time.Now()
	if err := p.renderer.Render(ctx, stations); err != nil {
		return Result{}, err
	}
	p.observeStage("render", start)

	p.ready.Store(true)
	p.logger.Info("pipeline finished", "stations", len(stations), "observations", precipitation.Len())
	return Result{Stations: stations, Precipitation: precipitation}, nil
}

func (p *Pipeline) observeStage(stage string, start time.Time) {
	p.metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
