package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/idaweb-station-etl/internal/domain"
)

// collectStations reads the legend files in order and normalizes the
// combined station list. Stations listed in several legends appear once per
// legend.
func (p *Pipeline) collectStations(ctx context.Context, paths []string) (domain.StationTable, error) {
	var all []domain.Station
	for _, path := range paths {
		stations, err := p.stations.Read(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("read stations: %w", err)
		}
		p.metrics.LegendFilesRead.Inc()
		p.metrics.StationsParsed.Add(float64(len(stations)))
		p.logger.Info("legend read", "path", path, "stations", len(stations))
		all = append(all, stations...)
	}

	table, err := domain.NormalizeStations(all)
	if err != nil {
		return nil, fmt.Errorf("normalize stations: %w", err)
	}
	return table, nil
}

// collectPrecipitation reads each data file into its own table and
// concatenates them in order.
func (p *Pipeline) collectPrecipitation(ctx context.Context, paths []string) (domain.PrecipitationTable, error) {
	tables := make([]domain.PrecipitationTable, 0, len(paths))
	for _, path := range paths {
		table, stats, err := p.observations.Read(ctx, path)
		if err != nil {
			return domain.PrecipitationTable{}, fmt.Errorf("read precipitation: %w", err)
		}
		p.metrics.DataFilesRead.Inc()
		p.metrics.ObservationsKept.Add(float64(stats.Kept))
		p.metrics.ObservationsDrop.Add(float64(stats.Dropped))
		p.metrics.MeasurementMissing.Add(float64(stats.Missing))
		p.logger.Info("data file read",
			"path", path,
			"kept", stats.Kept,
			"dropped", stats.Dropped,
			"missing_values", stats.Missing,
		)
		tables = append(tables, table)
	}

	all := domain.ConcatPrecipitation(tables...)
	first, last := all.DateRange()
	p.logger.Info("precipitation table built",
		"rows", all.Len(),
		"columns", len(all.Columns),
		"first_date", formatDate(first),
		"last_date", formatDate(last),
	)
	return all, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
