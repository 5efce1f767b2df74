package idaweb

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/couchcryptid/idaweb-station-etl/internal/domain"
)

const (
	// preambleLines is the number of raw lines before the header row.
	preambleLines = 2

	delimiter = ';'
)

var (
	// ErrNoTimeColumn is returned when the header row has no "time" column.
	ErrNoTimeColumn = errors.New("no time column")

	// ErrTooFewColumns is returned when the header row cannot hold the three
	// measurement columns.
	ErrTooFewColumns = errors.New("too few columns")
)

// Reader loads precipitation observations from IDAweb data files.
// It implements pipeline.ObservationSource.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a data file reader.
func NewReader(logger *slog.Logger) *Reader {
	return &Reader{logger: logger}
}

// Read parses the data file at path into a precipitation table.
func (r *Reader) Read(ctx context.Context, path string) (domain.PrecipitationTable, domain.ReadStats, error) {
	if err := ctx.Err(); err != nil {
		return domain.PrecipitationTable{}, domain.ReadStats{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return domain.PrecipitationTable{}, domain.ReadStats{}, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	table, stats, err := Parse(f)
	if err != nil {
		return domain.PrecipitationTable{}, domain.ReadStats{}, fmt.Errorf("data file %s: %w", path, err)
	}

	r.logger.Debug("data file parsed",
		"path", path,
		"kept", stats.Kept,
		"dropped", stats.Dropped,
		"missing_values", stats.Missing,
	)
	return table, stats, nil
}

// Parse reads a data file body: a two line preamble, a header row and the
// observation rows. Rows whose time is not YYYYMMDD-wide are dropped.
func Parse(r io.Reader) (domain.PrecipitationTable, domain.ReadStats, error) {
	br := bufio.NewReader(r)
	if err := skipLines(br, preambleLines); err != nil {
		return domain.PrecipitationTable{}, domain.ReadStats{}, fmt.Errorf("skip preamble: %w", err)
	}

	cr := csv.NewReader(br)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return domain.PrecipitationTable{}, domain.ReadStats{}, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	header = domain.UniqueColumns(header)

	timeIdx := slices.Index(header, domain.TimeColumn)
	if timeIdx < 0 {
		return domain.PrecipitationTable{}, domain.ReadStats{}, ErrNoTimeColumn
	}
	if len(header) < domain.MeasurementOffset+domain.MeasurementColumns {
		return domain.PrecipitationTable{}, domain.ReadStats{}, fmt.Errorf("%w: header has %d", ErrTooFewColumns, len(header))
	}

	table := domain.PrecipitationTable{Columns: append(slices.Clone(header), "date")}
	var stats domain.ReadStats
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.PrecipitationTable{}, domain.ReadStats{}, fmt.Errorf("read row: %w", err)
		}
		if len(rec) > len(header) {
			line, _ := cr.FieldPos(0)
			return domain.PrecipitationTable{}, domain.ReadStats{}, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(header), len(rec))
		}

		obs, ok, err := parseRow(header, timeIdx, rec)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return domain.PrecipitationTable{}, domain.ReadStats{}, fmt.Errorf("line %d: %w", line, err)
		}
		if !ok {
			stats.Dropped++
			continue
		}
		stats.Missing += obs.MissingCount()
		stats.Kept++
		table.Rows = append(table.Rows, obs)
	}
	return table, stats, nil
}

// parseRow converts one record. Short records are padded with empty cells.
// ok is false for rows that are not daily observations.
func parseRow(header []string, timeIdx int, rec []string) (domain.Observation, bool, error) {
	cells := make([]string, len(header))
	for i := range rec {
		cells[i] = strings.TrimSpace(rec[i])
	}

	ts := cells[timeIdx]
	if !domain.IsObservationTime(ts) {
		return domain.Observation{}, false, nil
	}

	date, err := time.Parse(domain.TimeLayout, ts)
	if err != nil {
		return domain.Observation{}, false, fmt.Errorf("parse time %q: %w", ts, err)
	}

	obs := domain.Observation{
		Time:    ts,
		Date:    date,
		Columns: header,
		Cells:   cells,
	}
	for i := range obs.Values {
		obs.Values[i] = domain.CoerceMeasurement(cells[domain.MeasurementOffset+i])
	}
	return obs, true, nil
}

// skipLines discards n raw lines. csv.Reader skips blank lines, so the
// preamble is consumed before it sees the input.
func skipLines(br *bufio.Reader, n int) error {
	for i := 0; i < n; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			return err
		}
	}
	return nil
}
