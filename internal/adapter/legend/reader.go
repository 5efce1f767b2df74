package legend

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/idaweb-station-etl/internal/domain"
	"golang.org/x/text/encoding/charmap"
)

// DefaultMaxLines is how many lines of a legend are scanned. The station
// section of an IDAweb legend sits well within the first hundred lines;
// parameter and unit descriptions follow it.
const DefaultMaxLines = 100

var (
	// ErrShortLegend is returned alongside the lines read when a legend has
	// fewer lines than the reader scans.
	ErrShortLegend = errors.New("legend shorter than scan window")

	// ErrHeaderNotFound is returned when no "stn Name" header line occurs in
	// the scanned lines.
	ErrHeaderNotFound = errors.New("station header not found")
)

// Reader loads station records from IDAweb legend files.
// It implements pipeline.StationSource.
type Reader struct {
	maxLines int
	logger   *slog.Logger
}

// NewReader creates a legend reader that scans the first maxLines lines of
// each file. A non-positive maxLines selects DefaultMaxLines.
func NewReader(maxLines int, logger *slog.Logger) *Reader {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	return &Reader{maxLines: maxLines, logger: logger}
}

// Read parses every station line following the header of the legend at path.
func (r *Reader) Read(ctx context.Context, path string) ([]domain.Station, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open legend: %w", err)
	}
	defer f.Close()

	lines, err := readLines(charmap.ISO8859_1.NewDecoder().Reader(f), r.maxLines)
	switch {
	case errors.Is(err, ErrShortLegend):
		r.logger.Warn("legend shorter than scan window",
			"path", path,
			"lines", len(lines),
			"max_lines", r.maxLines,
		)
	case err != nil:
		return nil, fmt.Errorf("read legend %s: %w", path, err)
	}

	stations, err := ParseLines(lines)
	if err != nil {
		return nil, fmt.Errorf("legend %s: %w", path, err)
	}
	return stations, nil
}

// ParseLines locates the header in lines and parses every non-blank line
// after it. Lines up to and including the header are discarded.
func ParseLines(lines []string) ([]domain.Station, error) {
	header := findHeader(lines)
	if header < 0 {
		return nil, ErrHeaderNotFound
	}

	var stations []domain.Station
	for _, line := range lines[header+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		st, err := domain.ParseStationLine(line)
		if err != nil {
			return nil, err
		}
		stations = append(stations, st)
	}
	return stations, nil
}

// IsHeader reports whether line is the station table header.
func IsHeader(line string) bool {
	fields := strings.Fields(line)
	return len(fields) >= 2 && fields[0] == "stn" && fields[1] == "Name"
}

func findHeader(lines []string) int {
	for i, line := range lines {
		if IsHeader(line) {
			return i
		}
	}
	return -1
}

// readLines returns up to n lines from r without their line terminators.
// If r ends first, the lines read so far are returned with ErrShortLegend.
func readLines(r io.Reader, n int) ([]string, error) {
	sc := bufio.NewScanner(r)
	lines := make([]string, 0, n)
	for len(lines) < n && sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(lines) < n {
		return lines, ErrShortLegend
	}
	return lines, nil
}
