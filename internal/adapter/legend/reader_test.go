package legend

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/idaweb-station-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Legend bytes are ISO-8859-1: 0xB0 is the degree sign, 0xE8 is "è".
const (
	testHeader   = "stn       Name                     Parameter  Data source   Longitude/Latitude  Coordinates [km]  Elevation [m]"
	testStation  = "ABO       Adelboden                rka150d0   MeteoSwiss    8\xb054'/47\xb030'        600/200           450"
	testGeneva   = "GVE       Gen\xe8ve / Cointrin       rre150d0   MeteoSwiss    6\xb008'/46\xb015'        2498904/1122632   411"
	testPreamble = "MeteoSwiss IDAweb order 117265"
)

func writeLegend(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "order_117265_legend.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	return path
}

// padded returns lines followed by blank lines up to n lines in total.
func padded(n int, lines ...string) []string {
	for len(lines) < n {
		lines = append(lines, "")
	}
	return lines
}

func TestReader_Read(t *testing.T) {
	path := writeLegend(t, padded(DefaultMaxLines, testPreamble, "", testHeader, testStation, "", testGeneva)...)
	r := NewReader(0, slog.Default())

	stations, err := r.Read(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, stations, 2)

	assert.Equal(t, "ABO", stations[0].ID)
	assert.Equal(t, "8°54'/47°30'", stations[0].LonLat)
	assert.Equal(t, "450", stations[0].Elevation)
	assert.Equal(t, "Genève / Cointrin", stations[1].Name)
	assert.Equal(t, domain.ParamPrecipitationReset, stations[1].Parameter)
}

func TestReader_Read_EndToEndCoordinates(t *testing.T) {
	path := writeLegend(t, padded(DefaultMaxLines, testHeader, testStation)...)

	stations, err := NewReader(0, slog.Default()).Read(context.Background(), path)
	require.NoError(t, err)

	table, err := domain.NormalizeStations(stations)
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.InDelta(t, 8.9, table[0].Longitude, 1e-9)
	assert.InDelta(t, 47.5, table[0].Latitude, 1e-9)
	assert.Equal(t, "450", table[0].Elevation)
}

func TestReader_Read_IgnoresLinesPastScanWindow(t *testing.T) {
	lines := padded(4, testHeader, testStation)
	lines = append(lines, "this line would fail to parse")
	path := writeLegend(t, lines...)

	stations, err := NewReader(4, slog.Default()).Read(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, stations, 1)
}

func TestReader_Read_ShortLegendStillParses(t *testing.T) {
	path := writeLegend(t, testHeader, testStation)
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	stations, err := NewReader(0, logger).Read(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, stations, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "legend shorter than scan window", record["msg"])
	assert.Equal(t, path, record["path"])
	assert.InDelta(t, 2, record["lines"], 0)
	assert.InDelta(t, DefaultMaxLines, record["max_lines"], 0)
}

func TestReader_Read_FullLegendLogsNoWarning(t *testing.T) {
	path := writeLegend(t, padded(DefaultMaxLines, testHeader, testStation)...)
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))

	_, err := NewReader(0, logger).Read(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, logs.String())
}

func TestReader_Read_HeaderNotFound(t *testing.T) {
	path := writeLegend(t, testPreamble, testStation)

	_, err := NewReader(0, slog.Default()).Read(context.Background(), path)
	require.ErrorIs(t, err, ErrHeaderNotFound)
	assert.Contains(t, err.Error(), path)
}

func TestReader_Read_MarkerNotFound(t *testing.T) {
	path := writeLegend(t, testHeader, "ABO Adelboden tre200d0 MeteoSwiss 8\xb054'/47\xb030' 600/200 450")

	_, err := NewReader(0, slog.Default()).Read(context.Background(), path)
	require.ErrorIs(t, err, domain.ErrMarkerNotFound)
}

func TestReader_Read_MissingFile(t *testing.T) {
	_, err := NewReader(0, slog.Default()).Read(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open legend")
}

func TestReader_Read_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReader(0, slog.Default()).Read(ctx, "unused")
	require.ErrorIs(t, err, context.Canceled)
}

func TestReadLines(t *testing.T) {
	lines, err := readLines(strings.NewReader("a\r\nb\nc\n"), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, lines)

	lines, err = readLines(strings.NewReader("a\nb\n"), 3)
	require.ErrorIs(t, err, ErrShortLegend)
	assert.Equal(t, []string{"a", "b"}, lines)
}

func TestIsHeader(t *testing.T) {
	assert.True(t, IsHeader(testHeader))
	assert.True(t, IsHeader("stn Name"))
	assert.False(t, IsHeader("stn"))
	assert.False(t, IsHeader("Name stn"))
	assert.False(t, IsHeader("  "))
}

func TestParseLines_SkipsBlankLines(t *testing.T) {
	stations, err := ParseLines([]string{testHeader, "", "   ", "ABO A rka150d0 S 8°54'/47°30' 600/200 450"})
	require.NoError(t, err)
	assert.Len(t, stations, 1)
}
