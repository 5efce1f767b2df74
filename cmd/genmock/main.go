// Command genmock writes mock IDAweb order files (legend and data pairs) for
// local runs and manual testing. The files are read back through the real
// legend and data readers so they are known to parse.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out data \
//	  -orders 117265,117266,117268 \
//	  -start 2023-01-01 -days 31
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/idaweb-station-etl/internal/adapter/idaweb"
	"github.com/couchcryptid/idaweb-station-etl/internal/adapter/legend"
	"github.com/couchcryptid/idaweb-station-etl/internal/domain"
	"golang.org/x/text/encoding/charmap"
)

// mockStations are real SwissMetNet stations; coordinates are rounded.
var mockStations = []domain.Station{
	{ID: "ABO", Name: "Adelboden", DataSource: "MeteoSwiss", LonLat: "7°34'/46°30'", Coordinates: "2609350/1148939", Elevation: "1327"},
	{ID: "BAS", Name: "Basel / Binningen", DataSource: "MeteoSwiss", LonLat: "7°35'/47°32'", Coordinates: "2610908/1265611", Elevation: "316"},
	{ID: "BER", Name: "Bern / Zollikofen", DataSource: "MeteoSwiss", LonLat: "7°28'/46°59'", Coordinates: "2601929/1204409", Elevation: "552"},
	{ID: "GVE", Name: "Genève / Cointrin", DataSource: "MeteoSwiss", LonLat: "6°08'/46°15'", Coordinates: "2498904/1122632", Elevation: "411"},
	{ID: "LUG", Name: "Lugano", DataSource: "MeteoSwiss", LonLat: "8°58'/46°00'", Coordinates: "2717874/1095884", Elevation: "273"},
	{ID: "SMA", Name: "Zürich / Fluntern", DataSource: "MeteoSwiss", LonLat: "8°34'/47°23'", Coordinates: "2685117/1248066", Elevation: "556"},
	{ID: "SAE", Name: "Säntis", DataSource: "MeteoSwiss", LonLat: "9°21'/47°15'", Coordinates: "2744200/1234920", Elevation: "2502"},
	{ID: "SIO", Name: "Sion", DataSource: "MeteoSwiss", LonLat: "7°20'/46°13'", Coordinates: "2591633/1118583", Elevation: "482"},
}

const legendHeader = "stn       Name                     Parameter  Data source                Longitude/Latitude  Coordinates [km]  Elevation [m]"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "data", "directory for the generated order files")
	orders := flag.String("orders", "117265,117266,117268", "comma-separated order numbers")
	start := flag.String("start", "2023-01-01", "first observation date")
	days := flag.Int("days", 31, "observation days per order")
	flag.Parse()

	from, err := time.Parse(time.DateOnly, *start)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}
	if *days <= 0 {
		return fmt.Errorf("invalid -days: %d", *days)
	}

	rng := rand.New(rand.NewPCG(117265, 2023))
	orderIDs := strings.Split(*orders, ",")
	for i, order := range orderIDs {
		order = strings.TrimSpace(order)
		stations := stationsForOrder(i)

		legendPath := filepath.Join(*outDir, fmt.Sprintf("order_%s_legend.txt", order))
		if err := writeLegend(legendPath, order, stations); err != nil {
			return fmt.Errorf("writing legend %s: %w", order, err)
		}

		dataPath := filepath.Join(*outDir, fmt.Sprintf("order_%s_data.txt", order))
		if err := writeData(dataPath, stations, from, *days, rng); err != nil {
			return fmt.Errorf("writing data %s: %w", order, err)
		}

		if err := verify(legendPath, dataPath, len(stations)); err != nil {
			return fmt.Errorf("verifying order %s: %w", order, err)
		}
		log.Printf("order %s: %d stations, %d days", order, len(stations), *days)
	}
	return nil
}

// stationsForOrder splits the station list across orders, alternating the
// parameter so both marker tokens occur. Stations overlap between orders the
// way repeated IDAweb orders do.
func stationsForOrder(i int) []domain.Station {
	param := domain.ParamPrecipitation
	if i%2 == 1 {
		param = domain.ParamPrecipitationReset
	}

	var out []domain.Station
	for j, st := range mockStations {
		if (j+i)%3 == 0 {
			continue
		}
		st.Parameter = param
		out = append(out, st)
	}
	return out
}

func writeLegend(path, order string, stations []domain.Station) error {
	var b strings.Builder
	fmt.Fprintf(&b, "MeteoSwiss IDAweb order %s\n\n", order)
	b.WriteString("Stations\n\n")
	b.WriteString(legendHeader + "\n")
	for _, st := range stations {
		fmt.Fprintf(&b, "%-9s %-24s %-10s %-26s %-19s %-17s %s\n",
			st.ID, st.Name, st.Parameter, st.DataSource, st.LonLat, st.Coordinates, st.Elevation)
	}
	b.WriteString("\n")

	encoded, err := charmap.ISO8859_1.NewEncoder().String(b.String())
	if err != nil {
		return fmt.Errorf("encode legend: %w", err)
	}
	return writeFile(path, []byte(encoded))
}

func writeData(path string, stations []domain.Station, from time.Time, days int, rng *rand.Rand) error {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("MeteoSwiss IDAweb\n")
	b.WriteString("stn;time;rka150d0;rre150d0;rsd700d0\n")
	for _, st := range stations {
		for d := 0; d < days; d++ {
			date := from.AddDate(0, 0, d)
			fmt.Fprintf(&b, "%s;%s;%s;%s;%s\n", st.ID, date.Format(domain.TimeLayout),
				mockValue(rng), mockValue(rng), mockValue(rng))
		}
	}
	return writeFile(path, []byte(b.String()))
}

// mockValue returns a precipitation amount in mm, or the "-" gap placeholder
// for about one value in twenty.
func mockValue(rng *rand.Rand) string {
	if rng.IntN(20) == 0 {
		return "-"
	}
	if rng.IntN(3) == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", rng.ExpFloat64()*4)
}

func verify(legendPath, dataPath string, wantStations int) error {
	logger := slog.New(slog.DiscardHandler)
	ctx := context.Background()

	stations, err := legend.NewReader(legend.DefaultMaxLines, logger).Read(ctx, legendPath)
	if err != nil {
		return err
	}
	if len(stations) != wantStations {
		return fmt.Errorf("legend has %d stations, want %d", len(stations), wantStations)
	}
	if _, err := domain.NormalizeStations(stations); err != nil {
		return err
	}

	_, stats, err := idaweb.NewReader(logger).Read(ctx, dataPath)
	if err != nil {
		return err
	}
	log.Printf("  %s: kept=%d dropped=%d missing=%d", filepath.Base(dataPath), stats.Kept, stats.Dropped, stats.Missing)
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
