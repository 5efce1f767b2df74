package mapsvg

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/couchcryptid/idaweb-station-etl/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// DefaultWidth is the figure width in pixels.
const DefaultWidth = 960

// Renderer draws station tables onto a basemap.
// It implements pipeline.MapRenderer.
type Renderer struct {
	basemap     *geojson.FeatureCollection
	view        orb.Bound
	width       int
	svgPath     string
	geojsonPath string
	logger      *slog.Logger

	mu     sync.RWMutex
	svg    []byte
	points []byte
}

// NewRenderer creates a renderer that writes the figure to svgPath and,
// when geojsonPath is set, the station points to geojsonPath. Either path
// may be empty to keep the output in memory only.
func NewRenderer(basemap *geojson.FeatureCollection, svgPath, geojsonPath string, logger *slog.Logger) *Renderer {
	return &Renderer{
		basemap:     basemap,
		view:        SwitzerlandView,
		width:       DefaultWidth,
		svgPath:     svgPath,
		geojsonPath: geojsonPath,
		logger:      logger,
	}
}

// StationFeatures builds one point feature per station row from its
// Longitude and Latitude.
func StationFeatures(table domain.StationTable) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, row := range table {
		f := geojson.NewFeature(orb.Point{row.Longitude, row.Latitude})
		f.Properties["stn"] = row.ID
		f.Properties["name"] = row.Name
		f.Properties["parameter"] = row.Parameter
		f.Properties["elevation"] = row.Elevation
		fc.Append(f)
	}
	return fc
}

// Render draws the station map and writes the configured outputs.
func (r *Renderer) Render(ctx context.Context, table domain.StationTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stations := StationFeatures(table)

	var buf bytes.Buffer
	Draw(&buf, r.basemap, stations, r.view, r.width, domain.Now())

	points, err := stations.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode station points: %w", err)
	}

	if r.svgPath != "" {
		if err := writeFile(r.svgPath, buf.Bytes()); err != nil {
			return fmt.Errorf("write map: %w", err)
		}
	}
	if r.geojsonPath != "" {
		if err := writeFile(r.geojsonPath, points); err != nil {
			return fmt.Errorf("write station points: %w", err)
		}
	}

	r.mu.Lock()
	r.svg = buf.Bytes()
	r.points = points
	r.mu.Unlock()

	r.logger.Info("map rendered",
		"stations", len(table),
		"visible", countVisible(stations, r.view),
		"svg_path", r.svgPath,
		"geojson_path", r.geojsonPath,
	)
	return nil
}

// Figure returns the most recently rendered SVG and station GeoJSON.
// ok is false until Render has succeeded once.
func (r *Renderer) Figure() (svgData, points []byte, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.svg, r.points, r.svg != nil
}

func countVisible(fc *geojson.FeatureCollection, view orb.Bound) int {
	n := 0
	for _, f := range fc.Features {
		if pt, ok := f.Geometry.(orb.Point); ok && view.Contains(pt) {
			n++
		}
	}
	return n
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644) //nolint:gosec // rendered map is meant to be shared
}
