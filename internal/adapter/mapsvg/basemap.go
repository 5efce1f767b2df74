package mapsvg

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"
)

// defaultBasemap holds the Natural Earth 1:110m admin-0 boundaries of the
// countries inside SwitzerlandView, plus Liechtenstein which that scale
// omits. It is used when no boundary file is configured.
//
//go:embed assets/countries.geojson
var defaultBasemap []byte

// LoadBasemap reads a GeoJSON boundary collection from path, such as a
// Natural Earth admin-0 export. An empty path selects the embedded boundaries.
func LoadBasemap(path string) (*geojson.FeatureCollection, error) {
	data := defaultBasemap
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read basemap: %w", err)
		}
		data = b
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode basemap: %w", err)
	}
	return fc, nil
}
