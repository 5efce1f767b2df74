package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Parameter codes recognised as the marker token of a legend station line.
const (
	ParamPrecipitation      = "rka150d0" // daily precipitation total, 05:40-05:40 UTC
	ParamPrecipitationReset = "rre150d0" // daily precipitation total, 06:00-06:00 UTC
)

var (
	// ErrMarkerNotFound is returned when a legend line contains neither
	// parameter marker.
	ErrMarkerNotFound = errors.New("parameter marker not found")

	// ErrTooFewFields is returned when a legend line cannot hold the three
	// trailing location fields.
	ErrTooFewFields = errors.New("too few fields")
)

// trailingFields is the number of fixed columns after the data source:
// lon/lat, projected coordinates and elevation.
const trailingFields = 3

// Station is one row of an IDAweb legend file.
type Station struct {
	ID          string `json:"stn"`
	Name        string `json:"name"`
	Parameter   string `json:"parameter"`
	DataSource  string `json:"data_source"`
	LonLat      string `json:"lon_lat"`     // e.g. 8°54'/47°30'
	Coordinates string `json:"coordinates"` // e.g. 2600000/1200000
	Elevation   string `json:"elevation"`
}

// ParseStationLine splits a whitespace-separated legend line around its
// parameter marker. Everything between the station id and the marker is the
// name, everything between the marker and the last three tokens is the data
// source.
func ParseStationLine(line string) (Station, error) {
	parts := strings.Fields(line)

	idx := indexOf(parts, ParamPrecipitation)
	if idx < 0 {
		idx = indexOf(parts, ParamPrecipitationReset)
	}
	if idx < 0 {
		return Station{}, fmt.Errorf("parse station line %q: %w", line, ErrMarkerNotFound)
	}
	if len(parts) < trailingFields {
		return Station{}, fmt.Errorf("parse station line %q: %w", line, ErrTooFewFields)
	}

	tail := len(parts) - trailingFields
	return Station{
		ID:          parts[0],
		Name:        joinRange(parts, 1, idx),
		Parameter:   parts[idx],
		DataSource:  joinRange(parts, idx+1, tail),
		LonLat:      parts[tail],
		Coordinates: parts[tail+1],
		Elevation:   parts[tail+2],
	}, nil
}

func indexOf(parts []string, token string) int {
	for i, p := range parts {
		if p == token {
			return i
		}
	}
	return -1
}

// joinRange joins parts[lo:hi] with single spaces. An empty or inverted
// range yields "".
func joinRange(parts []string, lo, hi int) string {
	if lo >= hi {
		return ""
	}
	return strings.Join(parts[lo:hi], " ")
}
