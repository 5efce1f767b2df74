package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	degreeMark = "°"
	minuteMark = "'"
)

// ErrMalformedCoordinate is returned for lon/lat values that are not in
// D°M' notation.
var ErrMalformedCoordinate = errors.New("malformed coordinate")

// StationRow is a Station with its coordinates split and converted.
// X and Y are the raw halves of Station.Coordinates and are not converted.
type StationRow struct {
	Station
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	X         string  `json:"x"`
	Y         string  `json:"y"`
}

// StationTable holds one row per parsed legend line, in input order.
type StationTable []StationRow

// ParseDegreesMinutes converts a D°M' string to decimal degrees
// (D + M/60). There is no range or hemisphere handling.
func ParseDegreesMinutes(s string) (float64, error) {
	deg, rest, ok := strings.Cut(strings.TrimSpace(s), degreeMark)
	if !ok {
		return 0, fmt.Errorf("%w: %q has no degree mark", ErrMalformedCoordinate, s)
	}
	mins, _, _ := strings.Cut(rest, minuteMark)

	d, err := strconv.ParseFloat(deg, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: degrees of %q: %w", ErrMalformedCoordinate, s, err)
	}
	m, err := strconv.ParseFloat(mins, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: minutes of %q: %w", ErrMalformedCoordinate, s, err)
	}
	return d + m/60, nil
}

// NormalizeStations builds the station table. Duplicate station ids are kept.
func NormalizeStations(stations []Station) (StationTable, error) {
	table := make(StationTable, 0, len(stations))
	for _, st := range stations {
		row, err := normalizeStation(st)
		if err != nil {
			return nil, err
		}
		table = append(table, row)
	}
	return table, nil
}

func normalizeStation(st Station) (StationRow, error) {
	lonStr, latStr := splitPair(st.LonLat)
	x, y := splitPair(st.Coordinates)

	lon, err := ParseDegreesMinutes(lonStr)
	if err != nil {
		return StationRow{}, fmt.Errorf("station %s longitude: %w", st.ID, err)
	}
	lat, err := ParseDegreesMinutes(latStr)
	if err != nil {
		return StationRow{}, fmt.Errorf("station %s latitude: %w", st.ID, err)
	}

	return StationRow{
		Station:   st,
		Longitude: lon,
		Latitude:  lat,
		X:         x,
		Y:         y,
	}, nil
}

// splitPair returns the first two "/"-separated components of s.
// Anything after a second "/" is ignored.
func splitPair(s string) (string, string) {
	first, rest, _ := strings.Cut(s, "/")
	second, _, _ := strings.Cut(rest, "/")
	return first, second
}
