package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Default order files of an IDAweb delivery, relative to the working directory.
const (
	defaultLegendFiles = "data/order_117265_legend.txt,data/order_117266_legend.txt,data/order_117268_legend.txt"
	defaultDataFiles   = "data/order_117265_data.txt,data/order_117266_data.txt,data/order_117268_data.txt"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	LegendFiles    []string
	DataFiles      []string
	LegendMaxLines int

	// Map output.
	BasemapPath   string
	MapOutput     string
	GeoJSONOutput string

	// Optional viewer; empty disables it.
	MapServeAddr    string
	ShutdownTimeout time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	maxLines, err := parseLegendMaxLines()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LegendFiles:     parseList(sharedcfg.EnvOrDefault("LEGEND_FILES", defaultLegendFiles)),
		DataFiles:       parseList(sharedcfg.EnvOrDefault("DATA_FILES", defaultDataFiles)),
		LegendMaxLines:  maxLines,
		BasemapPath:     os.Getenv("BASEMAP_PATH"),
		MapOutput:       sharedcfg.EnvOrDefault("MAP_OUTPUT", "stations.svg"),
		GeoJSONOutput:   os.Getenv("GEOJSON_OUTPUT"),
		MapServeAddr:    os.Getenv("MAP_SERVE_ADDR"),
		ShutdownTimeout: shutdownTimeout,
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
	}

	if len(cfg.LegendFiles) == 0 {
		return nil, errors.New("LEGEND_FILES is required")
	}
	if len(cfg.DataFiles) == 0 {
		return nil, errors.New("DATA_FILES is required")
	}

	return cfg, nil
}

func parseLegendMaxLines() (int, error) {
	s := os.Getenv("LEGEND_MAX_LINES")
	if s == "" {
		return 100, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid LEGEND_MAX_LINES")
	}
	return n, nil
}

// parseList splits a comma-separated list, dropping empty entries.
func parseList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
