package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"data/order_117265_legend.txt",
		"data/order_117266_legend.txt",
		"data/order_117268_legend.txt",
	}, cfg.LegendFiles)
	assert.Equal(t, []string{
		"data/order_117265_data.txt",
		"data/order_117266_data.txt",
		"data/order_117268_data.txt",
	}, cfg.DataFiles)
	assert.Equal(t, 100, cfg.LegendMaxLines)
	assert.Empty(t, cfg.BasemapPath)
	assert.Equal(t, "stations.svg", cfg.MapOutput)
	assert.Empty(t, cfg.GeoJSONOutput)
	assert.Empty(t, cfg.MapServeAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("LEGEND_FILES", "a_legend.txt, b_legend.txt")
	t.Setenv("DATA_FILES", "a_data.txt")
	t.Setenv("LEGEND_MAX_LINES", "250")
	t.Setenv("BASEMAP_PATH", "ne_110m_admin_0_countries.geojson")
	t.Setenv("MAP_OUTPUT", "out/map.svg")
	t.Setenv("GEOJSON_OUTPUT", "out/stations.geojson")
	t.Setenv("MAP_SERVE_ADDR", ":8080")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"a_legend.txt", "b_legend.txt"}, cfg.LegendFiles)
	assert.Equal(t, []string{"a_data.txt"}, cfg.DataFiles)
	assert.Equal(t, 250, cfg.LegendMaxLines)
	assert.Equal(t, "ne_110m_admin_0_countries.geojson", cfg.BasemapPath)
	assert.Equal(t, "out/map.svg", cfg.MapOutput)
	assert.Equal(t, "out/stations.geojson", cfg.GeoJSONOutput)
	assert.Equal(t, ":8080", cfg.MapServeAddr)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidLegendMaxLines(t *testing.T) {
	for _, v := range []string{"0", "-5", "many"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("LEGEND_MAX_LINES", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "LEGEND_MAX_LINES")
		})
	}
}

func TestLoad_EmptyLegendList(t *testing.T) {
	t.Setenv("LEGEND_FILES", " , ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LEGEND_FILES")
}

func TestLoad_EmptyDataList(t *testing.T) {
	t.Setenv("DATA_FILES", ",")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATA_FILES")
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, parseList(" a ,, b ,"))
	assert.Nil(t, parseList(""))
}
