package main

import (
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/couchcryptid/idaweb-station-etl/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ReportsListenError(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	dir := t.TempDir()
	legendPath := filepath.Join(dir, "order_1_legend.txt")
	dataPath := filepath.Join(dir, "order_1_data.txt")
	legendBody := "stn       Name         Parameter  Data source  Longitude/Latitude  Coordinates [km]  Elevation [m]\n" +
		"ABO       Adelboden    rka150d0   MeteoSwiss   7\xb034'/46\xb030'        609/148           1327\n"
	require.NoError(t, os.WriteFile(legendPath, []byte(legendBody), 0o600))
	require.NoError(t, os.WriteFile(dataPath, []byte("\n\nstn;time;a;b;c\nABO;20230101;1;2;3\n"), 0o600))

	cfg := &config.Config{
		LegendFiles:     []string{legendPath},
		DataFiles:       []string{dataPath},
		LegendMaxLines:  100,
		MapOutput:       filepath.Join(dir, "stations.svg"),
		MapServeAddr:    busy.Addr().String(),
		ShutdownTimeout: time.Second,
	}

	err = run(cfg, slog.New(slog.DiscardHandler))
	require.Error(t, err)
	assert.ErrorIs(t, err, syscall.EADDRINUSE)
	assert.Contains(t, err.Error(), "http server")
}
