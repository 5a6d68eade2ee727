package flags

import (
	"testing"
	"time"

	"github.com/ruteri/interface-registry/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runApp(t *testing.T, args []string, action cli.ActionFunc) {
	t.Helper()
	app := &cli.App{
		Name:   "test",
		Flags:  append([]cli.Flag{ListenAddrFlag, StorageFlag}, CommonFlags...),
		Action: action,
	}
	require.NoError(t, app.Run(append([]string{"test"}, args...)))
}

func TestConfigureServer(t *testing.T) {
	runApp(t, []string{"--listen-addr", "0.0.0.0:9000", "--drain-seconds", "3", "--pprof"}, func(cCtx *cli.Context) error {
		cfg := ConfigureServer(cCtx, SetupLogger(cCtx))
		assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddr)
		assert.Equal(t, "127.0.0.1:8090", cfg.MetricsAddr)
		assert.Equal(t, 3*time.Second, cfg.DrainDuration)
		assert.True(t, cfg.EnablePprof)
		assert.NotNil(t, cfg.Log)
		return nil
	})
}

func TestStorageLocations(t *testing.T) {
	runApp(t, nil, func(cCtx *cli.Context) error {
		locations, err := StorageLocations(cCtx)
		require.NoError(t, err)
		require.Len(t, locations, 1)
		assert.Equal(t, "memory", locations[0].Scheme)
		return nil
	})

	runApp(t, []string{"--storage", "memory://", "--storage", "bolt:///tmp/registry.db"}, func(cCtx *cli.Context) error {
		locations, err := StorageLocations(cCtx)
		require.NoError(t, err)
		require.Len(t, locations, 2)
		assert.Equal(t, "bolt", locations[1].Scheme)
		return nil
	})

	runApp(t, []string{"--storage", "ftp://nowhere"}, func(cCtx *cli.Context) error {
		_, err := StorageLocations(cCtx)
		assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)
		return nil
	})
}

func TestEnvVars(t *testing.T) {
	t.Setenv("REGISTRY_LISTEN_ADDR", "127.0.0.1:7000")

	runApp(t, nil, func(cCtx *cli.Context) error {
		cfg := ConfigureServer(cCtx, SetupLogger(cCtx))
		assert.Equal(t, "127.0.0.1:7000", cfg.ListenAddr)
		return nil
	})
}
