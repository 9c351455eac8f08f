package lykta_test

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/0xalexb/lykta"
	"github.com/0xalexb/lykta/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func TestModule_ProvidesConfigAndLogger(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer

	reg := registry.Default()
	reg.Register("app.buffer", &buf)

	content := `
handlers:
  - sink: ext://app.buffer
    level: INFO
    format: "{level}|{message}"
`
	path := writeConfig(t, "config.yaml", content)

	var (
		cfg    *lykta.Config
		logger *slog.Logger
	)

	app := fx.New(
		lykta.Module(path, lykta.WithRegistry(reg)),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger}
		}),
		fx.Populate(&cfg, &logger),
	)

	require.NoError(t, app.Start(context.Background()))
	t.Cleanup(func() { _ = app.Stop(context.Background()) })

	require.NotNil(t, cfg)
	require.NotNil(t, logger)
	require.Same(t, logger, slog.Default())

	slog.Info("from the app")

	assert.Contains(t, buf.String(), "INFO|from the app")
}

func TestModule_LoadErrorSurfaces(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "absent.yaml")

	app := fx.New(
		lykta.Module(path),
		fx.NopLogger,
	)

	err := app.Err()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.yaml")
}
