package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hubastard/grove/engine/colors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grove.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
title = "test"
clear_color = [1, 2, 3, 255]

[batch]
vertices = 64

[log]
level = "debug"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	def := DefaultConfig()
	require.Equal(t, "test", cfg.Title)
	require.Equal(t, colors.Color{1, 2, 3, 255}, cfg.ClearColor)
	require.Equal(t, 64, cfg.Batch.Vertices)
	require.Equal(t, def.Batch.Buffers, cfg.Batch.Buffers)
	require.Equal(t, def.Batch.DrawCalls, cfg.Batch.DrawCalls)
	require.Equal(t, def.Width, cfg.Width)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	for name, body := range map[string]string{
		"size":       "width = 0",
		"buffers":    "[batch]\nbuffers = 0",
		"vertices":   "[batch]\nvertices = 3",
		"draw_calls": "[batch]\ndraw_calls = 0",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeConfig(t, "width = \"wide\""))
	require.ErrorContains(t, err, "decode config")
}

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestSetLevel(t *testing.T) {
	require.NoError(t, SetLevel("warn"))
	require.Error(t, SetLevel("loud"))
	require.NoError(t, SetLevel("info"))
}
