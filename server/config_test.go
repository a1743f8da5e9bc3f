package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsDefaults(t *testing.T) {
	t.Setenv("ROBOGRID_CONFIG", "")
	t.Setenv("PORT", "")
	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "8080", s.Port)
	assert.Equal(t, 8, s.Board.Width)
	assert.Equal(t, 8, s.Board.Height)
	assert.Equal(t, 6, s.Session.MaxConnections)
	assert.Equal(t, 200*time.Millisecond, s.Session.Timeout)
}

func TestLoadSettingsEnv(t *testing.T) {
	t.Setenv("ROBOGRID_CONFIG", "")
	t.Setenv("PORT", "9000")
	t.Setenv("ROBOGRID_BOARD_WIDTH", "12")
	t.Setenv("ROBOGRID_SESSION_TIMEOUT", "1s")
	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "9000", s.Port)
	assert.Equal(t, 12, s.Board.Width)
	assert.Equal(t, time.Second, s.Session.Timeout)
}

func TestLoadSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robogrid.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
port = "7000"

[board]
name = "practice"
layout = "../data/board_1.txt"

[session]
max_connections = 2
`), 0o644))
	t.Setenv("ROBOGRID_CONFIG", path)
	t.Setenv("PORT", "")

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "7000", s.Port)
	assert.Equal(t, "practice", s.Board.Name)
	assert.Equal(t, 2, s.Session.MaxConnections)

	layout, err := s.LoadLayout()
	require.NoError(t, err)
	assert.Equal(t, 8, layout.Width)
}

func TestLoadSettingsInvalid(t *testing.T) {
	t.Setenv("ROBOGRID_CONFIG", "")
	t.Setenv("ROBOGRID_BOARD_HEIGHT", "0")
	_, err := LoadSettings()
	assert.Error(t, err)

	t.Setenv("ROBOGRID_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("ROBOGRID_BOARD_HEIGHT", "")
	_, err = LoadSettings()
	assert.Error(t, err)
}
