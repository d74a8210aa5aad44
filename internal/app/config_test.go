package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
dashboard:
  listen_addr: ":9090"
robot:
  serial_port: "/dev/ttyACM0"
  baud_rate: 115200
  config_file: "cal.json"
  default_speed: 180
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Dashboard.ListenAddr)
	assert.Equal(t, 115200, cfg.Robot.BaudRate)
	assert.Equal(t, "cal.json", cfg.Robot.ConfigFile)
	assert.Equal(t, 180, cfg.Robot.DefaultSpeed)
	// unset values fall back to defaults
	assert.Equal(t, 120, cfg.Robot.TurnSpeed)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("dashboard: [not: valid"), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}
