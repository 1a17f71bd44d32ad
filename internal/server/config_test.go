package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFromHCL(t *testing.T) {
	content := `
server {
  address = "0.0.0.0"
  port    = 9090
  log_level = "debug"
}

auth {
  enabled = true
  secret  = "sssh"
}

storage {
  database_path = "/tmp/games.db"
}

game {
  max_rooms            = 8
  turn_timeout_seconds = 30
}
`
	path := filepath.Join(t.TempDir(), "server.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Address)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, "sssh", cfg.Auth.Secret)
	assert.Equal(t, "/tmp/games.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 8, cfg.Game.MaxRooms)
	assert.Equal(t, 30, cfg.Game.TurnTimeoutSeconds)

	// Unset values still fall back to defaults.
	assert.Equal(t, "nigels", cfg.Auth.Issuer)
	assert.Equal(t, 24, cfg.Auth.TokenTTLHours)

	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddress())
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Auth.Enabled = true
	assert.Error(t, cfg.Validate(), "enabled auth without a secret must fail")
	cfg.Auth.Secret = "sssh"
	assert.NoError(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Game.MaxRooms = 0
	assert.Error(t, cfg.Validate())
}
