package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete server configuration
type Config struct {
	Server  ServerSettings
	Auth    AuthSettings
	Storage StorageSettings
	Game    GameSettings
}

// rawConfig is the HCL shape of Config. Pointer blocks are optional in the
// file; missing ones fall back to defaults.
type rawConfig struct {
	Server  *ServerSettings  `hcl:"server,block"`
	Auth    *AuthSettings    `hcl:"auth,block"`
	Storage *StorageSettings `hcl:"storage,block"`
	Game    *GameSettings    `hcl:"game,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
}

// AuthSettings configures player token validation
type AuthSettings struct {
	Enabled       bool   `hcl:"enabled,optional"`
	Secret        string `hcl:"secret,optional"`
	Issuer        string `hcl:"issuer,optional"`
	TokenTTLHours int    `hcl:"token_ttl_hours,optional"`
}

// StorageSettings configures game persistence
type StorageSettings struct {
	DatabasePath string `hcl:"database_path,optional"`
}

// GameSettings contains table-level game configuration
type GameSettings struct {
	MaxRooms           int `hcl:"max_rooms,optional"`
	TurnTimeoutSeconds int `hcl:"turn_timeout_seconds,optional"`
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Auth: AuthSettings{
			Enabled:       false,
			Issuer:        "nigels",
			TokenTTLHours: 24,
		},
		Storage: StorageSettings{
			DatabasePath: "nigels.db",
		},
		Game: GameSettings{
			MaxRooms:           64,
			TurnTimeoutSeconds: 60,
		},
	}
}

// LoadConfig loads server configuration from an HCL file. A missing file
// yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw rawConfig
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	var config Config
	if raw.Server != nil {
		config.Server = *raw.Server
	}
	if raw.Auth != nil {
		config.Auth = *raw.Auth
	}
	if raw.Storage != nil {
		config.Storage = *raw.Storage
	}
	if raw.Game != nil {
		config.Game = *raw.Game
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Auth.Issuer == "" {
		config.Auth.Issuer = "nigels"
	}
	if config.Auth.TokenTTLHours == 0 {
		config.Auth.TokenTTLHours = 24
	}
	if config.Storage.DatabasePath == "" {
		config.Storage.DatabasePath = "nigels.db"
	}
	if config.Game.MaxRooms == 0 {
		config.Game.MaxRooms = 64
	}
	if config.Game.TurnTimeoutSeconds == 0 {
		config.Game.TurnTimeoutSeconds = 60
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Auth.Enabled && c.Auth.Secret == "" {
		return fmt.Errorf("auth is enabled but no secret is configured")
	}
	if c.Game.MaxRooms < 1 {
		return fmt.Errorf("max_rooms must be positive, got %d", c.Game.MaxRooms)
	}
	if c.Game.TurnTimeoutSeconds < 0 {
		return fmt.Errorf("turn_timeout_seconds must not be negative, got %d", c.Game.TurnTimeoutSeconds)
	}
	return nil
}

// ListenAddress returns the full host:port the server binds to
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
