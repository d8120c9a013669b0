package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	TCPPort          int
	HTTPPort         int
	AccountsPath     string
	MaxMessageLength int
}

// DefaultConfig returns default server configuration
func DefaultConfig() ServerConfig {
	return ServerConfig{
		TCPPort:          14934,
		HTTPPort:         0, // disabled unless configured
		AccountsPath:     "~/.plainchat/users.txt",
		MaxMessageLength: 256,
	}
}

// TOMLConfig represents the structure of the server config file
type TOMLConfig struct {
	Server ServerSection `toml:"server"`
	Limits LimitsSection `toml:"limits"`
}

type ServerSection struct {
	TCPPort      int    `toml:"tcp_port"`
	HTTPPort     int    `toml:"http_port"`
	AccountsPath string `toml:"accounts_path"`
}

type LimitsSection struct {
	MaxMessageLength int `toml:"max_message_length"`
}

// DefaultTOMLConfig returns the default TOML configuration
func DefaultTOMLConfig() TOMLConfig {
	return TOMLConfig{
		Server: ServerSection{
			TCPPort:      14934,
			HTTPPort:     0,
			AccountsPath: "~/.plainchat/users.txt",
		},
		Limits: LimitsSection{
			MaxMessageLength: 256,
		},
	}
}

// LoadConfig loads configuration from a TOML file, creates default if not found
func LoadConfig(path string) (TOMLConfig, error) {
	path, err := expandHome(path)
	if err != nil {
		return TOMLConfig{}, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		// File doesn't exist, create default config
		config := DefaultTOMLConfig()
		if err := writeDefaultConfig(path, config); err != nil {
			// If we can't write, just return defaults without error
			return config, nil
		}
		return config, nil
	}

	var config TOMLConfig
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return TOMLConfig{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// writeDefaultConfig writes the default config to a file
func writeDefaultConfig(path string, config TOMLConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	header := `# plainchat server configuration
# This file was auto-generated with default values
# Edit as needed and restart the server for changes to take effect

`
	if _, err := f.WriteString(header); err != nil {
		return err
	}

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ToServerConfig converts TOMLConfig to ServerConfig
func (c *TOMLConfig) ToServerConfig() ServerConfig {
	cfg := DefaultConfig()

	if c.Server.TCPPort != 0 {
		cfg.TCPPort = c.Server.TCPPort
	}

	if c.Server.HTTPPort != 0 {
		cfg.HTTPPort = c.Server.HTTPPort
	}

	if strings.TrimSpace(c.Server.AccountsPath) != "" {
		cfg.AccountsPath = c.Server.AccountsPath
	}

	if c.Limits.MaxMessageLength != 0 {
		cfg.MaxMessageLength = c.Limits.MaxMessageLength
	}

	return cfg
}

// ResolveAccountsPath returns the account store path with ~ expanded
func (c ServerConfig) ResolveAccountsPath() (string, error) {
	path := c.AccountsPath
	if path == "" {
		path = DefaultConfig().AccountsPath
	}
	return expandHome(path)
}

func expandHome(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}
	return path, nil
}
