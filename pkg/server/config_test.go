package server

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTOMLConfig(t *testing.T) {
	cfg := DefaultTOMLConfig()

	if cfg.Server.TCPPort <= 0 {
		t.Fatalf("expected default TCP port to be positive, got %d", cfg.Server.TCPPort)
	}

	if cfg.Server.AccountsPath == "" {
		t.Fatal("expected default accounts path to be set")
	}

	if cfg.Limits.MaxMessageLength != 256 {
		t.Fatalf("expected default max message length 256, got %d", cfg.Limits.MaxMessageLength)
	}
}

func TestToServerConfigMapsSettings(t *testing.T) {
	cfg := DefaultTOMLConfig()
	cfg.Server.TCPPort = 24934
	cfg.Server.HTTPPort = 8080
	cfg.Server.AccountsPath = "/tmp/users.txt"

	serverCfg := cfg.ToServerConfig()

	if serverCfg.TCPPort != 24934 {
		t.Fatalf("expected TCPPort 24934, got %d", serverCfg.TCPPort)
	}

	if serverCfg.HTTPPort != 8080 {
		t.Fatalf("expected HTTPPort 8080, got %d", serverCfg.HTTPPort)
	}

	if serverCfg.AccountsPath != "/tmp/users.txt" {
		t.Fatalf("expected AccountsPath /tmp/users.txt, got %s", serverCfg.AccountsPath)
	}
}

func TestToServerConfigFallsBackToDefaults(t *testing.T) {
	var cfg TOMLConfig

	serverCfg := cfg.ToServerConfig()
	defaults := DefaultConfig()

	if serverCfg.TCPPort != defaults.TCPPort {
		t.Fatalf("expected fallback TCPPort %d, got %d", defaults.TCPPort, serverCfg.TCPPort)
	}

	if serverCfg.AccountsPath != defaults.AccountsPath {
		t.Fatalf("expected fallback AccountsPath %s, got %s", defaults.AccountsPath, serverCfg.AccountsPath)
	}

	if serverCfg.MaxMessageLength != defaults.MaxMessageLength {
		t.Fatalf("expected fallback MaxMessageLength %d, got %d", defaults.MaxMessageLength, serverCfg.MaxMessageLength)
	}
}

func TestResolveAccountsPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AccountsPath = "/tmp/users.txt"

	path, err := cfg.ResolveAccountsPath()
	if err != nil {
		t.Fatalf("ResolveAccountsPath failed: %v", err)
	}
	if path != "/tmp/users.txt" {
		t.Fatalf("expected /tmp/users.txt, got %s", path)
	}

	cfg.AccountsPath = "~/store/users.txt"
	path, err = cfg.ResolveAccountsPath()
	if err != nil {
		t.Fatalf("ResolveAccountsPath failed: %v", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("failed to get home directory: %v", err)
	}
	if path != filepath.Join(home, "store/users.txt") {
		t.Fatalf("expected ~ expansion, got %s", path)
	}

	cfg.AccountsPath = ""
	path, err = cfg.ResolveAccountsPath()
	if err != nil {
		t.Fatalf("ResolveAccountsPath failed: %v", err)
	}
	if path != filepath.Join(home, ".plainchat/users.txt") {
		t.Fatalf("expected default path, got %s", path)
	}
}

func TestLoadConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.TCPPort != DefaultTOMLConfig().Server.TCPPort {
		t.Fatalf("expected default TCP port, got %d", cfg.Server.TCPPort)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to be created: %v", err)
	}
}

func TestLoadConfigParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
tcp_port = 24934
http_port = 9090
accounts_path = "/tmp/users.txt"

[limits]
max_message_length = 512
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.TCPPort != 24934 {
		t.Fatalf("expected TCP port 24934, got %d", cfg.Server.TCPPort)
	}

	if cfg.Limits.MaxMessageLength != 512 {
		t.Fatalf("expected max message length 512, got %d", cfg.Limits.MaxMessageLength)
	}
}

func TestLoadConfigRejectsInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}
