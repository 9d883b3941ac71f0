// Package config loads the server's own bootstrap configuration from a
// YAML file. This is the process-level config (port, paths, tick rate);
// runtime-tunable values live in the field registry instead.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// AppConfig is the root bootstrap configuration.
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Stream   StreamConfig   `yaml:"stream"`
	Loop     LoopConfig     `yaml:"loop"`
	Advanced AdvancedConfig `yaml:"advanced"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port        int    `yaml:"port"`
	BindAddress string `yaml:"bindAddress"`
	BodyLimit   string `yaml:"bodyLimit"`
	// ReadTimeout guards slow request bodies. There is deliberately no
	// write timeout: the MJPEG stream holds its connection open for as
	// long as the viewer watches.
	ReadTimeoutSeconds int `yaml:"readTimeoutSeconds"`
	IdleTimeoutSeconds int `yaml:"idleTimeoutSeconds"`
}

// StorageConfig contains persistence settings.
type StorageConfig struct {
	DataDirectory string `yaml:"dataDirectory"`
	SnapshotFile  string `yaml:"snapshotFile"`
}

// StreamConfig contains defaults for the synthetic frame source used
// when no capture pipeline is wired.
type StreamConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// LoopConfig contains main-loop pacing.
type LoopConfig struct {
	TickMs         int `yaml:"tickMs"`
	StatusUpdateHz int `yaml:"statusUpdateHz"`
}

// AdvancedConfig contains tuning options.
type AdvancedConfig struct {
	EnableRequestLogging bool `yaml:"enableRequestLogging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:               8080,
			BindAddress:        "0.0.0.0",
			BodyLimit:          "8M",
			ReadTimeoutSeconds: 30,
			IdleTimeoutSeconds: 120,
		},
		Storage: StorageConfig{
			DataDirectory: "./data",
			SnapshotFile:  "config-snapshot.json",
		},
		Stream: StreamConfig{
			Width:  640,
			Height: 480,
		},
		Loop: LoopConfig{
			TickMs:         50,
			StatusUpdateHz: 3,
		},
		Advanced: AdvancedConfig{
			EnableRequestLogging: true,
		},
	}
}

// LoadConfig loads configuration from a YAML file, writing the defaults
// on first run so the operator has something to edit.
func LoadConfig(configPath string) (*AppConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		cfg.resolvePaths(filepath.Dir(configPath))
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.resolvePaths(filepath.Dir(configPath))
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *AppConfig) Save(configPath string) error {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# Headset tracker console configuration.\n# Auto-generated on first run; edit and restart to apply.\n\n")
	if err := os.WriteFile(configPath, append(header, out...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
	}
}

func (c *AppConfig) resolvePaths(configDir string) {
	if !filepath.IsAbs(c.Storage.DataDirectory) {
		c.Storage.DataDirectory = filepath.Join(configDir, c.Storage.DataDirectory)
	}
}

// GetServerAddr returns the listen address.
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// SnapshotPath returns the absolute path of the persisted config
// snapshot file.
func (c *AppConfig) SnapshotPath() string {
	if filepath.IsAbs(c.Storage.SnapshotFile) {
		return c.Storage.SnapshotFile
	}
	return filepath.Join(c.Storage.DataDirectory, c.Storage.SnapshotFile)
}

// EnsureDirectories creates the data directory tree.
func (c *AppConfig) EnsureDirectories() error {
	if err := os.MkdirAll(c.Storage.DataDirectory, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.Storage.DataDirectory, err)
	}
	return nil
}
