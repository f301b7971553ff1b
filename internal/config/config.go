// Package config loads the server configuration from YAML, layering the
// file over built-in defaults so a partial file stays valid.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Engine EngineConfig `yaml:"engine"`
	Store  StoreConfig  `yaml:"store"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// AuthToken, when set, is required on every API and WebSocket
	// request. Empty disables auth (local development).
	AuthToken        string   `yaml:"auth_token"`
	AllowedOrigins   []string `yaml:"allowed_origins"`
	MaxWSConnections int      `yaml:"max_ws_connections"`
}

type EngineConfig struct {
	// WeekTimezone anchors the Monday 00:00 week boundary and the
	// weekly assignment schedule.
	WeekTimezone     string `yaml:"week_timezone"`
	CycleSchedule    string `yaml:"cycle_schedule"`
	RecentSessionCap int    `yaml:"recent_session_cap"`
	ActiveWindowDays int    `yaml:"active_window_days"`
	CycleWorkers     int    `yaml:"cycle_workers"`
}

type StoreConfig struct {
	// Path is the directory holding the SQLite database. Empty selects
	// the in-memory store.
	Path string `yaml:"path"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Engine: EngineConfig{
			WeekTimezone:     "America/Toronto",
			CycleSchedule:    "0 0 5 * * 1", // Monday 05:00, after any weekend late entries
			RecentSessionCap: 50,
			ActiveWindowDays: 15,
			CycleWorkers:     4,
		},
		Store: StoreConfig{
			Path: "data",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault reads the file when it exists and falls back to the
// defaults when it does not. Other read errors still fail.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	return cfg, err
}

// ActiveWindow converts the configured day count to a duration.
func (e EngineConfig) ActiveWindow() time.Duration {
	return time.Duration(e.ActiveWindowDays) * 24 * time.Hour
}
