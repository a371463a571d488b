// Package config loads server settings from a YAML file and supports hot
// reload of the file while the server runs.
package config

import (
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file path relative to the working directory.
const DefaultPath = "config/server.yaml"

// Config holds server settings. The listen address is read once at startup;
// preview settings are re-read from the Store on every connection so a reload
// takes effect without a restart.
type Config struct {
	Addr    string  `yaml:"addr"`
	LogPath string  `yaml:"logPath"`
	Preview Preview `yaml:"preview"`
}

// Preview controls the websocket preview stream.
type Preview struct {
	FrameIntervalMs int `yaml:"frameIntervalMs"`
	MaxFrames       int `yaml:"maxFrames"`
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		Addr:    ":8080",
		LogPath: "logs/server.txt",
		Preview: Preview{
			FrameIntervalMs: 50,
			MaxFrames:       600,
		},
	}
}

// Load reads settings from the given path. A missing or unparseable file
// yields Default() without error; partial files keep defaults for omitted
// fields.
func Load(path string) Config {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default()
	}
	if cfg.Addr == "" {
		cfg.Addr = Default().Addr
	}
	if cfg.LogPath == "" {
		cfg.LogPath = Default().LogPath
	}
	if cfg.Preview.FrameIntervalMs <= 0 {
		cfg.Preview.FrameIntervalMs = Default().Preview.FrameIntervalMs
	}
	if cfg.Preview.MaxFrames <= 0 {
		cfg.Preview.MaxFrames = Default().Preview.MaxFrames
	}
	return cfg
}

// Store is a concurrency-safe holder for the current config, swapped whole on
// reload.
type Store struct {
	v atomic.Value
}

// NewStore returns a Store seeded with cfg.
func NewStore(cfg Config) *Store {
	s := &Store{}
	s.v.Store(cfg)
	return s
}

// Get returns the current config.
func (s *Store) Get() Config {
	return s.v.Load().(Config)
}

// Set replaces the current config.
func (s *Store) Set(cfg Config) {
	s.v.Store(cfg)
}
