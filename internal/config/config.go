package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config is the only persisted config file schema.
type Config struct {
	// Capacity is the line buffer limit; oldest lines are evicted beyond it.
	Capacity int `toml:"capacity"`
	// BridgeCapacity is the queue depth of the task-to-console bridge.
	BridgeCapacity int `toml:"bridge_capacity"`
	// TaskDelaySecs is how long the slow demo task waits before reporting.
	TaskDelaySecs int `toml:"task_delay_secs"`
	// ActiveTickMs / IdleTickMs control the redraw cadence.
	ActiveTickMs int `toml:"active_tick_ms"`
	IdleTickMs   int `toml:"idle_tick_ms"`
	// Accent is the UI accent color (hex).
	Accent  string `toml:"accent"`
	LogPath string `toml:"log_path"`
	Source  string `toml:"-"`
}

func Default() Config {
	return Config{
		Capacity:       1000,
		BridgeCapacity: 100,
		TaskDelaySecs:  2,
		ActiveTickMs:   50,
		IdleTickMs:     250,
		Accent:         "#00FF44",
		LogPath:        "logs/neoterm.log",
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".neoterm", "config.toml")
}

func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(cfg), nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, err
	}
	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if env := strings.TrimSpace(os.Getenv("NEOTERM_LOG_PATH")); env != "" {
		cfg.LogPath = env
	}
	if env := strings.TrimSpace(os.Getenv("NEOTERM_ACCENT")); env != "" {
		cfg.Accent = env
	}
	return cfg
}
