package config

import (
	"strconv"
	"strings"
)

// ApplyKVOverrides applies free-form -c key=value overrides.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	if len(overrides) == 0 {
		return cfg
	}
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		switch key {
		case "capacity":
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				cfg.Capacity = n
			}
		case "bridge_capacity":
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				cfg.BridgeCapacity = n
			}
		case "task_delay_secs":
			if n, err := strconv.Atoi(val); err == nil && n >= 0 {
				cfg.TaskDelaySecs = n
			}
		case "active_tick_ms":
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				cfg.ActiveTickMs = n
			}
		case "idle_tick_ms":
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				cfg.IdleTickMs = n
			}
		case "accent":
			cfg.Accent = val
		case "log_path":
			cfg.LogPath = val
		}
	}
	return cfg
}
