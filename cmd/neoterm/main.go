package main

import (
	"flag"
	"time"

	"neoterm/internal/config"
	"neoterm/internal/logger"
	"neoterm/internal/panel"
	"neoterm/internal/tui"
)

var log = logger.Named("main")

func main() {
	var (
		cfgPath   = flag.String("config", "", "path to config.toml (default ~/.neoterm/config.toml)")
		overrides stringSlice
	)
	flag.Var(&overrides, "c", "override config key=value (repeatable)")
	flag.Parse()

	logger.Configure()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	cfg = config.ApplyKVOverrides(cfg, overrides)

	if logFile, path, err := logger.SetupFile(cfg.LogPath); err != nil {
		log.Warnf("failed to initialize log file (%s): %v", cfg.LogPath, err)
	} else {
		log.Infof("logging to %s", path)
		defer logFile.Close()
	}

	p := panel.New(panel.Options{
		Capacity:       cfg.Capacity,
		BridgeCapacity: cfg.BridgeCapacity,
		TaskDelay:      time.Duration(cfg.TaskDelaySecs) * time.Second,
	})
	defer p.Close()

	if err := tui.Run(tui.Options{
		Panel:      p,
		Accent:     cfg.Accent,
		ActiveTick: time.Duration(cfg.ActiveTickMs) * time.Millisecond,
		IdleTick:   time.Duration(cfg.IdleTickMs) * time.Millisecond,
	}); err != nil {
		logger.Fatalf("program exit: %v", err)
	}
}
