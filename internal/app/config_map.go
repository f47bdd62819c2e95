package app

import (
	"fmt"
	"strings"
	"time"

	"toastd/internal/config"
	"toastd/internal/janitor"
	"toastd/internal/metrics"
	"toastd/internal/storage"
	"toastd/internal/toast"
	logx "toastd/pkg/logx"
)

func mapLogConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
}

func mapStorageConfig(cfg *config.Config) (storage.Config, error) {
	fc := cfg.Flash
	driver := strings.ToLower(strings.TrimSpace(fc.Driver))
	path := strings.TrimSpace(fc.Path)
	switch driver {
	case "", "memory":
		return storage.Config{Driver: "memory"}, nil
	case "file":
		if path == "" {
			return storage.Config{}, fmt.Errorf("flash.path is required when flash.driver=file")
		}
		return storage.Config{Driver: "file", Path: path}, nil
	case "sqlite", "sqlite3":
		if path == "" {
			return storage.Config{}, fmt.Errorf("flash.path is required when flash.driver=sqlite")
		}
		busy, err := config.ParseDurationOrDefault("flash.busy_timeout", fc.BusyTimeout, time.Second)
		if err != nil {
			return storage.Config{}, err
		}
		return storage.Config{Driver: "sqlite", Path: path, BusyTimeout: busy}, nil
	default:
		return storage.Config{}, fmt.Errorf("unknown flash.driver: %s", fc.Driver)
	}
}

func mapToastConfig(cfg *config.Config) (toast.Config, error) {
	timeouts, err := cfg.Toast.TimeoutDurations()
	if err != nil {
		return toast.Config{}, err
	}
	return toast.Config{
		Timeouts:       timeouts,
		Icons:          cfg.Toast.Icons,
		WarnRatePerSec: cfg.Toast.WarnRatePerSec,
	}, nil
}

func mapJanitorConfig(cfg *config.Config) (janitor.Config, error) {
	ttl, err := config.ParseDurationOrDefault("flash.ttl", cfg.Flash.TTL, janitor.DefaultTTL)
	if err != nil {
		return janitor.Config{}, err
	}
	if _, err := janitor.ParseSchedule(cfg.Janitor.Schedule); err != nil {
		return janitor.Config{}, err
	}
	return janitor.Config{
		Enabled:  cfg.Janitor.Enabled,
		Schedule: cfg.Janitor.Schedule,
		Timezone: cfg.Janitor.Timezone,
		TTL:      ttl,
	}, nil
}

func mapServerConfig(cfg *config.Config) metrics.ServerConfig {
	return metrics.ServerConfig{Addr: strings.TrimSpace(cfg.Metrics.Addr), Pprof: cfg.Metrics.Pprof}
}

// validate runs every mapping so a hot reload is rejected before commit.
func validate(cfg *config.Config) error {
	if _, err := mapStorageConfig(cfg); err != nil {
		return err
	}
	if _, err := mapToastConfig(cfg); err != nil {
		return err
	}
	if _, err := mapJanitorConfig(cfg); err != nil {
		return err
	}
	return nil
}
