package config

// Config is the toastd configuration file.
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
type Config struct {
	Logging LoggingConfig `json:"logging"`
	Flash   FlashConfig   `json:"flash"`
	Toast   ToastConfig   `json:"toast"`
	Janitor JanitorConfig `json:"janitor"`
	Metrics MetricsConfig `json:"metrics,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// FlashConfig selects where flash sessions are persisted between requests.
//
// Example:
//
//	"flash": { "driver": "sqlite", "path": "./toastd.db", "ttl": "30m" }
type FlashConfig struct {
	Driver      string `json:"driver"` // memory (default), file, sqlite
	Path        string `json:"path,omitempty"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // sqlite only
	// TTL is how long an untouched session is kept before the janitor
	// prunes it. Default: 24h.
	TTL string `json:"ttl,omitempty"`
}

// ToastConfig holds app-wide toast defaults.
type ToastConfig struct {
	// Timeouts maps a status to its default auto-dismiss delay.
	// Danger toasts never auto-dismiss regardless of this setting.
	Timeouts map[string]string `json:"timeouts,omitempty"`
	// Icons maps an icon key to an SVG body (16x16 viewBox).
	Icons map[string]string `json:"icons,omitempty"`
	// WarnRatePerSec throttles "unsupported toast status" warnings. Default: 5.
	WarnRatePerSec int `json:"warn_rate_per_sec,omitempty"`
}

// JanitorConfig controls the background pruning of stale flash sessions.
type JanitorConfig struct {
	Enabled bool `json:"enabled"`
	// Schedule is a standard 5-field cron spec or a descriptor such as
	// "@every 10m". Default: "@every 15m".
	Schedule string `json:"schedule,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// MetricsConfig controls the optional /metrics endpoint.
//
// Prefer binding to localhost (e.g. "127.0.0.1:9464").
type MetricsConfig struct {
	Addr  string `json:"addr,omitempty"`  // empty disables the endpoint
	Pprof bool   `json:"pprof,omitempty"` // also serve /debug/pprof/
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Console: true},
		Flash:   FlashConfig{Driver: "memory"},
	}
}
