package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate rejects configs that would fail later at runtime, so a bad hot
// reload is dropped before it is committed.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil: %w", ErrInvalid)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Flash.Driver)) {
	case "", "memory":
	case "file", "sqlite", "sqlite3":
		if strings.TrimSpace(cfg.Flash.Path) == "" {
			return fmt.Errorf("flash.path is required when flash.driver=%s: %w", cfg.Flash.Driver, ErrInvalid)
		}
	default:
		return fmt.Errorf("unknown flash.driver %q: %w", cfg.Flash.Driver, ErrInvalid)
	}
	if _, err := ParseDurationField("flash.busy_timeout", cfg.Flash.BusyTimeout); err != nil {
		return errors.Join(err, ErrInvalid)
	}
	if _, err := ParseDurationField("flash.ttl", cfg.Flash.TTL); err != nil {
		return errors.Join(err, ErrInvalid)
	}

	for status, raw := range cfg.Toast.Timeouts {
		if !isLetters(status) {
			return fmt.Errorf("toast.timeouts: status %q may only contain letters: %w", status, ErrInvalid)
		}
		if _, err := ParseDurationField("toast.timeouts."+status, raw); err != nil {
			return errors.Join(err, ErrInvalid)
		}
	}
	for key := range cfg.Toast.Icons {
		if !isLetters(strings.NewReplacer(":", "", ".", "", "-", "").Replace(key)) {
			return fmt.Errorf("toast.icons: key %q may only contain letters, colon, period or hyphen: %w", key, ErrInvalid)
		}
	}
	if cfg.Toast.WarnRatePerSec < 0 {
		return fmt.Errorf("toast.warn_rate_per_sec must be >= 0: %w", ErrInvalid)
	}

	if tz := strings.TrimSpace(cfg.Janitor.Timezone); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("janitor.timezone: invalid %q: %w", tz, errors.Join(err, ErrInvalid))
		}
	}
	return nil
}

// TimeoutDurations parses toast.timeouts. Call Validate first.
func (t ToastConfig) TimeoutDurations() (map[string]time.Duration, error) {
	out := make(map[string]time.Duration, len(t.Timeouts))
	for status, raw := range t.Timeouts {
		d, err := ParseDurationField("toast.timeouts."+status, raw)
		if err != nil {
			return nil, err
		}
		out[strings.ToLower(status)] = d
	}
	return out, nil
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
