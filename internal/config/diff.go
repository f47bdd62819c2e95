package config

import (
	"maps"
	"strings"

	logx "toastd/pkg/logx"
)

// SummarizeConfigChange returns the changed top-level sections and
// structured attrs safe to log (icon bodies are summarized, not dumped).
func SummarizeConfigChange(oldCfg, newCfg *Config) ([]string, []logx.Field) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	changed := make([]string, 0, 5)
	attrs := make([]logx.Field, 0, 12)

	if oldCfg.Logging != newCfg.Logging {
		changed = append(changed, "logging")
		attrs = append(attrs,
			logx.String("logging.level", newCfg.Logging.Level),
			logx.Bool("logging.console", newCfg.Logging.Console),
			logx.Bool("logging.file_enabled", newCfg.Logging.File.Enabled),
		)
	}

	if !sameFlash(oldCfg.Flash, newCfg.Flash) {
		changed = append(changed, "flash")
		attrs = append(attrs,
			logx.String("flash.driver", strings.TrimSpace(newCfg.Flash.Driver)),
			logx.String("flash.ttl", strings.TrimSpace(newCfg.Flash.TTL)),
		)
	}

	if !maps.Equal(oldCfg.Toast.Timeouts, newCfg.Toast.Timeouts) ||
		!maps.Equal(oldCfg.Toast.Icons, newCfg.Toast.Icons) ||
		oldCfg.Toast.WarnRatePerSec != newCfg.Toast.WarnRatePerSec {
		changed = append(changed, "toast")
		attrs = append(attrs,
			logx.Int("toast.timeouts", len(newCfg.Toast.Timeouts)),
			logx.Int("toast.icons", len(newCfg.Toast.Icons)),
			logx.Int("toast.warn_rate_per_sec", newCfg.Toast.WarnRatePerSec),
		)
	}

	if oldCfg.Janitor != newCfg.Janitor {
		changed = append(changed, "janitor")
		attrs = append(attrs,
			logx.Bool("janitor.enabled", newCfg.Janitor.Enabled),
			logx.String("janitor.schedule", strings.TrimSpace(newCfg.Janitor.Schedule)),
		)
	}

	if strings.TrimSpace(oldCfg.Metrics.Addr) != strings.TrimSpace(newCfg.Metrics.Addr) ||
		oldCfg.Metrics.Pprof != newCfg.Metrics.Pprof {
		changed = append(changed, "metrics")
		attrs = append(attrs,
			logx.String("metrics.addr", strings.TrimSpace(newCfg.Metrics.Addr)),
			logx.Bool("metrics.pprof", newCfg.Metrics.Pprof),
		)
	}

	return changed, attrs
}

func sameFlash(a, b FlashConfig) bool {
	return strings.EqualFold(strings.TrimSpace(a.Driver), strings.TrimSpace(b.Driver)) &&
		strings.TrimSpace(a.Path) == strings.TrimSpace(b.Path) &&
		strings.TrimSpace(a.BusyTimeout) == strings.TrimSpace(b.BusyTimeout) &&
		strings.TrimSpace(a.TTL) == strings.TrimSpace(b.TTL)
}
