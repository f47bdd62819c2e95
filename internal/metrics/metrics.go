// Package metrics exports toast and janitor activity as Prometheus
// collectors, fed from the event bus.
package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"toastd/internal/eventbus"
	"toastd/internal/janitor"
	"toastd/internal/toast"
)

// Metrics owns its registry so several instances (tests) do not collide.
type Metrics struct {
	reg *prometheus.Registry

	toasts      *prometheus.CounterVec
	occurrences prometheus.Histogram
	unknown     *prometheus.CounterVec
	pruned      prometheus.Counter
	prunes      *prometheus.CounterVec
	lastPrune   prometheus.Gauge

	// JSON snapshot state.
	created    atomic.Int64
	bumped     atomic.Int64
	adapted    atomic.Int64
	suppressed atomic.Int64
	removed    atomic.Int64
	lastRunAt  atomic.Int64
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		toasts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toastd_toasts_total",
				Help: "Toast lifecycle events by kind (created, bumped, adapted) and status",
			},
			[]string{"event", "status"},
		),
		occurrences: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "toastd_toast_occurrences",
				Help:    "Occurrence count of a toast each time it is bumped",
				Buckets: []float64{2, 3, 5, 10, 25, 50, 100},
			},
		),
		unknown: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toastd_toast_unknown_status_total",
				Help: "Legacy flashes with an unknown status, by whether the warning was logged",
			},
			[]string{"warning"},
		),
		pruned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "toastd_flash_sessions_pruned_total",
				Help: "Flash sessions removed by the janitor",
			},
		),
		prunes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toastd_janitor_runs_total",
				Help: "Janitor runs by result",
			},
			[]string{"result"},
		),
		lastPrune: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "toastd_janitor_last_run_timestamp_seconds",
				Help: "Unix timestamp of the last janitor run",
			},
		),
	}
	m.reg.MustRegister(m.toasts, m.occurrences, m.unknown, m.pruned, m.prunes, m.lastPrune)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Observe records one bus event. Unrelated events are ignored.
func (m *Metrics) Observe(e eventbus.Event) {
	switch e.Type {
	case toast.EventCreated, toast.EventBumped, toast.EventAdapted:
		ev, ok := e.Data.(toast.Event)
		if !ok {
			return
		}
		label := e.Type[len("toast."):]
		m.toasts.WithLabelValues(label, ev.Status).Inc()
		switch e.Type {
		case toast.EventCreated:
			m.created.Add(1)
		case toast.EventBumped:
			m.bumped.Add(1)
			m.occurrences.Observe(float64(ev.Count))
		case toast.EventAdapted:
			m.adapted.Add(1)
		}
	case toast.EventUnknownStatus:
		ev, ok := e.Data.(toast.Event)
		if !ok {
			return
		}
		warning := "logged"
		if ev.Suppressed {
			warning = "suppressed"
			m.suppressed.Add(1)
		}
		m.unknown.WithLabelValues(warning).Inc()
	case janitor.EventPruned:
		ev, ok := e.Data.(janitor.Event)
		if !ok {
			return
		}
		result := "success"
		if ev.Err != "" {
			result = "failure"
		}
		m.prunes.WithLabelValues(result).Inc()
		m.pruned.Add(float64(ev.Removed))
		m.removed.Add(int64(ev.Removed))
		at := e.Time
		if at.IsZero() {
			at = time.Now()
		}
		m.lastPrune.Set(float64(at.Unix()))
		m.lastRunAt.Store(at.Unix())
	}
}

// Run feeds Observe from bus until ctx is done.
func (m *Metrics) Run(ctx context.Context, bus eventbus.Bus) {
	events, unsub := bus.Subscribe(256)
	defer unsub()
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			m.Observe(e)
		}
	}
}

// Snapshot is a JSON view of the counters.
type Snapshot struct {
	Created            int64  `json:"created"`
	Bumped             int64  `json:"bumped"`
	Adapted            int64  `json:"adapted"`
	SuppressedWarnings int64  `json:"suppressed_warnings"`
	Pruned             int64  `json:"pruned"`
	LastPrune          int64  `json:"last_prune_timestamp,omitempty"`
	LastPruneAt        string `json:"last_prune_at,omitempty"`
}

func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		Created:            m.created.Load(),
		Bumped:             m.bumped.Load(),
		Adapted:            m.adapted.Load(),
		SuppressedWarnings: m.suppressed.Load(),
		Pruned:             m.removed.Load(),
	}
	if ts := m.lastRunAt.Load(); ts > 0 {
		s.LastPrune = ts
		s.LastPruneAt = time.Unix(ts, 0).UTC().Format(time.RFC3339)
	}
	return s
}

// Handler serves the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// JSONHandler serves Snapshot as JSON.
func (m *Metrics) JSONHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(m.Snapshot())
	})
}

// Mux routes /metrics and /metrics.json.
func (m *Metrics) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.Handle("/metrics.json", m.JSONHandler())
	return mux
}
