// Package janitor prunes flash sessions nobody came back for.
package janitor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"toastd/internal/eventbus"
	"toastd/internal/storage"
	logx "toastd/pkg/logx"
)

const (
	DefaultSchedule = "@every 15m"
	DefaultTTL      = 24 * time.Hour

	// EventPruned is published after every run.
	EventPruned = "flash.pruned"
)

// Event is the payload of EventPruned.
type Event struct {
	Removed int           `json:"removed"`
	Took    time.Duration `json:"took"`
	Err     string        `json:"err,omitempty"`
}

type Config struct {
	Enabled  bool
	Schedule string // cron spec or descriptor; default DefaultSchedule
	Timezone string
	TTL      time.Duration // default DefaultTTL
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule validates a schedule spec. Empty means DefaultSchedule.
func ParseSchedule(spec string) (cron.Schedule, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		spec = DefaultSchedule
	}
	sched, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("janitor.schedule %q: %w", spec, err)
	}
	return sched, nil
}

// Service runs Prune on a cron schedule.
type Service struct {
	mu sync.Mutex

	cfg   Config
	store storage.Store
	log   logx.Logger
	bus   eventbus.Bus
	now   func() time.Time

	c   *cron.Cron
	ctx context.Context // parent for scheduled runs; nil when stopped
}

func New(cfg Config, store storage.Store, log logx.Logger, bus eventbus.Bus) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	if bus == nil {
		bus = eventbus.Nop()
	}
	return &Service{cfg: normalize(cfg), store: store, log: log, bus: bus, now: time.Now}
}

func normalize(cfg Config) Config {
	if strings.TrimSpace(cfg.Schedule) == "" {
		cfg.Schedule = DefaultSchedule
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return cfg
}

func (s *Service) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Enabled
}

// RunOnce prunes sessions last saved more than TTL ago.
func (s *Service) RunOnce(ctx context.Context) (int, error) {
	s.mu.Lock()
	ttl := s.cfg.TTL
	s.mu.Unlock()

	start := s.now()
	removed, err := s.store.Prune(ctx, start.Add(-ttl))
	took := s.now().Sub(start)

	ev := Event{Removed: removed, Took: took}
	if err != nil {
		ev.Err = err.Error()
		s.log.Warn("flash prune failed", logx.Err(err), logx.Duration("took", took))
	} else if removed > 0 {
		s.log.Info("flash sessions pruned", logx.Int("removed", removed), logx.Duration("ttl", ttl), logx.Duration("took", took))
	} else {
		s.log.Debug("flash prune: nothing to do", logx.Duration("ttl", ttl))
	}
	s.bus.Publish(eventbus.Event{Type: EventPruned, Time: start, Data: ev})
	return removed, err
}

// Start schedules RunOnce. It is a no-op when disabled or already started.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cfg.Enabled || s.c != nil {
		return nil
	}
	s.ctx = ctx
	return s.startLocked()
}

func (s *Service) startLocked() error {
	loc := s.locationLocked()
	c := cron.New(cron.WithParser(parser), cron.WithLocation(loc))
	ctx := s.ctx
	if _, err := c.AddFunc(s.cfg.Schedule, func() {
		if ctx.Err() != nil {
			return
		}
		_, _ = s.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("janitor.schedule %q: %w", s.cfg.Schedule, err)
	}
	s.c = c
	c.Start()
	s.log.Info("janitor started",
		logx.String("schedule", s.cfg.Schedule),
		logx.Duration("ttl", s.cfg.TTL),
		logx.String("tz", loc.String()),
	)
	return nil
}

// Stop waits for a running prune to finish or ctx to expire.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	c := s.c
	s.c = nil
	s.ctx = nil
	s.mu.Unlock()
	if c == nil {
		return nil
	}
	select {
	case <-c.Stop().Done():
		s.log.Info("janitor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Apply swaps the config. A started janitor is rescheduled, or stopped when
// disabled; a stopped one started with ctx when newly enabled.
func (s *Service) Apply(ctx context.Context, cfg Config) error {
	cfg = normalize(cfg)
	if _, err := ParseSchedule(cfg.Schedule); err != nil {
		return err
	}

	s.mu.Lock()
	old := s.cfg
	s.cfg = cfg
	running := s.c != nil
	s.mu.Unlock()

	switch {
	case running && !cfg.Enabled:
		return s.Stop(ctx)
	case running && (old.Schedule != cfg.Schedule || old.Timezone != cfg.Timezone):
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.c == nil {
			return nil
		}
		<-s.c.Stop().Done()
		return s.startLocked()
	case !running && cfg.Enabled:
		return s.Start(ctx)
	}
	return nil
}

func (s *Service) locationLocked() *time.Location {
	tz := strings.TrimSpace(s.cfg.Timezone)
	if tz == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		s.log.Warn("invalid timezone, falling back to Local", logx.String("tz", tz), logx.Err(err))
		return time.Local
	}
	return loc
}
