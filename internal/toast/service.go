package toast

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"toastd/internal/eventbus"
	logx "toastd/pkg/logx"
)

// Event types published on the bus.
const (
	EventCreated = "toast.created"
	EventBumped  = "toast.bumped"
	EventAdapted = "toast.adapted"
	// EventUnknownStatus fires for every legacy flash key that is not a known
	// status, whether or not its warning was rate limited.
	EventUnknownStatus = "toast.unknown_status"
)

// Event is the payload of toast lifecycle events.
type Event struct {
	ID         string `json:"id,omitempty"`
	Status     string `json:"status"`
	Count      int    `json:"count,omitempty"`
	Suppressed bool   `json:"suppressed,omitempty"`
}

// Config holds app-wide toast defaults.
type Config struct {
	// Timeouts are default auto-dismiss delays per status, applied when the
	// caller does not pass WithTimeout.
	Timeouts map[string]time.Duration
	// Icons override or extend the built-in icon table (key -> SVG body).
	Icons map[string]string
	// WarnRatePerSec throttles "unsupported status" warnings.
	WarnRatePerSec int
}

// Service holds the collaborators shared by every request: logger, event
// bus, defaults and icons. Stores are cheap and bound per request.
//
// It is safe for concurrent use.
type Service struct {
	log logx.Logger
	bus eventbus.Bus

	mu         sync.RWMutex
	cfg        Config
	icons      IconProvider
	limiter    *rate.Limiter
	suppressed int // warnings dropped by limiter since the last one logged
}

func NewService(cfg Config, log logx.Logger, bus eventbus.Bus) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	if bus == nil {
		bus = eventbus.Nop()
	}
	s := &Service{log: log.With(logx.String("comp", "toast")), bus: bus}
	s.Apply(cfg)
	return s
}

// Apply swaps defaults at runtime (config reload).
func (s *Service) Apply(cfg Config) {
	if cfg.WarnRatePerSec <= 0 {
		cfg.WarnRatePerSec = 5
	}
	timeouts := make(map[string]time.Duration, len(cfg.Timeouts))
	for k, v := range cfg.Timeouts {
		timeouts[strings.ToLower(k)] = v
	}
	cfg.Timeouts = timeouts

	var icons IconProvider
	if len(cfg.Icons) > 0 {
		icons = MapIcons(cfg.Icons)
	}

	s.mu.Lock()
	s.cfg = cfg
	s.icons = icons
	s.limiter = rate.NewLimiter(rate.Limit(cfg.WarnRatePerSec), cfg.WarnRatePerSec)
	s.mu.Unlock()
}

// Store binds a request's flash bag.
func (s *Service) Store(bag FlashBag) *Store {
	return &Store{bag: bag, svc: s, log: s.log}
}

// StoreFromContext binds the flash bag attached with WithBag.
func (s *Service) StoreFromContext(ctx context.Context) (*Store, error) {
	bag, ok := BagFromContext(ctx)
	if !ok {
		return nil, ErrNoBag
	}
	return s.Store(bag), nil
}

// Icons returns the configured icon provider, or nil for built-ins only.
func (s *Service) Icons() IconProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.icons
}

// Render renders r with the configured icons.
func (s *Service) Render(r *Record) string {
	return Render(r, s.Icons())
}

func (s *Service) defaultTimeout(status string) (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.cfg.Timeouts[strings.ToLower(status)]
	return d, ok
}

// allowWarn reports whether an unsupported-status warning may be logged and
// how many were dropped before it.
func (s *Service) allowWarn() (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.limiter != nil && !s.limiter.Allow() {
		s.suppressed++
		return false, 0
	}
	n := s.suppressed
	s.suppressed = 0
	return true, n
}

func (s *Service) publish(typ string, r *Record) {
	s.publishEvent(typ, Event{ID: r.ID(), Status: r.Status(), Count: r.Count()})
}

func (s *Service) publishEvent(typ string, e Event) {
	s.bus.Publish(eventbus.Event{Type: typ, Time: time.Now(), Data: e})
}
