// Package app wires config, logging, flash storage, the toast service,
// metrics and the janitor into one process.
package app

import (
	"context"
	"errors"
	"fmt"

	"toastd/internal/config"
	"toastd/internal/eventbus"
	"toastd/internal/flash"
	"toastd/internal/janitor"
	"toastd/internal/metrics"
	"toastd/internal/runtime/supervisor"
	"toastd/internal/storage"
	"toastd/internal/toast"
	logx "toastd/pkg/logx"
)

type App struct {
	cfgm *config.ConfigManager // nil when running on defaults
	cfg  *config.Config

	log  logx.Logger
	logs *logx.Service
	bus  eventbus.Bus

	store   storage.Store
	toasts  *toast.Service
	janitor *janitor.Service
	metrics *metrics.Metrics
	server  *metrics.Server

	sup *supervisor.Supervisor
}

// New loads cfgPath (JSON, YAML or TOML) and builds every component.
// An empty path runs on config.Default and disables hot reload.
func New(cfgPath string) (*App, error) {
	var (
		cfgm *config.ConfigManager
		cfg  *config.Config
	)
	if cfgPath == "" {
		cfg = config.Default()
	} else {
		cfgm = config.NewConfigManager(cfgPath)
		var err error
		if cfg, err = cfgm.Load(); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	return build(cfgm, cfg)
}

// NewFromConfig builds an App from an in-memory config.
func NewFromConfig(cfg *config.Config) (*App, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return build(nil, cfg)
}

func build(cfgm *config.ConfigManager, cfg *config.Config) (*App, error) {
	logSvc, log := logx.New(mapLogConfig(cfg))
	bus := eventbus.New()

	sc, err := mapStorageConfig(cfg)
	if err != nil {
		logSvc.Close()
		return nil, err
	}
	tc, err := mapToastConfig(cfg)
	if err != nil {
		logSvc.Close()
		return nil, err
	}
	jc, err := mapJanitorConfig(cfg)
	if err != nil {
		logSvc.Close()
		return nil, err
	}

	store, err := storage.Open(sc, log.With(logx.String("comp", "storage")))
	if err != nil {
		logSvc.Close()
		return nil, fmt.Errorf("open flash storage: %w", err)
	}
	log.Debug("flash storage ready", logx.String("driver", sc.Driver))

	m := metrics.New()

	return &App{
		cfgm:    cfgm,
		cfg:     cfg,
		log:     log.With(logx.String("comp", "app")),
		logs:    logSvc,
		bus:     bus,
		store:   store,
		toasts:  toast.NewService(tc, log, bus),
		janitor: janitor.New(jc, store, log.With(logx.String("comp", "janitor")), bus),
		metrics: m,
		server:  metrics.NewServer(m, mapServerConfig(cfg), log.With(logx.String("comp", "metrics"))),
	}, nil
}

func (a *App) Config() *config.Config {
	if a.cfgm != nil {
		if cfg := a.cfgm.Get(); cfg != nil {
			return cfg
		}
	}
	return a.cfg
}

func (a *App) Logger() logx.Logger            { return a.log }
func (a *App) Bus() eventbus.Bus              { return a.bus }
func (a *App) Storage() storage.Store         { return a.store }
func (a *App) Toasts() *toast.Service         { return a.toasts }
func (a *App) Janitor() *janitor.Service      { return a.janitor }
func (a *App) Metrics() *metrics.Metrics      { return a.metrics }
func (a *App) MetricsServer() *metrics.Server { return a.server }

// WithSession runs fn against the toast store of flash session id (empty
// starts a new one) and commits the bag afterwards. The session is left
// untouched if fn fails. It returns the session id.
func (a *App) WithSession(ctx context.Context, id string, fn func(*toast.Store) error) (string, error) {
	sess, err := flash.Begin(ctx, a.store, id)
	if err != nil {
		return id, err
	}
	if err := fn(a.toasts.Store(sess.Bag)); err != nil {
		return sess.ID, err
	}
	if err := sess.Commit(ctx); err != nil {
		return sess.ID, fmt.Errorf("commit flash session: %w", err)
	}
	return sess.ID, nil
}

// AddFlash stores a plain text flash under key, the way code unaware of
// toasts does. It is adapted into a toast when read.
func (a *App) AddFlash(ctx context.Context, id, key, text string) (string, error) {
	sess, err := flash.Begin(ctx, a.store, id)
	if err != nil {
		return id, err
	}
	sess.Bag.Add(key, toast.TextValue(text))
	if err := sess.Commit(ctx); err != nil {
		return sess.ID, fmt.Errorf("commit flash session: %w", err)
	}
	return sess.ID, nil
}

// Prune removes stale sessions once, regardless of janitor.enabled.
func (a *App) Prune(ctx context.Context) (int, error) {
	return a.janitor.RunOnce(ctx)
}

// Close releases storage and log sinks. Use Stop for a started daemon.
func (a *App) Close() error {
	err := a.store.Close()
	if cerr := a.logs.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return err
}
