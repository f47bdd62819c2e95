package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"toastd/internal/config"
	"toastd/internal/toast"
)

func quietConfig() *config.Config {
	cfg := config.Default()
	cfg.Logging.Level = "error"
	return cfg
}

func TestSessionSurvivesOneRedirect(t *testing.T) {
	cfg := quietConfig()
	cfg.Flash = config.FlashConfig{Driver: "file", Path: t.TempDir()}
	a, err := NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	defer a.Close()
	ctx := context.Background()

	// Request 1 raises the same toast twice.
	id, err := a.WithSession(ctx, "", func(st *toast.Store) error {
		if err := st.AddMessage("success", "Saved"); err != nil {
			return err
		}
		return st.AddMessage("success", "Saved", toast.WithDescription("again"))
	})
	if err != nil {
		t.Fatalf("request 1: %v", err)
	}

	// Request 2 renders and consumes.
	var rendered []*toast.Record
	if _, err := a.WithSession(ctx, id, func(st *toast.Store) error {
		all, err := st.GetAllMessages(false)
		rendered = toast.Ordered(all)
		return err
	}); err != nil {
		t.Fatalf("request 2: %v", err)
	}
	if len(rendered) != 1 || rendered[0].Count() != 2 {
		t.Fatalf("rendered = %v", rendered)
	}

	// Request 3 sees nothing.
	if _, err := a.WithSession(ctx, id, func(st *toast.Store) error {
		if st.HasMessages() {
			return errors.New("toasts survived a consuming read")
		}
		return nil
	}); err != nil {
		t.Fatalf("request 3: %v", err)
	}
}

func TestWithSessionErrorSkipsCommit(t *testing.T) {
	a, err := NewFromConfig(quietConfig())
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	defer a.Close()
	ctx := context.Background()

	id, _ := a.WithSession(ctx, "", func(st *toast.Store) error { return st.AddMessage("info", "kept") })

	boom := errors.New("handler failed")
	if _, err := a.WithSession(ctx, id, func(st *toast.Store) error {
		_, _ = st.GetAllMessages(false)
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}

	_, _ = a.WithSession(ctx, id, func(st *toast.Store) error {
		if !st.HasMessage(toast.Identify("info", "kept")) {
			t.Fatal("failed request drained the stored session")
		}
		return nil
	})
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := quietConfig()
	cfg.Janitor.Schedule = "whenever"
	if _, err := NewFromConfig(cfg); err == nil {
		t.Fatal("bad janitor schedule accepted")
	}

	cfg = quietConfig()
	cfg.Flash.Driver = "redis"
	if _, err := NewFromConfig(cfg); err == nil {
		t.Fatal("unknown driver accepted")
	}
}

func TestBuildRejectsUnmappableConfig(t *testing.T) {
	tests := map[string]func(*config.Config){
		"toast timeout":    func(c *config.Config) { c.Toast.Timeouts = map[string]string{"success": "soon"} },
		"janitor schedule": func(c *config.Config) { c.Janitor.Schedule = "whenever" },
		"flash ttl":        func(c *config.Config) { c.Flash.TTL = "forever" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := quietConfig()
			mutate(cfg)
			if a, err := build(nil, cfg); err == nil {
				a.Close()
				t.Fatal("build accepted config")
			}
		})
	}
}

func TestConfigDefaultsApplied(t *testing.T) {
	cfg := quietConfig()
	cfg.Toast.Timeouts = map[string]string{"success": "3s"}
	a, err := NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	defer a.Close()

	_, err = a.WithSession(context.Background(), "", func(st *toast.Store) error {
		if err := st.AddMessage("success", "ok"); err != nil {
			return err
		}
		r := st.GetMessage(toast.Identify("success", "ok"))
		if d, ok := r.EffectiveTimeout(); !ok || d != 3*time.Second {
			t.Fatalf("timeout = %v/%v", d, ok)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithSession: %v", err)
	}
}

func TestDaemonStartReloadStop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toastd.yaml")
	write := func(body string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}
	write("logging:\n  level: error\nflash:\n  driver: memory\n")

	a, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := a.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	write("logging:\n  level: error\nflash:\n  driver: memory\ntoast:\n  timeouts:\n    info: 7s\n")

	deadline := time.Now().Add(5 * time.Second)
	for {
		if cfg := a.Config(); cfg.Toast.Timeouts["info"] == "7s" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("config reload not observed")
		}
		time.Sleep(20 * time.Millisecond)
	}

	// The toast service picks the new default up once the reload loop ran.
	deadline = time.Now().Add(2 * time.Second)
	for {
		var got time.Duration
		_, _ = a.WithSession(ctx, "", func(st *toast.Store) error {
			_ = st.AddMessage("info", "hi")
			got, _ = st.GetMessage(toast.Identify("info", "hi")).EffectiveTimeout()
			return nil
		})
		if got == 7*time.Second {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("timeout default = %v after reload", got)
		}
		time.Sleep(20 * time.Millisecond)
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	if err := a.Stop(stopCtx, StopAppStop); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	select {
	case <-a.Done():
	default:
		t.Fatal("Done not closed after Stop")
	}
	if a.Err() != nil {
		t.Fatalf("Err = %v", a.Err())
	}
}
