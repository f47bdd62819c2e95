package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	logx "toastd/pkg/logx"
)

func openDrivers(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	out := map[string]Store{}
	for _, cfg := range []Config{
		{Driver: "memory"},
		{Driver: "file", Path: filepath.Join(dir, "flash")},
		{Driver: "sqlite", Path: filepath.Join(dir, "flash.db"), BusyTimeout: time.Second},
	} {
		st, err := Open(cfg, logx.Nop())
		if err != nil {
			t.Fatalf("Open(%s): %v", cfg.Driver, err)
		}
		t.Cleanup(func() { _ = st.Close() })
		out[cfg.Driver] = st
	}
	return out
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, st := range openDrivers(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := st.Load(ctx, "missing"); err != nil || ok {
				t.Fatalf("Load(missing) = ok=%v err=%v", ok, err)
			}
			if err := st.Save(ctx, "s1", []byte(`{"a":1}`)); err != nil {
				t.Fatalf("Save: %v", err)
			}
			b, ok, err := st.Load(ctx, "s1")
			if err != nil || !ok {
				t.Fatalf("Load(s1) ok=%v err=%v", ok, err)
			}
			if string(b) != `{"a":1}` {
				t.Fatalf("Load(s1) = %q", b)
			}
			if err := st.Save(ctx, "s1", []byte(`{"a":2}`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			b, _, _ = st.Load(ctx, "s1")
			if string(b) != `{"a":2}` {
				t.Fatalf("after overwrite = %q", b)
			}
			if err := st.Save(ctx, "s1", nil); err != nil {
				t.Fatalf("Save(empty): %v", err)
			}
			if _, ok, _ := st.Load(ctx, "s1"); ok {
				t.Fatal("empty save should delete")
			}
		})
	}
}

func TestStoreRejectsBadKeys(t *testing.T) {
	ctx := context.Background()
	for name, st := range openDrivers(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"", "../etc/passwd", "a/b", "with space"} {
				if err := st.Save(ctx, id, []byte("x")); !errors.Is(err, ErrInvalidKey) {
					t.Fatalf("Save(%q) err = %v, want ErrInvalidKey", id, err)
				}
			}
		})
	}
}

func TestStorePrune(t *testing.T) {
	ctx := context.Background()
	for name, st := range openDrivers(t) {
		t.Run(name, func(t *testing.T) {
			if err := st.Save(ctx, "old", []byte("x")); err != nil {
				t.Fatalf("Save: %v", err)
			}
			n, err := st.Prune(ctx, time.Now().Add(-time.Hour))
			if err != nil {
				t.Fatalf("Prune: %v", err)
			}
			if n != 0 {
				t.Fatalf("pruned %d fresh sessions", n)
			}
			n, err = st.Prune(ctx, time.Now().Add(time.Hour))
			if err != nil {
				t.Fatalf("Prune: %v", err)
			}
			if n != 1 {
				t.Fatalf("pruned %d, want 1", n)
			}
			if _, ok, _ := st.Load(ctx, "old"); ok {
				t.Fatal("session survived prune")
			}
		})
	}
}

func TestFileStoreIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(Config{Driver: "file", Path: dir}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()
	other := filepath.Join(dir, "README")
	if err := os.WriteFile(other, []byte("keep"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Prune(context.Background(), time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if _, err := os.Stat(other); err != nil {
		t.Fatalf("foreign file removed: %v", err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(Config{Driver: "redis"}, logx.Nop()); err == nil {
		t.Fatal("expected error")
	}
	if _, err := Open(Config{Driver: "file"}, logx.Nop()); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestClosedStore(t *testing.T) {
	st := NewMemory()
	_ = st.Close()
	if err := st.Save(context.Background(), "a", []byte("x")); !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
}
