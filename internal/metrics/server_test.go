package metrics

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	logx "toastd/pkg/logx"
)

func waitAddr(t *testing.T, s *Server) string {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if a := s.Addr(); a != "" {
			return a
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("server never bound")
	return ""
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer res.Body.Close()
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

func TestServerLifecycle(t *testing.T) {
	s := NewServer(New(), ServerConfig{Addr: "127.0.0.1:0"}, logx.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx)
	addr := waitAddr(t, s)

	if code, body := get(t, "http://"+addr+"/healthz"); code != http.StatusOK || body != "ok" {
		t.Fatalf("healthz = %d %q", code, body)
	}
	if code, body := get(t, "http://"+addr+"/metrics"); code != http.StatusOK || !strings.Contains(body, "toastd_janitor_last_run_timestamp_seconds") {
		t.Fatalf("metrics = %d\n%s", code, body)
	}
	if code, _ := get(t, "http://"+addr+"/debug/pprof/"); code != http.StatusNotFound {
		t.Fatalf("pprof mounted without opt-in: %d", code)
	}

	s.Reconfigure(ctx, ServerConfig{Addr: "127.0.0.1:0", Pprof: true})
	addr = waitAddr(t, s)
	if code, _ := get(t, "http://"+addr+"/debug/pprof/"); code != http.StatusOK {
		t.Fatalf("pprof = %d", code)
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer stopCancel()
	s.Reconfigure(stopCtx, ServerConfig{})
	if s.Enabled() || s.Addr() != "" {
		t.Fatal("server still up after disable")
	}
}

func TestIsLoopbackAddr(t *testing.T) {
	tests := map[string]bool{
		"127.0.0.1:9464": true,
		"localhost:9464": true,
		"[::1]:9464":     true,
		"0.0.0.0:9464":   false,
		":9464":          false,
		"bogus":          false,
	}
	for in, want := range tests {
		if got := isLoopbackAddr(in); got != want {
			t.Fatalf("isLoopbackAddr(%q) = %v, want %v", in, got, want)
		}
	}
}
