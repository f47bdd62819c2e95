package metrics

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"toastd/internal/eventbus"
	"toastd/internal/janitor"
	"toastd/internal/toast"
)

func TestObserveToastEvents(t *testing.T) {
	m := New()
	m.Observe(eventbus.Event{Type: toast.EventCreated, Data: toast.Event{Status: "info", Count: 1}})
	m.Observe(eventbus.Event{Type: toast.EventBumped, Data: toast.Event{Status: "info", Count: 2}})
	m.Observe(eventbus.Event{Type: toast.EventBumped, Data: toast.Event{Status: "info", Count: 3}})
	m.Observe(eventbus.Event{Type: toast.EventAdapted, Data: toast.Event{Status: "warning", Count: 1}})
	m.Observe(eventbus.Event{Type: "something.else", Data: 1})
	m.Observe(eventbus.Event{Type: toast.EventCreated, Data: "wrong payload"})

	if got := testutil.ToFloat64(m.toasts.WithLabelValues("created", "info")); got != 1 {
		t.Fatalf("created = %v", got)
	}
	if got := testutil.ToFloat64(m.toasts.WithLabelValues("bumped", "info")); got != 2 {
		t.Fatalf("bumped = %v", got)
	}
	if got := testutil.ToFloat64(m.toasts.WithLabelValues("adapted", "warning")); got != 1 {
		t.Fatalf("adapted = %v", got)
	}
	snap := m.Snapshot()
	if snap.Created != 1 || snap.Bumped != 2 || snap.Adapted != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestObservePrunes(t *testing.T) {
	m := New()
	at := time.Unix(1_700_000_000, 0)
	m.Observe(eventbus.Event{Type: janitor.EventPruned, Time: at, Data: janitor.Event{Removed: 4}})
	m.Observe(eventbus.Event{Type: janitor.EventPruned, Time: at, Data: janitor.Event{Err: "boom"}})

	if got := testutil.ToFloat64(m.pruned); got != 4 {
		t.Fatalf("pruned = %v", got)
	}
	if got := testutil.ToFloat64(m.prunes.WithLabelValues("failure")); got != 1 {
		t.Fatalf("failures = %v", got)
	}
	if got := testutil.ToFloat64(m.lastPrune); got != float64(at.Unix()) {
		t.Fatalf("last prune = %v", got)
	}
}

func TestObserveUnknownStatus(t *testing.T) {
	m := New()
	m.Observe(eventbus.Event{Type: toast.EventUnknownStatus, Data: toast.Event{Status: "alert"}})
	m.Observe(eventbus.Event{Type: toast.EventUnknownStatus, Data: toast.Event{Status: "alert", Suppressed: true}})
	m.Observe(eventbus.Event{Type: toast.EventUnknownStatus, Data: toast.Event{Status: "alert", Suppressed: true}})

	if got := testutil.ToFloat64(m.unknown.WithLabelValues("logged")); got != 1 {
		t.Fatalf("logged = %v", got)
	}
	if got := testutil.ToFloat64(m.unknown.WithLabelValues("suppressed")); got != 2 {
		t.Fatalf("suppressed = %v", got)
	}
	if got := m.Snapshot().SuppressedWarnings; got != 2 {
		t.Fatalf("snapshot suppressed = %d", got)
	}
}

func TestRunConsumesBus(t *testing.T) {
	m := New()
	bus := eventbus.New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { m.Run(ctx, bus); close(done) }()
	defer func() { cancel(); <-done }()

	deadline := time.Now().Add(2 * time.Second)
	for m.Snapshot().Created == 0 {
		if time.Now().After(deadline) {
			t.Fatal("event never observed")
		}
		// Publish until the subscriber is registered.
		bus.Publish(eventbus.Event{Type: toast.EventCreated, Data: toast.Event{Status: "success", Count: 1}})
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHandlers(t *testing.T) {
	m := New()
	m.Observe(eventbus.Event{Type: toast.EventCreated, Data: toast.Event{Status: "danger", Count: 1}})
	srv := httptest.NewServer(m.Mux())
	defer srv.Close()

	res, err := srv.Client().Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	if !strings.Contains(string(body), `toastd_toasts_total{event="created",status="danger"} 1`) {
		t.Fatalf("missing counter:\n%s", body)
	}

	res, err = srv.Client().Get(srv.URL + "/metrics.json")
	if err != nil {
		t.Fatalf("GET /metrics.json: %v", err)
	}
	defer res.Body.Close()
	var snap Snapshot
	if err := json.NewDecoder(res.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Created != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
}
