package systemd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu     sync.Mutex
	states []string
	err    error
}

func (r *recorder) notify(_ bool, state string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
	return r.err == nil, r.err
}

func (r *recorder) count(state string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.states {
		if s == state {
			n++
		}
	}
	return n
}

func newTestNotifier(rec *recorder, interval time.Duration, watchdogErr error) *Notifier {
	watchdog := func(bool) (time.Duration, error) { return interval, watchdogErr }
	return &Notifier{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		notify:   rec.notify,
		watchdog: watchdog,
	}
}

func TestNotifierStates(t *testing.T) {
	rec := &recorder{}
	n := newTestNotifier(rec, 0, nil)

	n.Ready()
	n.Status("2 capture devices")
	n.Stopping()

	want := []string{"READY=1", "STATUS=2 capture devices", "STOPPING=1"}
	if len(rec.states) != len(want) {
		t.Fatalf("states = %v, want %v", rec.states, want)
	}
	for i := range want {
		if rec.states[i] != want[i] {
			t.Errorf("state %d = %q, want %q", i, rec.states[i], want[i])
		}
	}
}

func TestNotifierToleratesErrors(t *testing.T) {
	rec := &recorder{err: errors.New("socket gone")}
	n := newTestNotifier(rec, 0, nil)
	n.Ready()
	n.Stopping()
	if rec.count("READY=1") != 1 {
		t.Errorf("states = %v", rec.states)
	}
}

func TestRunWatchdog(t *testing.T) {
	rec := &recorder{}
	n := newTestNotifier(rec, 20*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		n.RunWatchdog(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for rec.count("WATCHDOG=1") < 2 {
		if time.Now().After(deadline) {
			t.Fatal("watchdog not pinged")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunWatchdog did not return after cancel")
	}
}

func TestRunWatchdogDisabled(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
		err      error
	}{
		{"no WatchdogSec", 0, nil},
		{"invalid", 0, errors.New("bad WATCHDOG_USEC")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			done := make(chan struct{})
			go func() {
				newTestNotifier(rec, tt.interval, tt.err).RunWatchdog(context.Background())
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("RunWatchdog blocked without a watchdog")
			}
			if len(rec.states) != 0 {
				t.Errorf("states = %v, want none", rec.states)
			}
		})
	}
}
