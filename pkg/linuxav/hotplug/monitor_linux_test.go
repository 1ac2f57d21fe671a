//go:build linux

package hotplug

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMonitorRunCancellation(t *testing.T) {
	m, err := NewMonitor(SubsystemVideo4Linux)
	if err != nil {
		t.Skipf("netlink unavailable: %v", err)
	}
	defer func() { _ = m.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan Event)
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, events) }()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	if _, open := <-events; open {
		t.Error("events channel still open after Run returned")
	}
}
