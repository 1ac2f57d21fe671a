//go:build !linux

package hotplug

import "context"

// Monitor is unavailable off Linux.
type Monitor struct{}

func NewMonitor(string) (*Monitor, error) {
	return nil, ErrUnsupported
}

func (m *Monitor) Close() error { return nil }

// Run closes events and returns ErrUnsupported.
func (m *Monitor) Run(_ context.Context, events chan<- Event) error {
	close(events)
	return ErrUnsupported
}
