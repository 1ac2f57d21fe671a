// Package inventory keeps the latest probe of every capture device the
// daemon knows about.
package inventory

import (
	"errors"
	"path/filepath"
	"sort"
	"sync"

	"github.com/smazurov/camscan/internal/events"
	"github.com/smazurov/camscan/internal/scanner"
)

// ErrUnknownDevice is returned for a name or path that is not registered.
var ErrUnknownDevice = errors.New("unknown device")

// Registry maps device node paths to their latest probe.
type Registry struct {
	mu      sync.RWMutex
	devices map[string]scanner.Probe
}

func New() *Registry {
	return &Registry{devices: make(map[string]scanner.Probe)}
}

// Put stores p, replacing an earlier probe of the same path.
func (r *Registry) Put(p scanner.Probe) {
	r.mu.Lock()
	r.devices[p.Node.Path] = p
	r.mu.Unlock()
}

// Remove forgets path and reports whether it was known.
func (r *Registry) Remove(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.devices[path]
	delete(r.devices, path)
	return ok
}

// List returns every probe sorted by path.
func (r *Registry) List() []scanner.Probe {
	r.mu.RLock()
	out := make([]scanner.Probe, 0, len(r.devices))
	for _, p := range r.devices {
		out = append(out, p)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Node.Path < out[j].Node.Path })
	return out
}

// Get finds a device by node name ("video0"), stable ID or path.
func (r *Registry) Get(key string) (scanner.Probe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.devices[filepath.Clean(key)]; ok {
		return p, nil
	}
	for _, p := range r.devices {
		if p.Node.Name == key || (p.Node.ID != "" && p.Node.ID == key) {
			return p, nil
		}
	}
	return scanner.Probe{}, ErrUnknownDevice
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}

// Subscribe applies probe and removal events from bus. A failed probe
// removes the stale entry.
func (r *Registry) Subscribe(bus *events.Bus) func() {
	unsubs := []func(){
		bus.Subscribe(func(e events.DeviceProbedEvent) { r.Put(e.Probe) }),
		bus.Subscribe(func(e events.ProbeFailedEvent) { r.Remove(e.Path) }),
		bus.Subscribe(func(e events.DeviceRemovedEvent) { r.Remove(e.Path) }),
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}
