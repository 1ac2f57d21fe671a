// Package metrics exports Prometheus metrics for V4L2 control traffic and
// device probes.
package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smazurov/camscan/internal/events"
	"golang.org/x/sys/unix"
)

const namespace = "camscan"

// Metrics owns a registry with the camscan collectors. It implements
// v4l2.Observer so it can be handed to every Device.
type Metrics struct {
	registry *prometheus.Registry

	controlCalls   *prometheus.CounterVec
	controlRetries *prometheus.CounterVec
	entriesDropped *prometheus.CounterVec
	probes         *prometheus.CounterVec
	devices        prometheus.Gauge

	mu    sync.Mutex
	known map[string]struct{}
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		controlCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "control_calls_total",
			Help:      "V4L2 control requests issued, by outcome",
		}, []string{"request", "result"}),
		controlRetries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "control_retries_total",
			Help:      "V4L2 control requests retried after EINTR",
		}, []string{"request"}),
		entriesDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_dropped_total",
			Help:      "Enumerated entries skipped for having no discrete value",
		}, []string{"request"}),
		probes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "Device probes, by outcome",
		}, []string{"result"}),
		devices: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "devices",
			Help:      "Capture devices currently known",
		}),
		known: make(map[string]struct{}),
	}
}

// Control counts a completed control call.
func (m *Metrics) Control(request string, err error) {
	m.controlCalls.WithLabelValues(request, resultLabel(err)).Inc()
}

// Retry counts an interrupted control call.
func (m *Metrics) Retry(request string) {
	m.controlRetries.WithLabelValues(request).Inc()
}

// Drop counts an enumerated range entry that was skipped.
func (m *Metrics) Drop(request string, _ uint32, _ string) {
	m.entriesDropped.WithLabelValues(request).Inc()
}

// Subscribe keeps the probe counter and device gauge in step with bus.
func (m *Metrics) Subscribe(bus *events.Bus) func() {
	unsubs := []func(){
		bus.Subscribe(func(e events.DeviceProbedEvent) {
			m.track(e.Probe.Node.Path, true)
			m.probes.WithLabelValues("ok").Inc()
		}),
		bus.Subscribe(func(e events.ProbeFailedEvent) {
			m.track(e.Path, false)
			m.probes.WithLabelValues("error").Inc()
		}),
		bus.Subscribe(func(e events.DeviceRemovedEvent) {
			m.track(e.Path, false)
		}),
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

func (m *Metrics) track(path string, present bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if present {
		m.known[path] = struct{}{}
	} else {
		delete(m.known, path)
	}
	m.devices.Set(float64(len(m.known)))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// resultLabel maps a control outcome to "ok" or the errno name, e.g. EINVAL.
func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		if name := unix.ErrnoName(errno); name != "" {
			return name
		}
		return fmt.Sprintf("errno_%d", int(errno))
	}
	return "error"
}
