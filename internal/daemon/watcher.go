// Package daemon keeps the device inventory current: it probes every
// capture device at startup and again whenever a video4linux node is
// added or changed.
package daemon

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"time"

	"github.com/smazurov/camscan/internal/events"
	"github.com/smazurov/camscan/internal/logging"
	"github.com/smazurov/camscan/internal/scanner"
	"github.com/smazurov/camscan/pkg/linuxav/hotplug"
)

// ActionScan marks probes from the startup scan.
const ActionScan = "scan"

// Prober lists and probes capture devices.
type Prober interface {
	List() ([]scanner.Device, error)
	Probe(path string) (scanner.Probe, error)
}

// Source delivers hotplug events until ctx is done, then closes the channel.
type Source interface {
	Run(ctx context.Context, events chan<- hotplug.Event) error
}

// Publisher receives the resulting device events.
type Publisher interface {
	Publish(ev events.Event)
}

// Watcher turns the startup scan and hotplug events into device events.
type Watcher struct {
	prober Prober
	source Source
	bus    Publisher
	logger *slog.Logger
	now    func() time.Time

	// A freshly added node may not be openable yet while udev applies
	// permissions.
	addAttempts int
	addBackoff  time.Duration
}

// New builds a watcher. source may be nil, in which case Run only scans.
func New(prober Prober, source Source, bus Publisher) *Watcher {
	return &Watcher{
		prober:      prober,
		source:      source,
		bus:         bus,
		logger:      logging.GetLogger("daemon"),
		now:         time.Now,
		addAttempts: 3,
		addBackoff:  250 * time.Millisecond,
	}
}

// Scan probes every listed capture device once.
func (w *Watcher) Scan(ctx context.Context) error {
	devices, err := w.prober.List()
	if err != nil {
		return err
	}
	w.logger.Info("Scanning capture devices", "count", len(devices))
	for _, d := range devices {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.probe(ctx, d.Node.Path, ActionScan, 1)
	}
	return nil
}

// Run starts the hotplug source, performs the startup scan, then handles
// events until ctx is done. A failing startup scan is logged, not fatal.
func (w *Watcher) Run(ctx context.Context) error {
	if w.source == nil {
		if err := w.Scan(ctx); err != nil && ctx.Err() == nil {
			w.logger.Warn("Startup scan failed", "error", err)
		}
		<-ctx.Done()
		return nil
	}

	ch := make(chan hotplug.Event, 16)
	errc := make(chan error, 1)
	go func() { errc <- w.source.Run(ctx, ch) }()

	if err := w.Scan(ctx); err != nil && ctx.Err() == nil {
		w.logger.Warn("Startup scan failed", "error", err)
	}

	for ev := range ch {
		w.handle(ctx, ev)
	}

	err := <-errc
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (w *Watcher) handle(ctx context.Context, ev hotplug.Event) {
	path := ev.Node()
	if path == "" {
		return
	}
	w.logger.Debug("Hotplug event", "action", ev.Action, "path", path)

	switch ev.Action {
	case hotplug.ActionAdd:
		w.probe(ctx, path, ev.Action, w.addAttempts)
	case hotplug.ActionChange:
		w.probe(ctx, path, ev.Action, 1)
	case hotplug.ActionRemove:
		w.logger.Info("Device removed", "path", path)
		w.bus.Publish(events.DeviceRemovedEvent{Path: path, Timestamp: w.now()})
	}
}

func (w *Watcher) probe(ctx context.Context, path, action string, attempts int) {
	var (
		p   scanner.Probe
		err error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		p, err = w.prober.Probe(path)
		if err == nil || !transient(err) || attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.addBackoff):
		}
	}

	if err != nil {
		w.logger.Warn("Probe failed", "path", path, "action", action, "error", err)
		w.bus.Publish(events.ProbeFailedEvent{Path: path, Action: action, Err: err, Timestamp: w.now()})
		return
	}
	if !p.Info.Capture {
		w.logger.Debug("Ignoring node without video capture", "path", path, "card", p.Info.Card)
		return
	}

	w.logger.Info("Device probed", "path", path, "action", action, "card", p.Info.Card, "formats", len(p.Formats))
	w.bus.Publish(events.DeviceProbedEvent{Probe: p, Action: action, Timestamp: w.now()})
}

// transient reports errors worth retrying on a node that just appeared.
func transient(err error) bool {
	return errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrNotExist)
}
