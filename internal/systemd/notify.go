// Package systemd reports service state to systemd through sd_notify.
// Every call is a no-op when camscan is not started by a systemd unit.
package systemd

import (
	"context"
	"log/slog"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/smazurov/camscan/internal/logging"
)

// Notifier sends readiness, stop and watchdog notifications.
type Notifier struct {
	logger   *slog.Logger
	notify   func(unsetEnvironment bool, state string) (bool, error)
	watchdog func(unsetEnvironment bool) (time.Duration, error)
}

func NewNotifier() *Notifier {
	return &Notifier{
		logger:   logging.GetLogger("systemd"),
		notify:   daemon.SdNotify,
		watchdog: daemon.SdWatchdogEnabled,
	}
}

func (n *Notifier) send(state string) bool {
	sent, err := n.notify(false, state)
	if err != nil {
		n.logger.Warn("sd_notify failed", "state", state, "error", err)
		return false
	}
	return sent
}

// Ready tells systemd that startup finished.
func (n *Notifier) Ready() {
	if n.send(daemon.SdNotifyReady) {
		n.logger.Debug("Notified systemd of readiness")
	}
}

// Stopping tells systemd that shutdown began.
func (n *Notifier) Stopping() {
	n.send(daemon.SdNotifyStopping)
}

// Status sets the free-form status line shown by systemctl status.
func (n *Notifier) Status(status string) {
	n.send("STATUS=" + status)
}

// RunWatchdog pings the watchdog at half the configured interval until ctx
// is done. It returns at once when the unit has no WatchdogSec.
func (n *Notifier) RunWatchdog(ctx context.Context) {
	interval, err := n.watchdog(false)
	if err != nil {
		n.logger.Warn("Invalid watchdog configuration", "error", err)
		return
	}
	if interval <= 0 {
		return
	}

	n.logger.Debug("Watchdog enabled", "interval", interval)
	ticker := time.NewTicker(interval / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.send(daemon.SdNotifyWatchdog)
		}
	}
}
