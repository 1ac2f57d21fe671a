//go:build linux

package hotplug

import (
	"context"
	"errors"

	"golang.org/x/sys/unix"
)

// Monitor receives uevents for a single subsystem.
type Monitor struct {
	fd        int
	subsystem string
}

// NewMonitor opens a NETLINK_KOBJECT_UEVENT socket bound to the kernel
// broadcast group and keeps events of the given subsystem.
func NewMonitor(subsystem string) (*Monitor, error) {
	fd, err := unix.Socket(unix.AF_NETLINK, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, unix.NETLINK_KOBJECT_UEVENT)
	if err != nil {
		return nil, err
	}

	if err := unix.Bind(fd, &unix.SockaddrNetlink{Family: unix.AF_NETLINK, Groups: 1}); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}

	// Wake up once a second so Run can notice cancellation.
	tv := unix.Timeval{Sec: 1}
	if err := unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}

	return &Monitor{fd: fd, subsystem: subsystem}, nil
}

// Close releases the socket.
func (m *Monitor) Close() error {
	return unix.Close(m.fd)
}

// Run delivers matching events until ctx is done or a receive fails.
// The channel is closed when Run returns.
func (m *Monitor) Run(ctx context.Context, events chan<- Event) error {
	defer close(events)

	buf := make([]byte, 8192)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, _, err := unix.Recvfrom(m.fd, buf, 0)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
				continue
			}
			return err
		}

		event, ok := parseUEvent(buf[:n])
		if !ok || (m.subsystem != "" && event.Subsystem != m.subsystem) {
			continue
		}

		select {
		case events <- event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
