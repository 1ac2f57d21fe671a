// Package hotplug reports video4linux device nodes appearing and
// disappearing by listening to kernel uevents over netlink, without cgo
// or libudev.
package hotplug

import (
	"bytes"
	"errors"
	"path"
	"strings"
)

// ErrUnsupported is returned by NewMonitor where netlink is unavailable.
var ErrUnsupported = errors.New("hotplug: netlink uevents are not supported on this platform")

// Actions of interest for capture devices.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
	ActionChange = "change"
)

// SubsystemVideo4Linux is the uevent subsystem of V4L2 device nodes.
const SubsystemVideo4Linux = "video4linux"

// Event is one kernel uevent.
type Event struct {
	Action    string            // add, remove, change, ...
	KObj      string            // /devices/pci0000:00/.../video4linux/video0
	Subsystem string            // video4linux
	DevName   string            // video0
	Env       map[string]string // every KEY=VALUE pair of the event
}

// Node returns the /dev path of the event's device node, or "" when the
// event carries no DEVNAME.
func (e Event) Node() string {
	if e.DevName == "" {
		return ""
	}
	if strings.HasPrefix(e.DevName, "/") {
		return e.DevName
	}
	return path.Join("/dev", e.DevName)
}

// libudevMagic starts messages re-broadcast by udevd rather than the kernel.
var libudevMagic = []byte("libudev\x00")

// parseUEvent decodes "ACTION@KOBJ\0KEY=VALUE\0...".
func parseUEvent(data []byte) (Event, bool) {
	if bytes.HasPrefix(data, libudevMagic) {
		// udevd messages carry a binary header followed by KEY=VALUE
		// pairs only; the kernel copy of the same event is enough.
		return Event{}, false
	}

	parts := bytes.Split(data, []byte{0})
	header := string(parts[0])
	at := strings.IndexByte(header, '@')
	if at < 1 {
		return Event{}, false
	}

	event := Event{
		Action: header[:at],
		KObj:   header[at+1:],
		Env:    make(map[string]string, len(parts)-1),
	}
	for _, part := range parts[1:] {
		key, value, found := strings.Cut(string(part), "=")
		if !found || key == "" {
			continue
		}
		event.Env[key] = value
		switch key {
		case "SUBSYSTEM":
			event.Subsystem = value
		case "DEVNAME":
			event.DevName = value
		}
	}
	return event, true
}
