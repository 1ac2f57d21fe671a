package events

import (
	"time"

	"github.com/smazurov/camscan/internal/scanner"
)

// Event type constants for kelindar/event.
const (
	TypeDeviceProbed uint32 = iota + 1
	TypeProbeFailed
	TypeDeviceRemoved
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// DeviceProbedEvent carries a successful probe. Action is the hotplug
// action that caused it, or "scan" for the startup scan.
type DeviceProbedEvent struct {
	Probe     scanner.Probe
	Action    string
	Timestamp time.Time
}

func (e DeviceProbedEvent) Type() uint32 { return TypeDeviceProbed }

// ProbeFailedEvent reports a node that could not be probed.
type ProbeFailedEvent struct {
	Path      string
	Action    string
	Err       error
	Timestamp time.Time
}

func (e ProbeFailedEvent) Type() uint32 { return TypeProbeFailed }

// DeviceRemovedEvent reports a node that disappeared.
type DeviceRemovedEvent struct {
	Path      string
	Timestamp time.Time
}

func (e DeviceRemovedEvent) Type() uint32 { return TypeDeviceRemoved }
