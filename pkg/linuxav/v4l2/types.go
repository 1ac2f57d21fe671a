package v4l2

import (
	"fmt"
	"strings"
)

// DeviceInfo is the identity of a V4L2 device as reported by VIDIOC_QUERYCAP.
type DeviceInfo struct {
	Driver       string
	Card         string
	BusInfo      string
	Version      uint32
	Capture      bool   // Physical device supports single-planar video capture
	Capabilities uint32 // Capabilities of the physical device
	DeviceCaps   uint32 // Capabilities of this node, zero if not reported
}

// String formats the device as "card (driver, bus_info)".
func (d DeviceInfo) String() string {
	return d.Card + " (" + d.Driver + ", " + d.BusInfo + ")"
}

// KernelVersion renders Version using the KERNEL_VERSION packing.
func (d DeviceInfo) KernelVersion() string {
	return fmt.Sprintf("%d.%d.%d", byte(d.Version>>16), byte(d.Version>>8), byte(d.Version))
}

// Node is a V4L2 device node found on the system.
type Node struct {
	Path  string // e.g. /dev/video0
	Name  string // e.g. video0
	Index int    // Sysfs index of the node within its physical device
	ID    string // Stable identifier from /dev/v4l/by-id, empty if none
}

// SyntheticID builds an identifier from bus info for nodes without a
// /dev/v4l/by-id link.
func SyntheticID(busInfo string, index int) string {
	if strings.HasPrefix(busInfo, "usb-") {
		return fmt.Sprintf("%s-video-index%d", busInfo, index)
	}
	return fmt.Sprintf("platform-%s-video-index%d", busInfo, index)
}

// PixelFormat is one pixel format supported by a capture device.
type PixelFormat struct {
	Description string
	FourCC      uint32
	Compressed  bool
	Emulated    bool // Converted in software by libv4l, not native to the device
}

// Equal reports whether both formats carry the same fourcc. Description and
// flags are metadata and do not take part in the comparison.
func (p PixelFormat) Equal(other PixelFormat) bool {
	return p.FourCC == other.FourCC
}

// Name returns the fourcc as text, e.g. "YUYV".
func (p PixelFormat) Name() string {
	return FormatFourCC(p.FourCC)
}

// FrameSize is a discrete frame size in pixels.
type FrameSize struct {
	Width  uint32
	Height uint32
}

func (s FrameSize) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// AspectRatio returns the reduced width:height ratio, e.g. "16:9".
func (s FrameSize) AspectRatio() string {
	d := gcd(s.Width, s.Height)
	if d == 0 {
		return "0:0"
	}
	return fmt.Sprintf("%d:%d", s.Width/d, s.Height/d)
}

// FrameInterval is a discrete frame interval in seconds per frame.
type FrameInterval struct {
	Numerator   uint32
	Denominator uint32
}

func (i FrameInterval) String() string {
	return fmt.Sprintf("%d/%d", i.Numerator, i.Denominator)
}

// FPS returns the interval as frames per second.
func (i FrameInterval) FPS() float64 {
	if i.Numerator == 0 {
		return 0
	}
	return float64(i.Denominator) / float64(i.Numerator)
}

// SizeModes is a frame size together with its supported intervals.
type SizeModes struct {
	Size      FrameSize
	Intervals []FrameInterval
}

// FormatModes is a pixel format together with its supported sizes.
type FormatModes struct {
	Format PixelFormat
	Sizes  []SizeModes
}

// FormatFourCC converts a 4-byte pixel format to a human-readable string.
func FormatFourCC(format uint32) string {
	b := []byte{
		byte(format),
		byte(format >> 8),
		byte(format >> 16),
		byte(format >> 24),
	}
	return string(b)
}

// ParseFourCC is the inverse of FormatFourCC. Codes shorter than four
// characters are padded with spaces, as videodev2.h does for "Y10 ".
func ParseFourCC(code string) (uint32, error) {
	if len(code) == 0 || len(code) > 4 {
		return 0, fmt.Errorf("invalid fourcc %q", code)
	}
	b := [4]byte{' ', ' ', ' ', ' '}
	copy(b[:], code)
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

func gcd(a, b uint32) uint32 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
