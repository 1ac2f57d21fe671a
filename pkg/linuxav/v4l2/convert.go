//go:build linux

package v4l2

import (
	"bytes"
	"fmt"
)

func convertCapability(c *v4l2Capability) DeviceInfo {
	info := DeviceInfo{
		Driver:       cstr(c.driver[:]),
		Card:         cstr(c.card[:]),
		BusInfo:      cstr(c.busInfo[:]),
		Version:      c.version,
		Capture:      c.capabilities&v4l2CapVideoCapture != 0,
		Capabilities: c.capabilities,
	}
	if c.capabilities&v4l2CapDeviceCaps != 0 {
		info.DeviceCaps = c.deviceCaps
	}
	return info
}

func convertFormat(f *v4l2Fmtdesc) PixelFormat {
	return PixelFormat{
		Description: cstr(f.description[:]),
		FourCC:      f.pixelformat,
		Compressed:  f.flags&v4l2FmtFlagCompressed != 0,
		Emulated:    f.flags&v4l2FmtFlagEmulated != 0,
	}
}

// convertFrameSize keeps only discrete sizes. Stepwise and continuous
// ranges have no single value and are dropped.
func convertFrameSize(f *v4l2Frmsizeenum) (FrameSize, bool) {
	if f.typ != v4l2FrmsizeTypeDiscrete {
		return FrameSize{}, false
	}
	return FrameSize{Width: f.discrete.width, Height: f.discrete.height}, true
}

// convertFrameInterval keeps only discrete intervals.
func convertFrameInterval(f *v4l2Frmivalenum) (FrameInterval, bool) {
	if f.typ != v4l2FrmivalTypeDiscrete {
		return FrameInterval{}, false
	}
	return FrameInterval{Numerator: f.discrete.numerator, Denominator: f.discrete.denominator}, true
}

func describeFrameSize(f *v4l2Frmsizeenum) string {
	s := f.stepwise()
	kind := "stepwise"
	if f.typ == v4l2FrmsizeTypeContinuous {
		kind = "continuous"
	}
	return fmt.Sprintf("%s %dx%d-%dx%d step %dx%d", kind,
		s.minWidth, s.minHeight, s.maxWidth, s.maxHeight, s.stepWidth, s.stepHeight)
}

func describeFrameInterval(f *v4l2Frmivalenum) string {
	s := f.stepwise()
	kind := "stepwise"
	if f.typ == v4l2FrmivalTypeContinuous {
		kind = "continuous"
	}
	return fmt.Sprintf("%s %d/%d-%d/%d step %d/%d", kind,
		s.min.numerator, s.min.denominator, s.max.numerator, s.max.denominator,
		s.step.numerator, s.step.denominator)
}

// cstr converts a null-terminated byte slice to a Go string.
func cstr(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
