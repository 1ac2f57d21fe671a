//go:build linux

package v4l2

import (
	"fmt"
	"unsafe"
)

// Device issues capability queries against an open handle.
//
// A Device holds no state between calls. Calls against the same handle must
// be serialized by the caller.
type Device struct {
	handle   Handle
	sys      syscaller
	observer Observer
}

// Option configures a Device.
type Option func(*Device)

// WithObserver routes control call notifications to o.
func WithObserver(o Observer) Option {
	return func(d *Device) {
		if o != nil {
			d.observer = o
		}
	}
}

// NewDevice wraps an open handle. The handle stays owned by the caller.
func NewDevice(h Handle, opts ...Option) *Device {
	d := &Device{
		handle:   h,
		sys:      rawIoctl,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Query returns the device identity. There is no expected failure for this
// request: any error means no DeviceInfo.
func (d *Device) Query() (DeviceInfo, error) {
	var caps v4l2Capability
	if err := d.control(reqQueryCap, unsafe.Pointer(&caps)); err != nil {
		return DeviceInfo{}, &RequestError{Request: reqQueryCap.name, Index: -1, Err: err}
	}
	return convertCapability(&caps), nil
}

// Formats lists the capture pixel formats in driver order.
func (d *Device) Formats() ([]PixelFormat, error) {
	return enumerate(d, formatEnumeration())
}

// FrameSizes lists the discrete frame sizes for a pixel format.
func (d *Device) FrameSizes(fourcc uint32) ([]FrameSize, error) {
	return enumerate(d, frameSizeEnumeration(fourcc))
}

// FrameIntervals lists the discrete frame intervals for a format and size.
func (d *Device) FrameIntervals(fourcc, width, height uint32) ([]FrameInterval, error) {
	return enumerate(d, frameIntervalEnumeration(fourcc, width, height))
}

// Capabilities walks formats, then sizes per format, then intervals per
// size. The first hard failure aborts the walk.
func (d *Device) Capabilities() ([]FormatModes, error) {
	formats, err := d.Formats()
	if err != nil {
		return nil, err
	}

	modes := make([]FormatModes, 0, len(formats))
	for _, format := range formats {
		sizes, err := d.FrameSizes(format.FourCC)
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", format.Name(), err)
		}

		fm := FormatModes{Format: format, Sizes: make([]SizeModes, 0, len(sizes))}
		for _, size := range sizes {
			intervals, err := d.FrameIntervals(format.FourCC, size.Width, size.Height)
			if err != nil {
				return nil, fmt.Errorf("format %s size %s: %w", format.Name(), size, err)
			}
			fm.Sizes = append(fm.Sizes, SizeModes{Size: size, Intervals: intervals})
		}
		modes = append(modes, fm)
	}
	return modes, nil
}

// Query is shorthand for NewDevice(h).Query().
func Query(h Handle) (DeviceInfo, error) {
	return NewDevice(h).Query()
}

// Formats is shorthand for NewDevice(h).Formats().
func Formats(h Handle) ([]PixelFormat, error) {
	return NewDevice(h).Formats()
}

// FrameSizes is shorthand for NewDevice(h).FrameSizes(fourcc).
func FrameSizes(h Handle, fourcc uint32) ([]FrameSize, error) {
	return NewDevice(h).FrameSizes(fourcc)
}

// FrameIntervals is shorthand for NewDevice(h).FrameIntervals(fourcc, width, height).
func FrameIntervals(h Handle, fourcc, width, height uint32) ([]FrameInterval, error) {
	return NewDevice(h).FrameIntervals(fourcc, width, height)
}
