//go:build linux

package v4l2

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// entry is what the simulated driver answers for one index.
type entry struct {
	errno unix.Errno
	fill  func(arg unsafe.Pointer)
}

// fakeDevice simulates a V4L2 driver behind the ioctl seam. Enumerated
// requests are answered from entries by the index stored at offset 0 of the
// argument; indices past the end return endErr (EINVAL when unset).
type fakeDevice struct {
	mu         sync.Mutex
	entries    map[uint][]entry
	endErr     unix.Errno
	interrupts map[uint]int
	calls      map[uint][]uint32 // indices seen per request code
	inputs     []v4l2Frmivalenum // fixed fields seen on frame size/interval calls
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		entries:    make(map[uint][]entry),
		interrupts: make(map[uint]int),
		calls:      make(map[uint][]uint32),
	}
}

func (f *fakeDevice) Fd() uintptr { return 3 }

func (f *fakeDevice) ioctl(_ uintptr, code uint, arg unsafe.Pointer) unix.Errno {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.interrupts[code] > 0 {
		f.interrupts[code]--
		return unix.EINTR
	}

	var index uint32
	switch code {
	case vidiocQuerycap:
	case vidiocEnumFmt:
		index = (*v4l2Fmtdesc)(arg).index
	case vidiocEnumFramesizes:
		a := (*v4l2Frmsizeenum)(arg)
		index = a.index
		f.inputs = append(f.inputs, v4l2Frmivalenum{index: a.index, pixelFormat: a.pixelFormat})
	case vidiocEnumFrameintervals:
		a := (*v4l2Frmivalenum)(arg)
		index = a.index
		f.inputs = append(f.inputs, v4l2Frmivalenum{
			index: a.index, pixelFormat: a.pixelFormat, width: a.width, height: a.height,
		})
	default:
		return unix.ENOTTY
	}
	f.calls[code] = append(f.calls[code], index)

	list := f.entries[code]
	if int(index) >= len(list) {
		if f.endErr != 0 {
			return f.endErr
		}
		return unix.EINVAL
	}
	e := list[index]
	if e.errno != 0 {
		return e.errno
	}
	if e.fill != nil {
		e.fill(arg)
	}
	return 0
}

func (f *fakeDevice) add(code uint, entries ...entry) *fakeDevice {
	f.entries[code] = append(f.entries[code], entries...)
	return f
}

func (f *fakeDevice) device(opts ...Option) *Device {
	d := NewDevice(f, opts...)
	d.sys = f.ioctl
	return d
}

func failWith(errno unix.Errno) entry {
	return entry{errno: errno}
}

func capEntry(driver, card, bus string, version, caps, deviceCaps uint32) entry {
	return entry{fill: func(arg unsafe.Pointer) {
		c := (*v4l2Capability)(arg)
		copy(c.driver[:], driver)
		copy(c.card[:], card)
		copy(c.busInfo[:], bus)
		c.version = version
		c.capabilities = caps
		c.deviceCaps = deviceCaps
	}}
}

func fmtEntry(fourcc uint32, description string, flags uint32) entry {
	return entry{fill: func(arg unsafe.Pointer) {
		f := (*v4l2Fmtdesc)(arg)
		f.pixelformat = fourcc
		f.flags = flags
		copy(f.description[:], description)
	}}
}

func sizeDiscrete(width, height uint32) entry {
	return entry{fill: func(arg unsafe.Pointer) {
		f := (*v4l2Frmsizeenum)(arg)
		f.typ = v4l2FrmsizeTypeDiscrete
		f.discrete = v4l2FrmsizeDiscrete{width: width, height: height}
	}}
}

func sizeRange(typ uint32, s v4l2FrmsizeStepwise) entry {
	return entry{fill: func(arg unsafe.Pointer) {
		f := (*v4l2Frmsizeenum)(arg)
		f.typ = typ
		*f.stepwise() = s
	}}
}

func ivalDiscrete(numerator, denominator uint32) entry {
	return entry{fill: func(arg unsafe.Pointer) {
		f := (*v4l2Frmivalenum)(arg)
		f.typ = v4l2FrmivalTypeDiscrete
		f.discrete = v4l2Fract{numerator: numerator, denominator: denominator}
	}}
}

func ivalRange(typ uint32, s v4l2FrmivalStepwise) entry {
	return entry{fill: func(arg unsafe.Pointer) {
		f := (*v4l2Frmivalenum)(arg)
		f.typ = typ
		*f.stepwise() = s
	}}
}

// recordingObserver captures Observer notifications.
type recordingObserver struct {
	mu       sync.Mutex
	controls []string
	failures []error
	retries  []string
	drops    []string
}

func (r *recordingObserver) Control(request string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.controls = append(r.controls, request)
	if err != nil {
		r.failures = append(r.failures, err)
	}
}

func (r *recordingObserver) Retry(request string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retries = append(r.retries, request)
}

func (r *recordingObserver) Drop(_ string, _ uint32, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drops = append(r.drops, detail)
}
