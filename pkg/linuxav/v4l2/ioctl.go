//go:build linux

package v4l2

import (
	"errors"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Handle is an open V4L2 device node. *os.File satisfies it.
// The package never closes a Handle it was given.
type Handle interface {
	Fd() uintptr
}

// request binds an ioctl code to its kernel name and argument size.
type request struct {
	name string
	code uint
	size uintptr
}

func (r request) String() string { return r.name }

// syscaller issues one raw ioctl. Tests replace it with a simulated device.
type syscaller func(fd uintptr, code uint, arg unsafe.Pointer) unix.Errno

func rawIoctl(fd uintptr, code uint, arg unsafe.Pointer) unix.Errno {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, uintptr(code), uintptr(arg))
	return errno
}

// control performs req against fd, retrying for as long as the call is
// interrupted by a signal. The returned error is the unix.Errno reported by
// the driver, untouched.
func (d *Device) control(req request, arg unsafe.Pointer) error {
	fd := d.handle.Fd()
	for {
		errno := d.sys(fd, req.code, arg)
		if errno == unix.EINTR {
			d.observer.Retry(req.name)
			continue
		}
		if errno != 0 {
			d.observer.Control(req.name, errno)
			return errno
		}
		d.observer.Control(req.name, nil)
		return nil
	}
}

// endOfEnumeration reports whether err is the driver saying that no entry
// exists at or beyond the requested index.
func endOfEnumeration(err error) bool {
	return errors.Is(err, unix.EINVAL)
}

// Open opens a device node for control requests. The caller owns the file.
func Open(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_RDWR|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
}
