// Package v4l2 queries Video4Linux2 capture devices for their identity and
// supported capture modes.
//
// This package does not use cgo. The request structs are declared in Go and
// checked against the kernel sizes at compile time. Everything except the
// record types requires Linux.
//
// # Querying a device
//
// The caller opens and closes the device node; the package only issues
// control requests against it:
//
//	f, err := v4l2.Open("/dev/video0")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	dev := v4l2.NewDevice(f)
//	info, err := dev.Query()
//	formats, err := dev.Formats()
//	for _, format := range formats {
//	    sizes, _ := dev.FrameSizes(format.FourCC)
//	    for _, size := range sizes {
//	        intervals, _ := dev.FrameIntervals(format.FourCC, size.Width, size.Height)
//	    }
//	}
//
// # Enumeration semantics
//
// Each enumeration issues the request for index 0, 1, 2, ... until the
// driver returns an error. EINVAL marks the end of the list and the call
// succeeds, possibly with an empty slice. Any other error fails the whole
// call with a *RequestError and discards what was collected. Frame sizes
// and intervals reported as stepwise or continuous ranges are skipped.
//
// Interrupted calls (EINTR) are retried transparently.
//
// # Discovery
//
// FindNodes lists the video4linux nodes present on the system:
//
//	nodes, _ := v4l2.FindNodes()
//	for _, n := range nodes {
//	    fmt.Println(n.Path, n.ID)
//	}
package v4l2
