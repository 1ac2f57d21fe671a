//go:build linux

package v4l2

import "unsafe"

var (
	reqQueryCap = request{
		name: "VIDIOC_QUERYCAP",
		code: vidiocQuerycap,
		size: unsafe.Sizeof(v4l2Capability{}),
	}
	reqEnumFmt = request{
		name: "VIDIOC_ENUM_FMT",
		code: vidiocEnumFmt,
		size: unsafe.Sizeof(v4l2Fmtdesc{}),
	}
	reqEnumFrameSizes = request{
		name: "VIDIOC_ENUM_FRAMESIZES",
		code: vidiocEnumFramesizes,
		size: unsafe.Sizeof(v4l2Frmsizeenum{}),
	}
	reqEnumFrameIntervals = request{
		name: "VIDIOC_ENUM_FRAMEINTERVALS",
		code: vidiocEnumFrameintervals,
		size: unsafe.Sizeof(v4l2Frmivalenum{}),
	}
)

// enumeration describes one indexed request kind: the argument struct A it
// exchanges with the driver and the record T it yields.
type enumeration[A, T any] struct {
	req request

	// init stamps the index and any fixed input fields into a zeroed arg.
	init func(arg *A, index uint32)

	// convert maps a populated arg to a record. ok is false for entries
	// that have no discrete representation.
	convert func(arg *A) (rec T, ok bool)

	// describe renders a dropped entry for the Observer.
	describe func(arg *A) string
}

func formatEnumeration() enumeration[v4l2Fmtdesc, PixelFormat] {
	return enumeration[v4l2Fmtdesc, PixelFormat]{
		req: reqEnumFmt,
		init: func(arg *v4l2Fmtdesc, index uint32) {
			arg.index = index
			arg.typ = v4l2BufTypeVideoCapture
		},
		convert: func(arg *v4l2Fmtdesc) (PixelFormat, bool) {
			return convertFormat(arg), true
		},
		describe: func(arg *v4l2Fmtdesc) string {
			return FormatFourCC(arg.pixelformat)
		},
	}
}

func frameSizeEnumeration(fourcc uint32) enumeration[v4l2Frmsizeenum, FrameSize] {
	return enumeration[v4l2Frmsizeenum, FrameSize]{
		req: reqEnumFrameSizes,
		init: func(arg *v4l2Frmsizeenum, index uint32) {
			arg.index = index
			arg.pixelFormat = fourcc
		},
		convert:  convertFrameSize,
		describe: describeFrameSize,
	}
}

func frameIntervalEnumeration(fourcc, width, height uint32) enumeration[v4l2Frmivalenum, FrameInterval] {
	return enumeration[v4l2Frmivalenum, FrameInterval]{
		req: reqEnumFrameIntervals,
		init: func(arg *v4l2Frmivalenum, index uint32) {
			arg.index = index
			arg.pixelFormat = fourcc
			arg.width = width
			arg.height = height
		},
		convert:  convertFrameInterval,
		describe: describeFrameInterval,
	}
}
