//go:build !linux

package scanner

import (
	"github.com/smazurov/camscan/pkg/linuxav/v4l2"
)

type unsupportedBackend struct{}

func platformBackend() Backend { return unsupportedBackend{} }

func (unsupportedBackend) Nodes() ([]v4l2.Node, error) {
	return nil, ErrUnsupported
}

func (unsupportedBackend) Query(string, v4l2.Observer) (v4l2.DeviceInfo, error) {
	return v4l2.DeviceInfo{}, ErrUnsupported
}

func (unsupportedBackend) Capabilities(string, v4l2.Observer) (v4l2.DeviceInfo, []v4l2.FormatModes, error) {
	return v4l2.DeviceInfo{}, nil, ErrUnsupported
}
