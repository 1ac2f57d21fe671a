//go:build linux

package scanner

import (
	"github.com/smazurov/camscan/pkg/linuxav/v4l2"
)

type linuxBackend struct{}

func platformBackend() Backend { return linuxBackend{} }

func (linuxBackend) Nodes() ([]v4l2.Node, error) {
	return v4l2.FindNodes()
}

func (linuxBackend) Query(path string, o v4l2.Observer) (v4l2.DeviceInfo, error) {
	f, err := v4l2.Open(path)
	if err != nil {
		return v4l2.DeviceInfo{}, err
	}
	defer f.Close()

	return v4l2.NewDevice(f, v4l2.WithObserver(o)).Query()
}

func (linuxBackend) Capabilities(path string, o v4l2.Observer) (v4l2.DeviceInfo, []v4l2.FormatModes, error) {
	f, err := v4l2.Open(path)
	if err != nil {
		return v4l2.DeviceInfo{}, nil, err
	}
	defer f.Close()

	dev := v4l2.NewDevice(f, v4l2.WithObserver(o))
	info, err := dev.Query()
	if err != nil {
		return v4l2.DeviceInfo{}, nil, err
	}
	formats, err := dev.Capabilities()
	if err != nil {
		return info, nil, err
	}
	return info, formats, nil
}
