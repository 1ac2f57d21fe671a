package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/camscan/internal/api/models"
	"github.com/smazurov/camscan/internal/inventory"
	"github.com/smazurov/camscan/internal/scanner"
	"github.com/smazurov/camscan/pkg/linuxav/v4l2"
)

// Devices is the read side of the device inventory.
type Devices interface {
	List() []scanner.Probe
	Get(key string) (scanner.Probe, error)
}

// capabilityNames lists V4L2 capability flags in bit order.
var capabilityNames = []struct {
	flag uint32
	name string
}{
	{0x00000001, "Video Capture"},
	{0x00000002, "Video Output"},
	{0x00000004, "Video Overlay"},
	{0x00000010, "VBI Capture"},
	{0x00000020, "VBI Output"},
	{0x00000040, "Sliced VBI Capture"},
	{0x00000080, "Sliced VBI Output"},
	{0x00000100, "RDS Capture"},
	{0x00000200, "Video Output Overlay"},
	{0x00000400, "Hardware Frequency Seek"},
	{0x00000800, "RDS Output"},
	{0x00001000, "Multi-planar Video Capture"},
	{0x00002000, "Multi-planar Video Output"},
	{0x00004000, "Multi-planar Memory-to-Memory"},
	{0x00008000, "Memory-to-Memory"},
	{0x00010000, "Tuner"},
	{0x00020000, "Audio"},
	{0x00040000, "Radio"},
	{0x00080000, "Modulator"},
	{0x00100000, "Software Defined Radio Capture"},
	{0x00200000, "Extended Pixel Format"},
	{0x00400000, "Software Defined Radio Output"},
	{0x00800000, "Metadata Capture"},
	{0x01000000, "Read/Write I/O"},
	{0x04000000, "Streaming I/O"},
	{0x08000000, "Metadata Output"},
	{0x10000000, "Touch Device"},
	{0x20000000, "Media Controller I/O"},
}

// translateCapabilities converts V4L2 capability flags to readable strings
func translateCapabilities(caps uint32) []string {
	names := []string{}
	for _, c := range capabilityNames {
		if caps&c.flag != 0 {
			names = append(names, c.name)
		}
	}
	return names
}

func deviceInfo(p scanner.Probe) models.DeviceInfo {
	caps := p.Info.DeviceCaps
	if caps == 0 {
		caps = p.Info.Capabilities
	}
	return models.DeviceInfo{
		Path:          p.Node.Path,
		Name:          p.Node.Name,
		ID:            p.Node.ID,
		Card:          p.Info.Card,
		Driver:        p.Info.Driver,
		BusInfo:       p.Info.BusInfo,
		KernelVersion: p.Info.KernelVersion(),
		Capabilities:  translateCapabilities(caps),
		FormatCount:   len(p.Formats),
		ProbedAt:      p.ProbedAt,
	}
}

func formatTree(formats []v4l2.FormatModes) []models.FormatInfo {
	out := make([]models.FormatInfo, 0, len(formats))
	for _, f := range formats {
		sizes := make([]models.SizeInfo, 0, len(f.Sizes))
		for _, s := range f.Sizes {
			intervals := make([]models.IntervalInfo, 0, len(s.Intervals))
			for _, iv := range s.Intervals {
				intervals = append(intervals, models.IntervalInfo{
					Numerator:   iv.Numerator,
					Denominator: iv.Denominator,
					FPS:         iv.FPS(),
				})
			}
			sizes = append(sizes, models.SizeInfo{
				Width:       s.Size.Width,
				Height:      s.Size.Height,
				AspectRatio: s.Size.AspectRatio(),
				Intervals:   intervals,
			})
		}
		out = append(out, models.FormatInfo{
			FourCC:      f.Format.Name(),
			Description: f.Format.Description,
			Compressed:  f.Format.Compressed,
			Emulated:    f.Format.Emulated,
			Sizes:       sizes,
		})
	}
	return out
}

func registerDeviceRoutes(api huma.API, devices Devices) {
	huma.Register(api, huma.Operation{
		OperationID: "list-devices",
		Method:      http.MethodGet,
		Path:        "/api/devices",
		Summary:     "List Devices",
		Description: "List capture devices from the latest probes",
		Tags:        []string{"devices"},
	}, func(ctx context.Context, input *struct{}) (*models.DeviceResponse, error) {
		probes := devices.List()
		list := make([]models.DeviceInfo, 0, len(probes))
		for _, p := range probes {
			list = append(list, deviceInfo(p))
		}
		return &models.DeviceResponse{
			Body: models.DeviceData{Devices: list, Count: len(list)},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-device",
		Method:      http.MethodGet,
		Path:        "/api/devices/{name}",
		Summary:     "Get Device",
		Description: "Get the capability tree of one capture device",
		Tags:        []string{"devices"},
	}, func(ctx context.Context, input *models.DeviceRequest) (*models.DeviceDetailResponse, error) {
		p, err := devices.Get(input.Name)
		if errors.Is(err, inventory.ErrUnknownDevice) {
			return nil, huma.Error404NotFound("device not found: " + input.Name)
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("device lookup failed", err)
		}
		return &models.DeviceDetailResponse{
			Body: models.DeviceDetailData{
				Device:  deviceInfo(p),
				Formats: formatTree(p.Formats),
			},
		}, nil
	})
}
