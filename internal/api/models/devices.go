package models

import "time"

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Devices int    `json:"devices" example:"2" doc:"Capture devices currently known"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"v0.3.0" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"4f1c2e9" doc:"Git commit hash"`
	BuildDate string `json:"build_date" example:"2026-01-02T03:04:05Z" doc:"Build timestamp"`
	GoVersion string `json:"go_version" example:"go1.24.11" doc:"Go runtime version"`
	Platform  string `json:"platform" example:"linux/arm64" doc:"Operating system and architecture"`
}

type VersionResponse struct {
	Body VersionData
}

// DeviceInfo identifies one capture device node.
type DeviceInfo struct {
	Path          string    `json:"path" example:"/dev/video0" doc:"Device node path"`
	Name          string    `json:"name" example:"video0" doc:"Device node name"`
	ID            string    `json:"id" example:"usb-046d_HD_Pro_Webcam_C920-video-index0" doc:"Stable device identifier"`
	Card          string    `json:"card" example:"HD Pro Webcam C920" doc:"Card name reported by the driver"`
	Driver        string    `json:"driver" example:"uvcvideo" doc:"Kernel driver"`
	BusInfo       string    `json:"bus_info" example:"usb-0000:00:14.0-1" doc:"Bus location"`
	KernelVersion string    `json:"kernel_version" example:"6.8.12" doc:"Driver version"`
	Capabilities  []string  `json:"capabilities" example:"[\"Video Capture\",\"Streaming I/O\"]" doc:"Capabilities of this node"`
	FormatCount   int       `json:"format_count" example:"2" doc:"Number of supported pixel formats"`
	ProbedAt      time.Time `json:"probed_at" doc:"Time of the last probe"`
}

type DeviceData struct {
	Devices []DeviceInfo `json:"devices" doc:"Known capture devices"`
	Count   int          `json:"count" example:"1" doc:"Number of devices"`
}

type DeviceResponse struct {
	Body DeviceData
}

// Capability tree models
type IntervalInfo struct {
	Numerator   uint32  `json:"numerator" example:"1" doc:"Seconds per frame, numerator"`
	Denominator uint32  `json:"denominator" example:"30" doc:"Seconds per frame, denominator"`
	FPS         float64 `json:"fps" example:"30" doc:"Frames per second"`
}

type SizeInfo struct {
	Width       uint32         `json:"width" example:"1920" doc:"Frame width in pixels"`
	Height      uint32         `json:"height" example:"1080" doc:"Frame height in pixels"`
	AspectRatio string         `json:"aspect_ratio" example:"16:9" doc:"Reduced aspect ratio"`
	Intervals   []IntervalInfo `json:"intervals" doc:"Supported frame intervals"`
}

type FormatInfo struct {
	FourCC      string     `json:"fourcc" example:"MJPG" doc:"Pixel format code"`
	Description string     `json:"description" example:"Motion-JPEG" doc:"Driver description"`
	Compressed  bool       `json:"compressed" example:"true" doc:"Whether the format is compressed"`
	Emulated    bool       `json:"emulated" example:"false" doc:"Whether libv4l converts the format in software"`
	Sizes       []SizeInfo `json:"sizes" doc:"Supported frame sizes"`
}

type DeviceDetailData struct {
	Device  DeviceInfo   `json:"device" doc:"Device identity"`
	Formats []FormatInfo `json:"formats" doc:"Capability tree"`
}

type DeviceDetailResponse struct {
	Body DeviceDetailData
}

type DeviceRequest struct {
	Name string `path:"name" example:"video0" doc:"Node name or stable ID"`
}
