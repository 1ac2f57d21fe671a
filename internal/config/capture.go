package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/camscan/pkg/linuxav/v4l2"
)

// Capture is the camera mode chosen by `camscan config`, consumed by
// capture tools.
type Capture struct {
	Camera       Camera  `toml:"camera"`
	DelaySeconds float64 `toml:"delay_seconds"`
}

// Camera selects a device node and one enumerated mode of it.
type Camera struct {
	Path                string `toml:"path"`
	Format              string `toml:"format"`
	FourCC              uint32 `toml:"fourcc"`
	Width               uint32 `toml:"width"`
	Height              uint32 `toml:"height"`
	IntervalNumerator   uint32 `toml:"interval_numerator"`
	IntervalDenominator uint32 `toml:"interval_denominator"`
}

// NewCapture builds a capture config from enumerated values.
func NewCapture(path string, format v4l2.PixelFormat, size v4l2.FrameSize, interval v4l2.FrameInterval, delaySeconds float64) Capture {
	return Capture{
		Camera: Camera{
			Path:                path,
			Format:              format.Name(),
			FourCC:              format.FourCC,
			Width:               size.Width,
			Height:              size.Height,
			IntervalNumerator:   interval.Numerator,
			IntervalDenominator: interval.Denominator,
		},
		DelaySeconds: delaySeconds,
	}
}

func (c Camera) Size() v4l2.FrameSize {
	return v4l2.FrameSize{Width: c.Width, Height: c.Height}
}

func (c Camera) Interval() v4l2.FrameInterval {
	return v4l2.FrameInterval{Numerator: c.IntervalNumerator, Denominator: c.IntervalDenominator}
}

// Validate reports the first missing or inconsistent field.
func (c Capture) Validate() error {
	cam := c.Camera
	switch {
	case cam.Path == "":
		return errors.New("camera.path is required")
	case cam.FourCC == 0:
		return errors.New("camera.fourcc is required")
	case cam.Format != "" && cam.Format != v4l2.FormatFourCC(cam.FourCC):
		return fmt.Errorf("camera.format %q does not match fourcc %s", cam.Format, v4l2.FormatFourCC(cam.FourCC))
	case cam.Width == 0 || cam.Height == 0:
		return errors.New("camera.width and camera.height must be positive")
	case cam.IntervalNumerator == 0 || cam.IntervalDenominator == 0:
		return errors.New("camera interval must have a positive numerator and denominator")
	case c.DelaySeconds < 0:
		return errors.New("delay_seconds must not be negative")
	}
	return nil
}

// SaveCapture validates c and writes it to path, replacing any existing
// file atomically.
func SaveCapture(path string, c Capture) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode capture config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write capture config: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write capture config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write capture config: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("write capture config: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// LoadCapture reads and validates a capture config. A file that names
// only the format text gets its fourcc filled in.
func LoadCapture(path string) (Capture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Capture{}, err
	}

	var c Capture
	if err := toml.Unmarshal(data, &c); err != nil {
		return Capture{}, fmt.Errorf("parse capture config %s: %w", path, err)
	}
	if c.Camera.FourCC == 0 && c.Camera.Format != "" {
		fourcc, err := v4l2.ParseFourCC(c.Camera.Format)
		if err != nil {
			return Capture{}, fmt.Errorf("camera.format: %w", err)
		}
		c.Camera.FourCC = fourcc
	}
	if err := c.Validate(); err != nil {
		return Capture{}, fmt.Errorf("capture config %s: %w", path, err)
	}
	return c, nil
}
