package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smazurov/camscan/internal/config"
	"github.com/smazurov/camscan/internal/scanner"
	"github.com/smazurov/camscan/pkg/linuxav/v4l2"
)

const (
	fourccYUYV = 0x56595559
	fourccMJPG = 0x47504a4d
)

type fakeProber struct {
	devices []scanner.Device
	probes  map[string]scanner.Probe
	listErr error
}

func (f *fakeProber) List() ([]scanner.Device, error) {
	return f.devices, f.listErr
}

func (f *fakeProber) Probe(path string) (scanner.Probe, error) {
	p, ok := f.probes[path]
	if !ok {
		return scanner.Probe{}, errors.New("probe " + path + ": no such device")
	}
	return p, nil
}

func newFakeProber() *fakeProber {
	cam := scanner.Device{
		Node: v4l2.Node{Path: "/dev/video0", Name: "video0", ID: "usb-Cam-video-index0"},
		Info: v4l2.DeviceInfo{Driver: "uvcvideo", Card: "HD Webcam", BusInfo: "usb-0000:00:14.0-1", Capture: true},
	}
	other := scanner.Device{
		Node: v4l2.Node{Path: "/dev/video2", Name: "video2"},
		Info: v4l2.DeviceInfo{Driver: "vivid", Card: "Test Pattern", BusInfo: "platform:vivid-000", Capture: true},
	}
	return &fakeProber{
		devices: []scanner.Device{cam, other},
		probes: map[string]scanner.Probe{
			"/dev/video0": {
				Device: cam,
				Formats: []v4l2.FormatModes{
					{
						Format: v4l2.PixelFormat{Description: "YUYV 4:2:2", FourCC: fourccYUYV},
						Sizes: []v4l2.SizeModes{{
							Size:      v4l2.FrameSize{Width: 640, Height: 480},
							Intervals: []v4l2.FrameInterval{{Numerator: 1, Denominator: 30}},
						}},
					},
					{
						Format: v4l2.PixelFormat{Description: "Motion-JPEG", FourCC: fourccMJPG, Compressed: true},
						Sizes: []v4l2.SizeModes{
							{
								Size:      v4l2.FrameSize{Width: 640, Height: 480},
								Intervals: []v4l2.FrameInterval{{Numerator: 1, Denominator: 30}},
							},
							{
								Size:      v4l2.FrameSize{Width: 1280, Height: 720},
								Intervals: []v4l2.FrameInterval{{Numerator: 1, Denominator: 30}, {Numerator: 1, Denominator: 15}},
							},
						},
					},
				},
			},
			"/dev/video2": {Device: other},
		},
	}
}

func useProber(t *testing.T, p Prober) {
	t.Helper()
	orig := NewProber
	NewProber = func() Prober { return p }
	t.Cleanup(func() { NewProber = orig })
}

func TestRunList(t *testing.T) {
	var buf bytes.Buffer
	if err := runList(&buf, newFakeProber()); err != nil {
		t.Fatalf("runList failed: %v", err)
	}
	want := "/dev/video0: HD Webcam (uvcvideo, usb-0000:00:14.0-1)\n" +
		"/dev/video2: Test Pattern (vivid, platform:vivid-000)\n"
	if buf.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestRunListEmptyAndError(t *testing.T) {
	var buf bytes.Buffer
	if err := runList(&buf, &fakeProber{}); err != nil {
		t.Fatalf("runList failed: %v", err)
	}
	if !strings.Contains(buf.String(), "no capture devices") {
		t.Errorf("output = %q", buf.String())
	}

	boom := errors.New("sysfs unavailable")
	if err := runList(io.Discard, &fakeProber{listErr: boom}); !errors.Is(err, boom) {
		t.Errorf("runList error = %v, want %v", err, boom)
	}
}

func TestPrintTree(t *testing.T) {
	var buf bytes.Buffer
	printTree(&buf, newFakeProber().probes["/dev/video0"])
	out := buf.String()

	for _, want := range []string{
		"/dev/video0: HD Webcam (uvcvideo, usb-0000:00:14.0-1)\n",
		"id: usb-Cam-video-index0\n",
		"\tYUYV: YUYV 4:2:2\n",
		"\tMJPG: Motion-JPEG (compressed)\n",
		"\t\t1280x720  (16:9)\n",
		"\t\t640x480   (4:3)\n",
		"\t\t\t1/15 (15.00 fps)\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("tree missing %q:\n%s", want, out)
		}
	}
}

func TestProbeCommandJSON(t *testing.T) {
	useProber(t, newFakeProber())

	var buf bytes.Buffer
	cmd := CreateProbeCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--json", "/dev/video0"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("probe failed: %v", err)
	}

	var got jsonDevice
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if got.Path != "/dev/video0" || len(got.Formats) != 2 {
		t.Fatalf("device = %+v", got)
	}
	mjpg := got.Formats[1]
	if mjpg.FourCC != "MJPG" || !mjpg.Compressed || len(mjpg.Sizes) != 2 {
		t.Errorf("format = %+v", mjpg)
	}
	if iv := mjpg.Sizes[1].Intervals; len(iv) != 2 || iv[1].FPS != 15 {
		t.Errorf("intervals = %+v", iv)
	}
}

func TestProbeCommandJSONWithoutFormats(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, newFakeProber().probes["/dev/video2"]); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"formats": []`) {
		t.Errorf("output = %s, want empty formats array", buf.String())
	}
}

func TestProbeCommandUnknownDevice(t *testing.T) {
	useProber(t, newFakeProber())

	cmd := CreateProbeCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"/dev/video9"})
	if err := cmd.Execute(); err == nil {
		t.Error("probe of unknown device succeeded")
	}
}

func TestRunConfigure(t *testing.T) {
	// Invalid answers are re-prompted.
	input := strings.Join([]string{
		"/dev/video7", "0",
		"x", "5", "1",
		"-1", "1",
		"1",
		"soon", "-2", "0.5",
	}, "\n") + "\n"

	var out bytes.Buffer
	c, err := runConfigure(strings.NewReader(input), &out, newFakeProber())
	if err != nil {
		t.Fatalf("runConfigure failed: %v\n%s", err, out.String())
	}

	want := config.Camera{
		Path:                "/dev/video0",
		Format:              "MJPG",
		FourCC:              fourccMJPG,
		Width:               1280,
		Height:              720,
		IntervalNumerator:   1,
		IntervalDenominator: 15,
	}
	if c.Camera != want {
		t.Errorf("camera = %+v, want %+v", c.Camera, want)
	}
	if c.DelaySeconds != 0.5 {
		t.Errorf("delay = %v, want 0.5", c.DelaySeconds)
	}

	for _, fragment := range []string{
		"\t1: Motion-JPEG (compressed)\n",
		"\t1: 1280x720  (16:9)\n",
		"\t1: 1/15\n",
		"unknown camera \"/dev/video7\"",
		"enter a number from 0 to 1",
		"enter a non-negative number of seconds",
	} {
		if !strings.Contains(out.String(), fragment) {
			t.Errorf("output missing %q", fragment)
		}
	}
}

func TestRunConfigureByPath(t *testing.T) {
	input := "/dev//video0\n0\n0\n0\n2\n"
	c, err := runConfigure(strings.NewReader(input), io.Discard, newFakeProber())
	if err != nil {
		t.Fatalf("runConfigure failed: %v", err)
	}
	if c.Camera.Path != "/dev/video0" || c.Camera.Format != "YUYV" || c.DelaySeconds != 2 {
		t.Errorf("capture = %+v", c)
	}
}

func TestRunConfigureErrors(t *testing.T) {
	tests := []struct {
		name   string
		prober *fakeProber
		input  string
	}{
		{"no devices", &fakeProber{}, ""},
		{"list failure", &fakeProber{listErr: errors.New("boom")}, ""},
		{"input ends", newFakeProber(), "0\n1\n"},
		{"device without formats", newFakeProber(), "1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runConfigure(strings.NewReader(tt.input), io.Discard, tt.prober); err == nil {
				t.Error("runConfigure succeeded")
			}
		})
	}

	_, err := runConfigure(strings.NewReader("0\n"), io.Discard, newFakeProber())
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestConfigCommandWritesFile(t *testing.T) {
	useProber(t, newFakeProber())
	path := filepath.Join(t.TempDir(), "capture.toml")

	cmd := CreateConfigCmd()
	cmd.SetIn(strings.NewReader("0\n1\n0\n0\n1\n"))
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config failed: %v", err)
	}

	c, err := config.LoadCapture(path)
	if err != nil {
		t.Fatalf("LoadCapture failed: %v", err)
	}
	if c.Camera.Format != "MJPG" || c.Camera.Width != 640 || c.DelaySeconds != 1 {
		t.Errorf("capture = %+v", c)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error(err)
	}
}
