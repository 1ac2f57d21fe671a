// Package scanner finds V4L2 capture devices and probes their capabilities.
package scanner

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/smazurov/camscan/internal/logging"
	"github.com/smazurov/camscan/pkg/linuxav/v4l2"
)

// ErrUnsupported is returned on platforms without V4L2.
var ErrUnsupported = errors.New("scanner: V4L2 is not supported on this platform")

// Device is a node whose identity query succeeded.
type Device struct {
	Node v4l2.Node
	Info v4l2.DeviceInfo
}

// Probe is the full capability report of one device node.
type Probe struct {
	Device
	Formats  []v4l2.FormatModes
	ProbedAt time.Time
}

// Backend performs the device I/O. Every call opens and closes the node.
type Backend interface {
	Nodes() ([]v4l2.Node, error)
	Query(path string, o v4l2.Observer) (v4l2.DeviceInfo, error)
	Capabilities(path string, o v4l2.Observer) (v4l2.DeviceInfo, []v4l2.FormatModes, error)
}

// Scanner lists and probes capture devices through a Backend.
type Scanner struct {
	backend  Backend
	observer v4l2.Observer
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithObserver passes o to every control channel the scanner opens.
func WithObserver(o v4l2.Observer) Option {
	return func(s *Scanner) { s.observer = o }
}

// WithBackend replaces the platform backend.
func WithBackend(b Backend) Option {
	return func(s *Scanner) { s.backend = b }
}

func New(opts ...Option) *Scanner {
	s := &Scanner{
		backend: platformBackend(),
		logger:  logging.GetLogger("scanner"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the capture devices present, in node path order. Nodes that
// fail the identity query or do not capture video are skipped.
func (s *Scanner) List() ([]Device, error) {
	nodes, err := s.backend.Nodes()
	if err != nil {
		return nil, fmt.Errorf("find video nodes: %w", err)
	}

	devices := make([]Device, 0, len(nodes))
	for _, node := range nodes {
		info, err := s.backend.Query(node.Path, s.observer)
		if err != nil {
			s.logger.Debug("Skipping node", "path", node.Path, "error", err)
			continue
		}
		if !info.Capture {
			s.logger.Debug("Skipping node without video capture", "path", node.Path, "card", info.Card)
			continue
		}
		if node.ID == "" {
			node.ID = v4l2.SyntheticID(info.BusInfo, node.Index)
		}
		devices = append(devices, Device{Node: node, Info: info})
	}
	return devices, nil
}

// Probe queries one node and walks its formats, sizes and intervals.
func (s *Scanner) Probe(path string) (Probe, error) {
	node := s.lookup(path)

	info, formats, err := s.backend.Capabilities(node.Path, s.observer)
	if err != nil {
		return Probe{}, fmt.Errorf("probe %s: %w", node.Path, err)
	}
	if node.ID == "" {
		node.ID = v4l2.SyntheticID(info.BusInfo, node.Index)
	}

	s.logger.Debug("Probed device", "path", node.Path, "card", info.Card, "formats", len(formats))
	return Probe{
		Device:   Device{Node: node, Info: info},
		Formats:  formats,
		ProbedAt: s.now(),
	}, nil
}

// lookup returns the discovered node for path, or a bare node when the
// path is not among them (a symlink, or discovery failing).
func (s *Scanner) lookup(path string) v4l2.Node {
	clean := filepath.Clean(path)
	if nodes, err := s.backend.Nodes(); err == nil {
		for _, n := range nodes {
			if n.Path == clean {
				return n
			}
		}
	}
	return v4l2.Node{Path: clean, Name: filepath.Base(clean)}
}
