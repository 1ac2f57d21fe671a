// Package cmd holds the camscan subcommands.
package cmd

import (
	"github.com/smazurov/camscan/internal/scanner"
)

// Prober lists and probes capture devices.
type Prober interface {
	List() ([]scanner.Device, error)
	Probe(path string) (scanner.Probe, error)
}

// NewProber builds the prober used by the commands. Tests replace it.
var NewProber = func() Prober { return scanner.New() }
