package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/smazurov/camscan/internal/config"
	"github.com/spf13/cobra"
)

// CreateConfigCmd creates the interactive config command.
func CreateConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config <output.toml>",
		Short: "Choose a camera mode interactively and write it as a capture config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := runConfigure(cmd.InOrStdin(), cmd.OutOrStdout(), NewProber())
			if err != nil {
				return err
			}
			if err := config.SaveCapture(args[0], c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nwrote %s\n", args[0])
			return nil
		},
	}
}

type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// ask repeats prompt until parse accepts the answer.
func (p *prompter) ask(prompt string, parse func(string) error) error {
	for {
		fmt.Fprint(p.out, prompt)
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return err
			}
			return io.ErrUnexpectedEOF
		}
		err := parse(strings.TrimSpace(p.in.Text()))
		if err == nil {
			return nil
		}
		fmt.Fprintf(p.out, "%v\n", err)
	}
}

// choose asks for an index into a menu of n entries.
func (p *prompter) choose(prompt string, n int) (int, error) {
	var idx int
	err := p.ask(prompt, func(s string) error {
		i, err := strconv.Atoi(s)
		if err != nil || i < 0 || i >= n {
			return fmt.Errorf("enter a number from 0 to %d", n-1)
		}
		idx = i
		return nil
	})
	return idx, err
}

func runConfigure(in io.Reader, out io.Writer, prober Prober) (config.Capture, error) {
	p := &prompter{in: bufio.NewScanner(in), out: out}

	devices, err := prober.List()
	if err != nil {
		return config.Capture{}, err
	}
	if len(devices) == 0 {
		return config.Capture{}, errors.New("no capture devices found")
	}

	fmt.Fprintln(out, "\ncameras:")
	for i, d := range devices {
		fmt.Fprintf(out, "\t%d: %s: %s\n", i, d.Node.Path, d.Info)
	}
	var path string
	err = p.ask("choose a camera: ", func(s string) error {
		if i, err := strconv.Atoi(s); err == nil && i >= 0 && i < len(devices) {
			path = devices[i].Node.Path
			return nil
		}
		for _, d := range devices {
			if d.Node.Path == filepath.Clean(s) {
				path = d.Node.Path
				return nil
			}
		}
		return fmt.Errorf("unknown camera %q", s)
	})
	if err != nil {
		return config.Capture{}, err
	}

	probe, err := prober.Probe(path)
	if err != nil {
		return config.Capture{}, err
	}
	if len(probe.Formats) == 0 {
		return config.Capture{}, fmt.Errorf("%s reports no capture formats", path)
	}

	fmt.Fprintln(out, "\ncamera formats:")
	for i, f := range probe.Formats {
		fmt.Fprintf(out, "\t%d: %s\n", i, formatLabel(f.Format.Description, f.Format.Compressed, f.Format.Emulated))
	}
	fi, err := p.choose("preferred capture format: ", len(probe.Formats))
	if err != nil {
		return config.Capture{}, err
	}
	format := probe.Formats[fi]
	if len(format.Sizes) == 0 {
		return config.Capture{}, fmt.Errorf("format %s has no discrete frame sizes", format.Format.Name())
	}

	fmt.Fprintln(out, "\ncamera frame sizes:")
	for i, s := range format.Sizes {
		fmt.Fprintf(out, "\t%d: %-9s (%s)\n", i, s.Size, s.Size.AspectRatio())
	}
	si, err := p.choose("preferred camera frame size: ", len(format.Sizes))
	if err != nil {
		return config.Capture{}, err
	}
	size := format.Sizes[si]
	if len(size.Intervals) == 0 {
		return config.Capture{}, fmt.Errorf("frame size %s has no discrete intervals", size.Size)
	}

	fmt.Fprintln(out, "\ncamera frame intervals:")
	for i, iv := range size.Intervals {
		fmt.Fprintf(out, "\t%d: %s\n", i, iv)
	}
	ii, err := p.choose("preferred camera frame interval: ", len(size.Intervals))
	if err != nil {
		return config.Capture{}, err
	}
	interval := size.Intervals[ii]

	var delay float64
	err = p.ask("\nframe capture delay (seconds): ", func(s string) error {
		d, err := strconv.ParseFloat(s, 64)
		if err != nil || d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return errors.New("enter a non-negative number of seconds")
		}
		delay = d
		return nil
	})
	if err != nil {
		return config.Capture{}, err
	}

	return config.NewCapture(path, format.Format, size.Size, interval, delay), nil
}
