package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/smazurov/camscan/internal/scanner"
	"github.com/spf13/cobra"
)

// CreateProbeCmd creates the probe command.
func CreateProbeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "probe <device>",
		Short: "Print the formats, frame sizes and intervals of a device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := NewProber().Probe(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), p)
			}
			printTree(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the capability tree as JSON")
	return cmd
}

func formatLabel(description string, compressed, emulated bool) string {
	var b strings.Builder
	b.WriteString(description)
	if compressed {
		b.WriteString(" (compressed)")
	}
	if emulated {
		b.WriteString(" (emulated)")
	}
	return b.String()
}

func printTree(w io.Writer, p scanner.Probe) {
	fmt.Fprintf(w, "%s: %s\n", p.Node.Path, p.Info)
	if p.Node.ID != "" {
		fmt.Fprintf(w, "id: %s\n", p.Node.ID)
	}
	for _, f := range p.Formats {
		fmt.Fprintf(w, "\t%s: %s\n", f.Format.Name(), formatLabel(f.Format.Description, f.Format.Compressed, f.Format.Emulated))
		for _, s := range f.Sizes {
			fmt.Fprintf(w, "\t\t%-9s (%s)\n", s.Size, s.Size.AspectRatio())
			for _, iv := range s.Intervals {
				fmt.Fprintf(w, "\t\t\t%s (%.2f fps)\n", iv, iv.FPS())
			}
		}
	}
}

type jsonInterval struct {
	Numerator   uint32  `json:"numerator"`
	Denominator uint32  `json:"denominator"`
	FPS         float64 `json:"fps"`
}

type jsonSize struct {
	Width       uint32         `json:"width"`
	Height      uint32         `json:"height"`
	AspectRatio string         `json:"aspect_ratio"`
	Intervals   []jsonInterval `json:"intervals"`
}

type jsonFormat struct {
	FourCC      string     `json:"fourcc"`
	Description string     `json:"description"`
	Compressed  bool       `json:"compressed"`
	Emulated    bool       `json:"emulated"`
	Sizes       []jsonSize `json:"sizes"`
}

type jsonDevice struct {
	Path    string       `json:"path"`
	ID      string       `json:"id,omitempty"`
	Card    string       `json:"card"`
	Driver  string       `json:"driver"`
	BusInfo string       `json:"bus_info"`
	Formats []jsonFormat `json:"formats"`
}

func writeJSON(w io.Writer, p scanner.Probe) error {
	out := jsonDevice{
		Path:    p.Node.Path,
		ID:      p.Node.ID,
		Card:    p.Info.Card,
		Driver:  p.Info.Driver,
		BusInfo: p.Info.BusInfo,
		Formats: []jsonFormat{},
	}
	for _, f := range p.Formats {
		jf := jsonFormat{
			FourCC:      f.Format.Name(),
			Description: f.Format.Description,
			Compressed:  f.Format.Compressed,
			Emulated:    f.Format.Emulated,
			Sizes:       []jsonSize{},
		}
		for _, s := range f.Sizes {
			js := jsonSize{
				Width:       s.Size.Width,
				Height:      s.Size.Height,
				AspectRatio: s.Size.AspectRatio(),
				Intervals:   []jsonInterval{},
			}
			for _, iv := range s.Intervals {
				js.Intervals = append(js.Intervals, jsonInterval{iv.Numerator, iv.Denominator, iv.FPS()})
			}
			jf.Sizes = append(jf.Sizes, js)
		}
		out.Formats = append(out.Formats, jf)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
