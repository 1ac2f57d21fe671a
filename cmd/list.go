package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// CreateListCmd creates the list command.
func CreateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List video capture devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.OutOrStdout(), NewProber())
		},
	}
}

func runList(w io.Writer, p Prober) error {
	devices, err := p.List()
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		fmt.Fprintln(w, "no capture devices found")
		return nil
	}
	for _, d := range devices {
		fmt.Fprintf(w, "%s: %s\n", d.Node.Path, d.Info)
	}
	return nil
}
