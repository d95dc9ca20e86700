package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceHarness/pkg/harness"
)

var netlistFormat string

var netlistCmd = &cobra.Command{
	Use:   "netlist <harness.yml>",
	Short: "Print the electrical connectivity of a harness",
	Long: `Group connector pins joined through wires, shields and loops into nets.

Output formats:
  text   one net per line (default)
  kicad  KiCad-style S-expression netlist
  json   JSON netlist

Examples:
  wireviz netlist demo.yml
  wireviz netlist --format kicad demo.yml > demo.net`,
	Args: cobra.ExactArgs(1),
	RunE: runNetlist,
}

func init() {
	rootCmd.AddCommand(netlistCmd)

	netlistCmd.Flags().StringVar(&netlistFormat, "format", "text", "output format (text, kicad, json)")
}

func runNetlist(cmd *cobra.Command, args []string) error {
	h, err := loadHarness(args[0])
	if err != nil {
		return err
	}
	nl := harness.BuildNetlist(h)
	out := cmd.OutOrStdout()

	switch netlistFormat {
	case "text":
		fmt.Fprintf(out, "Nets: %d\n", nl.NetCount())
		for _, net := range nl.Nets {
			fmt.Fprintf(out, "  Net %d:", net.ID)
			for _, p := range net.Pins {
				fmt.Fprintf(out, " %s:%s", p.Component, p.Pin)
			}
			fmt.Fprintln(out)
		}
	case "kicad":
		s, err := nl.ExportKiCad()
		if err != nil {
			return err
		}
		fmt.Fprint(out, s)
	case "json":
		data, err := nl.ExportJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	default:
		return fmt.Errorf("unknown netlist format %q", netlistFormat)
	}
	return nil
}
