package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceHarness/pkg/bom"
)

var (
	bomOutput string
	bomTable  bool
)

var bomCmd = &cobra.Command{
	Use:   "bom <harness.yml>",
	Short: "Print the bill of materials",
	Long: `Aggregate the connectors, cables, bundle wires and additional items of
a harness into a bill of materials.

Examples:
  wireviz bom demo.yml
  wireviz bom --table demo.yml
  wireviz bom -o demo.bom.tsv demo.yml`,
	Args: cobra.ExactArgs(1),
	RunE: runBOM,
}

func init() {
	rootCmd.AddCommand(bomCmd)

	bomCmd.Flags().StringVarP(&bomOutput, "output", "o", "", "write TSV to this file instead of stdout")
	bomCmd.Flags().BoolVarP(&bomTable, "table", "t", false, "print aligned columns instead of TSV")
}

func runBOM(cmd *cobra.Command, args []string) error {
	h, err := loadHarness(args[0])
	if err != nil {
		return err
	}
	rows := bom.List(bom.Build(h))

	if bomOutput != "" {
		if err := os.WriteFile(bomOutput, []byte(bom.TSV(rows)), 0o644); err != nil {
			return fmt.Errorf("error writing BOM: %w", err)
		}
		log.Info("BOM written", "path", bomOutput, "items", len(rows)-1)
		return nil
	}
	if bomTable {
		return printTable(cmd.OutOrStdout(), rows)
	}
	_, err = io.WriteString(cmd.OutOrStdout(), bom.TSV(rows))
	return err
}

func printTable(w io.Writer, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
