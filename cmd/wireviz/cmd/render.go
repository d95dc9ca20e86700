package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceHarness/pkg/bom"
	"github.com/OpenTraceLab/OpenTraceHarness/pkg/diagram"
	"github.com/OpenTraceLab/OpenTraceHarness/pkg/layout"
	"github.com/OpenTraceLab/OpenTraceHarness/pkg/output"
)

var (
	renderFormats   []string
	renderOutputDir string
	renderNoHTML    bool
	renderColorMode string
)

var renderCmd = &cobra.Command{
	Use:   "render <harness.yml>...",
	Short: "Draw harnesses and write their artifacts",
	Long: `Lay out each harness with Graphviz and write, next to the input file
(or into --output-dir):

  <name>.gv        laid-out graph source
  <name>.<format>  one image per --format
  <name>.bom.tsv   bill of materials
  <name>.html      diagram and BOM on one page

Examples:
  wireviz render demo.yml
  wireviz render -f svg -f pdf --no-html demo.yml
  wireviz render --color-mode full -o build demo1.yml demo2.yml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringSliceVarP(&renderFormats, "format", "f", nil,
		"image formats to render (default from config: svg, png)")
	renderCmd.Flags().StringVarP(&renderOutputDir, "output-dir", "o", "",
		"directory for the artifacts")
	renderCmd.Flags().BoolVar(&renderNoHTML, "no-html", false, "do not write the HTML page")
	renderCmd.Flags().StringVar(&renderColorMode, "color-mode", "",
		"wire color text: SHORT, FULL, HEX or GER (lower case for lower case output)")
}

func runRender(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("format") {
		cfg.Formats = renderFormats
	}
	if renderOutputDir != "" {
		cfg.OutputDir = renderOutputDir
	}
	if renderNoHTML {
		cfg.HTML = false
	}
	if renderColorMode != "" {
		cfg.ColorMode = renderColorMode
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("output directory: %w", err)
		}
	}

	engine, err := layout.NewGraphviz(
		layout.WithBinaries(cfg.DotPath, cfg.NeatoPath),
		layout.WithTimeout(cfg.Timeout),
		layout.WithLogger(log.Sugar()),
	)
	if err != nil {
		return err
	}
	if err := engine.AssertReady(); err != nil {
		return err
	}

	builder := diagram.NewBuilder(engine, diagram.WithLogger(log.Sugar()))
	writer := output.NewWriter(engine,
		output.WithFormats(cfg.Formats...),
		output.WithHTML(cfg.HTML),
		output.WithConcurrency(cfg.Concurrency),
		output.WithLogger(log.Sugar()),
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	for _, input := range args {
		h, err := loadHarness(input)
		if err != nil {
			return err
		}
		g, err := builder.Build(ctx, h)
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		base := basePath(input, cfg.OutputDir)
		if err := writer.Write(ctx, base, g, bom.Build(h)); err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		for _, f := range writer.Files(base) {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
	}
	return nil
}
