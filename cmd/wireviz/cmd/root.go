package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceHarness/internal/config"
	"github.com/OpenTraceLab/OpenTraceHarness/internal/logger"
	"github.com/OpenTraceLab/OpenTraceHarness/pkg/colors"
	"github.com/OpenTraceLab/OpenTraceHarness/pkg/harness"
	"github.com/OpenTraceLab/OpenTraceHarness/pkg/loader"
)

var (
	// Global flags
	verbose    bool
	configPath string

	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "wireviz",
	Short: "Wiring harness diagrams and bills of materials",
	Long: `wireviz reads a YAML description of connectors, cables and their
wire-by-wire connections, and produces a diagram and a bill of materials.

Examples:
  wireviz render harness.yml                 # .gv, .svg, .png, .bom.tsv, .html
  wireviz render -f pdf -o out harness.yml   # PDF into out/
  wireviz bom harness.yml                    # BOM as TSV on stdout
  wireviz netlist --format kicad harness.yml # connectivity as a KiCad netlist`,
	Version:           "0.3.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if log != nil {
			log.Sync()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file (YAML)")
}

func setup(cmd *cobra.Command, _ []string) error {
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg = config.DefaultConfig()
		err = cfg.Validate()
	}
	if err != nil {
		return err
	}

	log, err = logger.New(cfg.LogMode, verbose)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	log.Debug("configuration loaded", "path", configPath, "formats", cfg.Formats)
	return nil
}

// loadHarness reads a harness file and applies the configured color mode.
func loadHarness(path string) (*harness.Harness, error) {
	h, err := loader.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.ColorMode != "" {
		h.ColorMode = colors.Mode(cfg.ColorMode)
	}
	log.Debug("harness loaded", "path", path,
		"connectors", len(h.Connectors()), "cables", len(h.Cables()))
	return h, nil
}

// basePath returns the output path of an input file without its extension,
// in dir when dir is set.
func basePath(input, dir string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if dir != "" {
		base = filepath.Join(dir, filepath.Base(base))
	}
	return base
}
