// Package config holds the settings of the command line tools.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceHarness/pkg/colors"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// knownFormats are the Graphviz output formats the renderer accepts.
var knownFormats = []string{"bmp", "eps", "gif", "jpeg", "jpg", "pdf", "png", "ps", "svg", "tif", "tiff", "webp"}

// Config controls how harnesses are rendered and where the artifacts go.
type Config struct {
	// Output
	Formats   []string `yaml:"formats"`    // Image formats to render (default: svg, png)
	HTML      bool     `yaml:"html"`       // Write the HTML page (default: true)
	OutputDir string   `yaml:"output_dir"` // Directory for artifacts; empty means next to the input
	ColorMode string   `yaml:"color_mode"` // Overrides the document's color mode when set

	// Graphviz
	DotPath     string        `yaml:"dot"`         // Layout binary (default: dot)
	NeatoPath   string        `yaml:"neato"`       // Render binary (default: neato)
	Timeout     time.Duration `yaml:"timeout"`     // Per engine call (default: 30s)
	Concurrency int           `yaml:"concurrency"` // Parallel render processes (default: 4)

	// Logging
	LogMode string `yaml:"log_mode"` // "dev" or "prod" (default: dev)
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		Formats:     []string{"svg", "png"},
		HTML:        true,
		DotPath:     "dot",
		NeatoPath:   "neato",
		Timeout:     30 * time.Second,
		Concurrency: 4,
		LogMode:     "dev",
	}
}

// Load overlays the YAML file at path onto the defaults and validates the
// result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read overlays the YAML in r onto the defaults and validates the result.
// Keys missing from the document keep their default value.
func Read(r io.Reader) (*Config, error) {
	c := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the configuration and normalizes the format list.
func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	if c.DotPath == "" || c.NeatoPath == "" {
		return fmt.Errorf("%w: graphviz binaries must be set", ErrInvalidConfig)
	}

	formats := make([]string, 0, len(c.Formats))
	for _, f := range c.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if !slices.Contains(knownFormats, f) {
			return fmt.Errorf("%w: unknown output format %q", ErrInvalidConfig, f)
		}
		if !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	c.Formats = formats

	if c.ColorMode != "" && !colors.ValidMode(colors.Mode(c.ColorMode)) {
		return fmt.Errorf("%w: unknown color mode %q", ErrInvalidConfig, c.ColorMode)
	}
	switch strings.ToLower(c.LogMode) {
	case "", "dev", "development", "prod", "production":
	default:
		return fmt.Errorf("%w: unknown log mode %q", ErrInvalidConfig, c.LogMode)
	}
	return nil
}
