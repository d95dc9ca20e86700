package loader

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceHarness/pkg/harness"
)

// Document is the YAML description of a harness.
type Document struct {
	Options     Options             `yaml:"options"`
	Connectors  Named[ConnectorDoc] `yaml:"connectors"`
	Cables      Named[CableDoc]     `yaml:"cables"`
	Connections []ConnectionSet     `yaml:"connections"`
	Extras      []ItemDoc           `yaml:"additional_bom_items"`
}

// Options holds document-wide drawing options.
type Options struct {
	ColorMode string `yaml:"color_mode"`
}

// ConnectorDoc mirrors harness.ConnectorOptions.
type ConnectorDoc struct {
	Manufacturer         string       `yaml:"manufacturer"`
	MPN                  string       `yaml:"mpn"`
	PN                   string       `yaml:"pn"`
	Style                string       `yaml:"style"`
	Category             string       `yaml:"category"`
	Type                 string       `yaml:"type"`
	Subtype              string       `yaml:"subtype"`
	PinCount             int          `yaml:"pincount"`
	Notes                string       `yaml:"notes"`
	Pins                 StringList   `yaml:"pins"`
	PinLabels            StringList   `yaml:"pinlabels"`
	Color                string       `yaml:"color"`
	ShowName             *bool        `yaml:"show_name"`
	ShowPinCount         *bool        `yaml:"show_pincount"`
	HideDisconnectedPins bool         `yaml:"hide_disconnected_pins"`
	Autogenerate         bool         `yaml:"autogenerate"`
	Loops                []StringList `yaml:"loops"`
}

// CableDoc mirrors harness.CableOptions.
type CableDoc struct {
	Manufacturer  PartField  `yaml:"manufacturer"`
	MPN           PartField  `yaml:"mpn"`
	PN            PartField  `yaml:"pn"`
	Category      string     `yaml:"category"`
	Type          string     `yaml:"type"`
	Gauge         Gauge      `yaml:"gauge"`
	ShowEquiv     bool       `yaml:"show_equiv"`
	Length        float64    `yaml:"length"`
	WireCount     int        `yaml:"wirecount"`
	Shield        bool       `yaml:"shield"`
	Notes         string     `yaml:"notes"`
	Colors        StringList `yaml:"colors"`
	ColorCode     string     `yaml:"color_code"`
	ShowName      *bool      `yaml:"show_name"`
	ShowWireCount *bool      `yaml:"show_wirecount"`
}

// ItemDoc is an additional BOM entry.
type ItemDoc struct {
	Description  string     `yaml:"description"`
	Qty          *float64   `yaml:"qty"`
	Unit         string     `yaml:"unit"`
	Designators  StringList `yaml:"designators"`
	Manufacturer string     `yaml:"manufacturer"`
	MPN          string     `yaml:"mpn"`
	PN           string     `yaml:"pn"`
}

// Entry is one value of a YAML mapping with its key.
type Entry[T any] struct {
	Name  string
	Value T
}

// Named decodes a YAML mapping and keeps the order of its keys.
type Named[T any] []Entry[T]

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Named[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var v T
		if err := node.Content[i+1].Decode(&v); err != nil {
			return err
		}
		*n = append(*n, Entry[T]{Name: node.Content[i].Value, Value: v})
	}
	return nil
}

// StringList accepts a scalar or a sequence of scalars. Numbers are kept in
// their literal form, so pin 1 and pin "1" are the same pin.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = StringList{node.Value}
	case yaml.SequenceNode:
		out := make(StringList, 0, len(node.Content))
		for _, c := range node.Content {
			if c.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: expected a scalar", c.Line)
			}
			out = append(out, c.Value)
		}
		*l = out
	default:
		return fmt.Errorf("line %d: expected a scalar or a list", node.Line)
	}
	return nil
}

// PartField is a part attribute given once for the cable or once per wire.
type PartField struct {
	harness.PerWire[string]
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *PartField) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		f.PerWire = harness.Scalar(node.Value)
	case yaml.SequenceNode:
		var l StringList
		if err := l.UnmarshalYAML(node); err != nil {
			return err
		}
		f.PerWire = harness.List([]string(l))
	default:
		return fmt.Errorf("line %d: expected a scalar or a list", node.Line)
	}
	return nil
}

// Gauge is a conductor size: a number, or a number and a unit such as
// "0.25 mm2" or "24 AWG".
type Gauge struct {
	Value float64
	Unit  string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (g *Gauge) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a gauge", node.Line)
	}
	parsed, err := ParseGauge(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*g = parsed
	return nil
}

// ParseGauge reads "0.25", "0.25 mm2" or "24 AWG". The unit "mm2" is
// written as "mm²".
func ParseGauge(s string) (Gauge, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return Gauge{}, fmt.Errorf("invalid gauge %q", s)
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Gauge{}, fmt.Errorf("invalid gauge %q: %w", s, err)
	}
	g := Gauge{Value: v}
	if len(fields) == 2 {
		g.Unit = fields[1]
		if strings.EqualFold(g.Unit, "mm2") {
			g.Unit = harness.DefaultGaugeUnit
		}
	}
	return g, nil
}

// ConnectionSet is one entry of the connections list: two or three
// components in the order connector, cable, connector. Each component is a
// name with a pin or wire selection, or a bare name.
type ConnectionSet []Endpoint

// Endpoint is one component reference in a connection set.
type Endpoint struct {
	Name string
	// Pins is nil for a bare name.
	Pins StringList
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *Endpoint) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		e.Name = node.Value
		return nil
	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("line %d: expected exactly one component per entry", node.Line)
		}
		e.Name = node.Content[0].Value
		return node.Content[1].Decode(&e.Pins)
	}
	return fmt.Errorf("line %d: expected a component reference", node.Line)
}
