package harness

import (
	"slices"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceHarness/pkg/colors"
)

// CategoryBundle marks a cable whose wires are sourced and routed
// individually and only share a sheath or a lacing.
const CategoryBundle = "bundle"

// DefaultGaugeUnit is assumed when a gauge is given without a unit.
const DefaultGaugeUnit = "mm²"

// Port addresses one conductor of a cable: a 1-based wire or the shield.
type Port struct {
	Wire   int
	Shield bool
}

// WirePort returns the port of the wire at 1-based index i.
func WirePort(i int) Port { return Port{Wire: i} }

// ShieldPort is the port of a cable's shield.
var ShieldPort = Port{Shield: true}

// String returns "s" for the shield, the wire number otherwise.
func (p Port) String() string {
	if p.Shield {
		return "s"
	}
	return strconv.Itoa(p.Wire)
}

// Connection is one conductor of a cable and the connector pins at its ends.
// An empty FromName or ToName means that end is not connected.
type Connection struct {
	FromName string
	FromPin  string
	ViaName  string
	ViaPort  Port
	ToName   string
	ToPin    string
}

// HasFrom reports whether the left end is connected.
func (c Connection) HasFrom() bool { return c.FromName != "" }

// HasTo reports whether the right end is connected.
func (c Connection) HasTo() bool { return c.ToName != "" }

// CableOptions describes a cable before defaults are applied.
type CableOptions struct {
	Manufacturer PerWire[string]
	MPN          PerWire[string]
	PN           PerWire[string]
	Category     string
	Type         string
	Gauge        float64
	GaugeUnit    string
	ShowEquiv    bool
	Length       float64
	WireCount    int
	Shield       bool
	Notes        string
	Colors       []colors.Spec
	ColorCode    string

	ShowName      *bool
	ShowWireCount *bool
}

// Cable is a multi-core cable or a bundle of single wires.
type Cable struct {
	Name         string
	Manufacturer PerWire[string]
	MPN          PerWire[string]
	PN           PerWire[string]
	Category     string
	Type         string
	Gauge        float64
	GaugeUnit    string
	ShowEquiv    bool
	Length       float64
	WireCount    int
	Shield       bool
	Notes        string
	Colors       []colors.Spec

	ShowName      bool
	ShowWireCount bool

	Connections []Connection
}

// NewCable validates opts and derives the wire colors from an explicit
// list, a named color code, or blanks.
func NewCable(name string, opts CableOptions) (*Cable, error) {
	c := &Cable{
		Name:          name,
		Manufacturer:  opts.Manufacturer,
		MPN:           opts.MPN,
		PN:            opts.PN,
		Category:      opts.Category,
		Type:          opts.Type,
		Gauge:         opts.Gauge,
		GaugeUnit:     opts.GaugeUnit,
		ShowEquiv:     opts.ShowEquiv,
		Length:        opts.Length,
		WireCount:     opts.WireCount,
		Shield:        opts.Shield,
		Notes:         opts.Notes,
		Colors:        slices.Clone(opts.Colors),
		ShowName:      true,
		ShowWireCount: true,
	}
	if opts.ShowName != nil {
		c.ShowName = *opts.ShowName
	}
	if opts.ShowWireCount != nil {
		c.ShowWireCount = *opts.ShowWireCount
	}
	if c.Gauge != 0 && c.GaugeUnit == "" {
		c.GaugeUnit = DefaultGaugeUnit
	}
	if c.Length < 0 {
		return nil, invalid(name, "length must not be negative")
	}

	if c.WireCount > 0 {
		switch {
		case len(c.Colors) > 0:
		case opts.ColorCode != "":
			palette, ok := colors.ColorCodes[opts.ColorCode]
			if !ok {
				return nil, invalid(name, "unknown color code %q", opts.ColorCode)
			}
			for _, s := range palette {
				c.Colors = append(c.Colors, colors.MustParseSpec(s))
			}
		default:
			c.Colors = make([]colors.Spec, c.WireCount)
		}
		// loop the palette around if there are more wires than colors
		for len(c.Colors) < c.WireCount {
			c.Colors = append(c.Colors, c.Colors...)
		}
		c.Colors = c.Colors[:c.WireCount]
	} else {
		if len(c.Colors) == 0 {
			return nil, invalid(name, "unknown number of wires, specify wirecount or colors")
		}
		c.WireCount = len(c.Colors)
	}

	for _, f := range []PerWire[string]{c.Manufacturer, c.MPN, c.PN} {
		if !f.IsPerWire() {
			continue
		}
		if !c.IsBundle() {
			return nil, invalid(name, "lists of part data are only supported for bundles")
		}
		if f.Len() != c.WireCount {
			return nil, invalid(name, "lists of part data must match wirecount")
		}
	}

	return c, nil
}

// IsBundle reports whether the cable is a bundle of individual wires.
func (c *Cable) IsBundle() bool {
	return c.Category == CategoryBundle
}

// ValidPort reports whether p addresses a conductor of the cable.
func (c *Cable) ValidPort(p Port) bool {
	if p.Shield {
		return c.Shield
	}
	return p.Wire >= 1 && p.Wire <= c.WireCount
}

// WireColor returns the color of the conductor behind p. The shield is
// always drawn as tinned copper.
func (c *Cable) WireColor(p Port) colors.Spec {
	if p.Shield {
		return colors.Spec{colors.ShieldColor}
	}
	return c.Colors[p.Wire-1]
}
