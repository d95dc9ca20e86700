package markup

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceHarness/pkg/colors"
	"github.com/OpenTraceLab/OpenTraceHarness/pkg/harness"
)

// Sides tells which sides of a connector have wires attached. Port anchors
// are only drawn on those sides.
type Sides struct {
	Left  bool
	Right bool
}

// LeftPort is the port name of a pin's left anchor.
func LeftPort(pin string) string { return "p" + pin + "l" }

// RightPort is the port name of a pin's right anchor.
func RightPort(pin string) string { return "p" + pin + "r" }

// Connector builds the label of a connector node.
func Connector(c *harness.Connector, sides Sides) *Table {
	var name *Cell
	if c.ShowName {
		name = Text(c.Name)
	}

	var pn *Cell
	if c.PN != "" {
		pn = Text("P/N: " + c.PN)
	}

	var pinCount, color, swatch *Cell
	if c.ShowPinCount {
		pinCount = Text(fmt.Sprintf("%d-pin", c.PinCount))
	}
	if c.Color != "" {
		color = Text(c.Color)
		swatch = Empty(A("bgcolor", swatchHex(c.Color)), A("width", 4))
	}

	outer := NewTable(A("border", 0), A("cellspacing", 0), A("cellpadding", 0))
	addCellRow(outer, Row{name})
	addCellRow(outer, Row{pn, optText(ManufacturerInfo(c.Manufacturer, c.MPN))})
	addCellRow(outer, Row{optText(c.Type), optText(c.Subtype), pinCount, color, swatch})
	if !c.IsSimple() {
		outer.AddRow(Nested(pinTable(c, sides)))
	}
	addCellRow(outer, Row{optText(c.Notes)})
	return outer
}

func pinTable(c *harness.Connector, sides Sides) *Table {
	t := NewTable(A("border", 0), A("cellspacing", 0), A("cellpadding", 3), A("cellborder", 1))
	pins, labels := c.VisiblePins()
	for i, pin := range pins {
		var left, right *Cell
		if sides.Left {
			left = Text(pin, A("port", LeftPort(pin)))
		}
		if sides.Right {
			right = Text(pin, A("port", RightPort(pin)))
		}
		t.AddRow(left, optText(labels[i]), right)
	}
	return t
}

// addCellRow wraps one row of cells in its own bordered table so that cell
// widths are independent between rows. Empty rows are skipped.
func addCellRow(outer *Table, r Row) {
	if r.IsEmpty() {
		return
	}
	cells := make([]*Cell, 0, len(r))
	for _, c := range r {
		if c == nil {
			continue
		}
		cells = append(cells, c.With(A("balign", "left")))
	}
	inner := NewTable(A("border", 0), A("cellspacing", 0), A("cellpadding", 3), A("cellborder", 1)).AddRow(cells...)
	outer.AddRow(Nested(inner))
}

// ManufacturerInfo formats manufacturer and MPN as "Manufacturer: MPN".
// The MPN alone is written as "MPN: value". Returns "" when both are empty.
func ManufacturerInfo(manufacturer, mpn string) string {
	if manufacturer == "" && mpn == "" {
		return ""
	}
	out := manufacturer
	if out == "" {
		out = "MPN"
	}
	if mpn != "" {
		out += ": " + mpn
	}
	return out
}

func optText(s string) *Cell {
	if s == "" {
		return nil
	}
	return Text(s)
}

func swatchHex(color string) string {
	spec, err := colors.ParseSpec(color)
	if err != nil || spec.IsEmpty() {
		return colors.DefaultHex
	}
	hex, _ := colors.Translate(spec, colors.ModeHex)
	return hex
}
