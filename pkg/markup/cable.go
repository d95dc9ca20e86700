package markup

import (
	"fmt"
	"slices"
	"strings"

	"github.com/OpenTraceLab/OpenTraceHarness/pkg/colors"
	"github.com/OpenTraceLab/OpenTraceHarness/pkg/harness"
)

// WireSlots are the texts on either side of a wire in a cable label: the
// connector pin the wire comes from and the one it goes to.
type WireSlots struct {
	In  *Slot
	Out *Slot
}

// Slots indexes the wire slots of one cable label by port.
type Slots map[harness.Port]WireSlots

// WirePortName is the port name of a conductor anchor in a cable label.
func WirePortName(p harness.Port) string { return "w" + p.String() }

// Cable builds the label of a cable node and the slots for its wire ends.
func Cable(c *harness.Cable, mode colors.Mode) (*Table, Slots, error) {
	slots := make(Slots, c.WireCount+1)
	main := NewTable(A("border", 0), A("cellspacing", 0), A("cellpadding", 0))

	if header := cableHeader(c); header != nil {
		main.AddRow(Nested(header))
	}
	main.AddRow(Spacer())

	conductors := NewTable(A("border", 0), A("cellspacing", 0), A("cellborder", 0))
	pad := colors.NeedsPadding(c.Colors)
	for i, spec := range c.Colors {
		port := harness.WirePort(i + 1)
		text, err := colors.Translate(spec, mode)
		if err != nil {
			return nil, nil, fmt.Errorf("markup: cable %s wire %d: %w", c.Name, i+1, err)
		}
		ws := WireSlots{In: &Slot{}, Out: &Slot{}}
		slots[port] = ws
		conductors.AddRow(SlotCell(ws.In), Text(text), SlotCell(ws.Out))
		conductors.AddRow(Nested(colorBar(colors.Hex(spec, pad)),
			A("colspan", 3), A("border", 0), A("cellspacing", 0), A("cellpadding", 0),
			A("port", WirePortName(port))))

		if c.IsBundle() {
			if id := wireIdentification(c, i); id != nil {
				conductors.AddRow(Nested(id, A("colspan", 3)))
			}
		}
	}

	if c.Shield {
		ws := WireSlots{In: &Slot{}, Out: &Slot{}}
		slots[harness.ShieldPort] = ws
		conductors.AddRow(Spacer())
		conductors.AddRow(SlotCell(ws.In), Text("Shield"), SlotCell(ws.Out))
		conductors.AddRow(Empty(A("colspan", 3), A("cellpadding", 0), A("height", 6),
			A("border", 2), A("sides", "b"), A("port", WirePortName(harness.ShieldPort))))
	}
	conductors.AddRow(Spacer())
	main.AddRow(Nested(conductors))

	if c.Notes != "" {
		main.AddRow(Text(c.Notes, A("cellpadding", 3), A("balign", "left")))
		main.AddRow(Spacer())
	}
	return main, slots, nil
}

// cableHeader holds the name, the part identification and the attribute
// list. Returns nil when there is nothing to show.
func cableHeader(c *harness.Cable) *Table {
	attrs := Attributes(c)
	if !c.ShowName && len(attrs) == 0 {
		return nil
	}
	span := max(len(attrs), 1)
	t := NewTable(A("border", 0), A("cellspacing", 0), A("cellpadding", 3), A("cellborder", 1))
	if c.ShowName {
		t.AddRow(Text(c.Name, A("colspan", span)))
	}

	var ident []string
	if pn, ok := c.PN.Value(); ok && pn != "" {
		ident = append(ident, "P/N: "+pn)
	}
	manufacturer, _ := c.Manufacturer.Value()
	mpn, _ := c.MPN.Value()
	if info := ManufacturerInfo(manufacturer, mpn); info != "" {
		ident = append(ident, info)
	}
	if len(ident) > 0 {
		row := NewTable(A("border", 0), A("cellspacing", 0), A("cellpadding", 3), A("cellborder", 1))
		cells := make([]*Cell, len(ident))
		for i, s := range ident {
			if i < len(ident)-1 {
				cells[i] = Text(s, A("sides", "R"))
			} else {
				cells[i] = Text(s, A("border", 0))
			}
		}
		row.AddRow(cells...)
		t.AddRow(Nested(row, A("colspan", span), A("cellpadding", 0)))
	}

	if len(attrs) > 0 {
		cells := make([]*Cell, len(attrs))
		for i, s := range attrs {
			cells[i] = Text(s, A("balign", "left"))
		}
		t.AddRow(cells...)
	}
	return t
}

// Attributes lists the descriptive attributes of a cable: type, wire count,
// gauge with optional equivalent, shield and length.
func Attributes(c *harness.Cable) []string {
	var out []string
	if c.Type != "" {
		out = append(out, c.Type)
	}
	if c.ShowWireCount {
		out = append(out, fmt.Sprintf("%dx", len(c.Colors)))
	}
	if c.Gauge != 0 {
		out = append(out, fmt.Sprintf("%s %s%s", colors.FormatGauge(c.Gauge), c.GaugeUnit, gaugeEquiv(c)))
	}
	if c.Shield {
		out = append(out, "+ S")
	}
	if c.Length > 0 {
		out = append(out, colors.FormatGauge(c.Length)+" m")
	}
	return out
}

// gaugeEquiv converts between mm² and AWG. Other units are passed through
// without an equivalent.
func gaugeEquiv(c *harness.Cable) string {
	if !c.ShowEquiv {
		return ""
	}
	switch {
	case c.GaugeUnit == harness.DefaultGaugeUnit:
		return fmt.Sprintf(" (%s AWG)", colors.AWGEquiv(c.Gauge))
	case strings.EqualFold(c.GaugeUnit, "AWG"):
		return fmt.Sprintf(" (%s mm²)", colors.MM2Equiv(c.Gauge))
	}
	return ""
}

// colorBar draws the insulation colors of one wire as stacked thin rows.
// The order is reversed to match the stitched wire overlays.
func colorBar(hex []string) *Table {
	t := NewTable(A("border", 0), A("cellspacing", 0), A("cellpadding", 0))
	for _, h := range slices.Backward(hex) {
		t.AddRow(Empty(A("height", 2), A("bgcolor", h), A("border", 0)))
	}
	return t
}

func wireIdentification(c *harness.Cable, i int) *Table {
	var cells []*Cell
	if c.PN.IsPerWire() {
		cells = append(cells, Text("P/N: "+c.PN.Resolve(i)))
	}
	var manufacturer, mpn string
	if c.Manufacturer.IsPerWire() {
		manufacturer = c.Manufacturer.Resolve(i)
	}
	if c.MPN.IsPerWire() {
		mpn = c.MPN.Resolve(i)
	}
	if info := ManufacturerInfo(manufacturer, mpn); info != "" {
		cells = append(cells, Text(info))
	}
	if len(cells) == 0 {
		return nil
	}
	return NewTable(A("border", 0), A("cellspacing", 0), A("cellborder", 0)).AddRow(cells...)
}
