// Package loader reads harness descriptions written in YAML.
//
// A document lists connectors, cables, connection sets and additional BOM
// items:
//
//	connectors:
//	  X1: {pincount: 4, pinlabels: [GND, VCC, RX, TX]}
//	  F:  {style: simple, type: Ferrule, autogenerate: true}
//	cables:
//	  W1: {wirecount: 4, color_code: DIN, gauge: 0.25 mm2, length: 0.2}
//	connections:
//	  - - X1: [1-4]
//	    - W1: [1-4]
//	    - F
//
// A connector marked autogenerate is a template: every bare reference to it
// creates one fresh instance per wire, named <template>_<n>.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceHarness/pkg/colors"
	"github.com/OpenTraceLab/OpenTraceHarness/pkg/harness"
)

// ErrInvalidDocument is returned for documents that are well-formed YAML
// but do not describe a harness.
var ErrInvalidDocument = errors.New("loader: invalid document")

// ParseFile loads the harness described by the YAML file at path.
func ParseFile(path string) (*harness.Harness, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse loads the harness described by the YAML in r.
func Parse(r io.Reader) (*harness.Harness, error) {
	doc, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return Load(doc)
}

// Decode reads a document without building the harness. Unknown keys are
// rejected.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("loader: %w", err)
	}
	return &doc, nil
}

// Load builds a harness from a decoded document.
func Load(doc *Document) (*harness.Harness, error) {
	h := harness.New()
	if doc.Options.ColorMode != "" {
		mode := colors.Mode(doc.Options.ColorMode)
		if !colors.ValidMode(mode) {
			return nil, fmt.Errorf("%w: unknown color mode %q", ErrInvalidDocument, mode)
		}
		h.ColorMode = mode
	}

	l := &linker{
		h:         h,
		templates: make(map[string]harness.ConnectorOptions),
		counters:  make(map[string]int),
	}

	for _, e := range doc.Connectors {
		opts, err := e.Value.options(e.Name)
		if err != nil {
			return nil, err
		}
		if opts.Autogenerate {
			if _, err := harness.NewConnector(e.Name, opts); err != nil {
				return nil, err
			}
			l.templates[e.Name] = opts
			continue
		}
		if _, err := h.AddConnector(e.Name, opts); err != nil {
			return nil, err
		}
	}

	for _, e := range doc.Cables {
		if _, ok := l.templates[e.Name]; ok {
			return nil, fmt.Errorf("%w: %s", harness.ErrDuplicateName, e.Name)
		}
		opts, err := e.Value.options(e.Name)
		if err != nil {
			return nil, err
		}
		if _, err := h.AddCable(e.Name, opts); err != nil {
			return nil, err
		}
	}

	for i, set := range doc.Connections {
		if err := l.connect(set); err != nil {
			return nil, fmt.Errorf("connection set %d: %w", i+1, err)
		}
	}

	for _, item := range doc.Extras {
		qty := 1.0
		if item.Qty != nil {
			qty = *item.Qty
		}
		h.AddBOMItem(harness.AdditionalItem{
			Description:  item.Description,
			Qty:          qty,
			Unit:         item.Unit,
			Designators:  item.Designators,
			Manufacturer: item.Manufacturer,
			MPN:          item.MPN,
			PN:           item.PN,
		})
	}
	return h, nil
}

func (d ConnectorDoc) options(name string) (harness.ConnectorOptions, error) {
	opts := harness.ConnectorOptions{
		Manufacturer:         d.Manufacturer,
		MPN:                  d.MPN,
		PN:                   d.PN,
		Style:                d.Style,
		Category:             d.Category,
		Type:                 d.Type,
		Subtype:              d.Subtype,
		PinCount:             d.PinCount,
		Notes:                d.Notes,
		PinLabels:            d.PinLabels,
		Color:                d.Color,
		ShowName:             d.ShowName,
		ShowPinCount:         d.ShowPinCount,
		HideDisconnectedPins: d.HideDisconnectedPins,
		Autogenerate:         d.Autogenerate,
	}
	for _, p := range d.Pins {
		opts.Pins = append(opts.Pins, ExpandRange(p)...)
	}
	for _, loop := range d.Loops {
		if len(loop) != 2 {
			return opts, fmt.Errorf("%w: %s: loops must be between exactly two pins", ErrInvalidDocument, name)
		}
		opts.Loops = append(opts.Loops, [2]string{loop[0], loop[1]})
	}
	return opts, nil
}

func (d CableDoc) options(name string) (harness.CableOptions, error) {
	opts := harness.CableOptions{
		Manufacturer:  d.Manufacturer.PerWire,
		MPN:           d.MPN.PerWire,
		PN:            d.PN.PerWire,
		Category:      d.Category,
		Type:          d.Type,
		Gauge:         d.Gauge.Value,
		GaugeUnit:     d.Gauge.Unit,
		ShowEquiv:     d.ShowEquiv,
		Length:        d.Length,
		WireCount:     d.WireCount,
		Shield:        d.Shield,
		Notes:         d.Notes,
		ColorCode:     d.ColorCode,
		ShowName:      d.ShowName,
		ShowWireCount: d.ShowWireCount,
	}
	for _, c := range d.Colors {
		spec, err := colors.ParseSpec(c)
		if err != nil {
			return opts, fmt.Errorf("%w: %s: %w", ErrInvalidDocument, name, err)
		}
		opts.Colors = append(opts.Colors, spec)
	}
	return opts, nil
}

// ExpandRange expands "1-4" to 1, 2, 3, 4 and "4-1" to 4, 3, 2, 1. Any
// other token is returned as is.
func ExpandRange(tok string) []string {
	lo, hi, ok := strings.Cut(tok, "-")
	if !ok {
		return []string{tok}
	}
	a, errA := strconv.Atoi(strings.TrimSpace(lo))
	b, errB := strconv.Atoi(strings.TrimSpace(hi))
	if errA != nil || errB != nil || a < 0 || b < 0 {
		return []string{tok}
	}
	step := 1
	if b < a {
		step = -1
	}
	out := make([]string, 0, (b-a)*step+1)
	for i := a; ; i += step {
		out = append(out, strconv.Itoa(i))
		if i == b {
			break
		}
	}
	return out
}

func expandAll(tokens []string) []string {
	var out []string
	for _, t := range tokens {
		out = append(out, ExpandRange(t)...)
	}
	return out
}

// linker turns connection sets into harness connections.
type linker struct {
	h         *harness.Harness
	templates map[string]harness.ConnectorOptions
	counters  map[string]int
}

func (l *linker) connect(set ConnectionSet) error {
	if len(set) < 2 || len(set) > 3 {
		return fmt.Errorf("%w: a connection set has two or three components, got %d", ErrInvalidDocument, len(set))
	}

	var from, to *Endpoint
	var via Endpoint
	if l.h.Cable(set[0].Name) != nil {
		if len(set) != 2 {
			return fmt.Errorf("%w: a set starting with cable %s has two components", ErrInvalidDocument, set[0].Name)
		}
		via, to = set[0], &set[1]
	} else {
		from, via = &set[0], set[1]
		if len(set) == 3 {
			to = &set[2]
		}
	}

	cable := l.h.Cable(via.Name)
	if cable == nil {
		return fmt.Errorf("%w: cable %s", harness.ErrUnknownComponent, via.Name)
	}
	ports, err := Ports(cable, via.Pins)
	if err != nil {
		return err
	}

	fromNames, fromPins, err := l.resolve(from, len(ports))
	if err != nil {
		return err
	}
	toNames, toPins, err := l.resolve(to, len(ports))
	if err != nil {
		return err
	}
	for i, port := range ports {
		if err := l.h.Connect(fromNames[i], fromPins[i], via.Name, port, toNames[i], toPins[i]); err != nil {
			return err
		}
	}
	return nil
}

// resolve returns the connector name and pin for each of n wires.
func (l *linker) resolve(ep *Endpoint, n int) (names, pins []string, err error) {
	names = make([]string, n)
	pins = make([]string, n)
	if ep == nil {
		return names, pins, nil
	}

	if tmpl, ok := l.templates[ep.Name]; ok {
		var selected []string
		if ep.Pins != nil {
			selected = expandAll(ep.Pins)
			if len(selected) != n {
				return nil, nil, mismatch(ep.Name, len(selected), n)
			}
		}
		for i := range n {
			l.counters[ep.Name]++
			name := fmt.Sprintf("%s_%d", ep.Name, l.counters[ep.Name])
			c, err := l.h.AddConnector(name, tmpl)
			if err != nil {
				return nil, nil, err
			}
			names[i] = name
			if selected != nil {
				pins[i] = selected[i]
			} else {
				pins[i] = c.Pins[0]
			}
		}
		return names, pins, nil
	}

	c := l.h.Connector(ep.Name)
	if c == nil {
		return nil, nil, fmt.Errorf("%w: connector %s", harness.ErrUnknownComponent, ep.Name)
	}
	selected := expandAll(ep.Pins)
	if ep.Pins == nil {
		if len(c.Pins) != 1 {
			return nil, nil, fmt.Errorf("%w: %s has %d pins, list the pins to connect", ErrInvalidDocument, ep.Name, len(c.Pins))
		}
		selected = make([]string, n)
		for i := range selected {
			selected[i] = c.Pins[0]
		}
	}
	if len(selected) != n {
		return nil, nil, mismatch(ep.Name, len(selected), n)
	}
	for i := range names {
		names[i] = ep.Name
	}
	return names, selected, nil
}

func mismatch(name string, pins, wires int) error {
	return fmt.Errorf("%w: %s lists %d pins for %d wires", ErrInvalidDocument, name, pins, wires)
}

// Ports parses a wire selection of cable c. Wires are 1-based numbers or
// ranges; "s" selects the shield. An empty selection means every wire.
func Ports(c *harness.Cable, tokens []string) ([]harness.Port, error) {
	if tokens == nil {
		ports := make([]harness.Port, c.WireCount)
		for i := range ports {
			ports[i] = harness.WirePort(i + 1)
		}
		return ports, nil
	}
	var ports []harness.Port
	for _, tok := range expandAll(tokens) {
		if strings.EqualFold(tok, "s") {
			ports = append(ports, harness.ShieldPort)
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: %s:%s", harness.ErrInvalidWirePort, c.Name, tok)
		}
		ports = append(ports, harness.WirePort(n))
	}
	return ports, nil
}
