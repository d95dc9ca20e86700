// Package bom aggregates the parts of a harness into a bill of materials.
//
// Parts are grouped by GroupKey. The result is made of three blocks in a
// fixed order: connectors, then cables and bundle wires, then additional
// items. Each block is sorted by item name.
package bom

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/OpenTraceLab/OpenTraceHarness/pkg/colors"
	"github.com/OpenTraceLab/OpenTraceHarness/pkg/harness"
)

// UnitMeter is the unit of cable and wire quantities.
const UnitMeter = "m"

// Item is one line of the bill of materials.
type Item struct {
	Key          GroupKey
	Name         string
	Qty          float64
	Unit         string
	Designators  []string
	Manufacturer string
	MPN          string
	PN           string
}

// Build aggregates the parts of h. The harness is only read, and the result
// does not depend on the order in which parts were added.
func Build(h *harness.Harness) []Item {
	connectors := connectorItems(h.Connectors())
	cables := append(cableItems(h.Cables()), wireItems(h.Cables())...)
	extras := extraItems(h.AdditionalItems())

	sortByName(connectors)
	sortByName(cables)
	sortByName(extras)

	out := make([]Item, 0, len(connectors)+len(cables)+len(extras))
	out = append(out, connectors...)
	out = append(out, cables...)
	return append(out, extras...)
}

func sortByName(items []Item) {
	slices.SortStableFunc(items, func(a, b Item) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return a.Key.Compare(b.Key)
	})
}

// roundQty rounds a length sum to millimeters.
func roundQty(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// group collects values under their key and remembers the keys in sorted
// order.
type group[T any] struct {
	members map[GroupKey][]T
}

func newGroup[T any]() *group[T] {
	return &group[T]{members: make(map[GroupKey][]T)}
}

func (g *group[T]) add(k GroupKey, v T) {
	g.members[k] = append(g.members[k], v)
}

func (g *group[T]) keys() []GroupKey {
	keys := make([]GroupKey, 0, len(g.members))
	for k := range g.members {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, GroupKey.Compare)
	return keys
}

// ConnectorKey returns the grouping key of a connector.
func ConnectorKey(c *harness.Connector) GroupKey {
	return GroupKey{
		Kind:         KindConnector,
		Type:         c.Type,
		Subtype:      c.Subtype,
		PinCount:     c.PinCount,
		Manufacturer: c.Manufacturer,
		MPN:          c.MPN,
		PN:           c.PN,
	}
}

func connectorItems(conns []*harness.Connector) []Item {
	g := newGroup[*harness.Connector]()
	for _, c := range conns {
		g.add(ConnectorKey(c), c)
	}

	var items []Item
	for _, key := range g.keys() {
		members := g.members[key]
		slices.SortFunc(members, func(a, b *harness.Connector) int {
			return strings.Compare(a.Name, b.Name)
		})
		shared := members[0]
		item := Item{
			Key:          key,
			Name:         connectorName(shared),
			Qty:          float64(len(members)),
			Manufacturer: shared.Manufacturer,
			MPN:          shared.MPN,
			PN:           shared.PN,
		}
		if shared.ShowName {
			for _, c := range members {
				item.Designators = append(item.Designators, c.Name)
			}
		}
		items = append(items, item)
	}
	return items
}

func connectorName(c *harness.Connector) string {
	parts := []string{"Connector"}
	if c.Type != "" {
		parts = append(parts, oneLine(c.Type))
	}
	if c.Subtype != "" {
		parts = append(parts, oneLine(c.Subtype))
	}
	if !c.IsSimple() {
		parts = append(parts, fmt.Sprintf("%d pins", c.PinCount))
	}
	if c.Color != "" {
		parts = append(parts, c.Color)
	}
	return strings.Join(parts, ", ")
}

// CableKey returns the grouping key of a cable that is not a bundle.
func CableKey(c *harness.Cable) GroupKey {
	manufacturer, _ := c.Manufacturer.Value()
	mpn, _ := c.MPN.Value()
	pn, _ := c.PN.Value()
	return GroupKey{
		Kind:         KindCable,
		Category:     c.Category,
		Type:         c.Type,
		Gauge:        c.Gauge,
		GaugeUnit:    c.GaugeUnit,
		WireCount:    c.WireCount,
		Shield:       c.Shield,
		Manufacturer: manufacturer,
		MPN:          mpn,
		PN:           pn,
	}
}

func cableItems(cables []*harness.Cable) []Item {
	g := newGroup[*harness.Cable]()
	for _, c := range cables {
		if c.IsBundle() {
			continue
		}
		g.add(CableKey(c), c)
	}

	var items []Item
	for _, key := range g.keys() {
		members := g.members[key]
		var length float64
		designators := make([]string, 0, len(members))
		for _, c := range members {
			length += c.Length
			designators = append(designators, c.Name)
		}
		slices.Sort(designators)
		items = append(items, Item{
			Key:          key,
			Name:         cableName(key),
			Qty:          roundQty(length),
			Unit:         UnitMeter,
			Designators:  designators,
			Manufacturer: key.Manufacturer,
			MPN:          key.MPN,
			PN:           key.PN,
		})
	}
	return items
}

func cableName(k GroupKey) string {
	var sb strings.Builder
	sb.WriteString("Cable")
	if k.Type != "" {
		sb.WriteString(", " + oneLine(k.Type))
	}
	fmt.Fprintf(&sb, ", %d", k.WireCount)
	if k.Gauge != 0 {
		fmt.Fprintf(&sb, " x %s %s", colors.FormatGauge(k.Gauge), k.GaugeUnit)
	} else {
		sb.WriteString(" wires")
	}
	if k.Shield {
		sb.WriteString(" shielded")
	}
	return sb.String()
}

// wire is one conductor of a bundle.
type wire struct {
	bundle string
	length float64
}

// WireKey returns the grouping key of wire i (0-based) of a bundle. Part
// data given per wire is resolved to that wire.
func WireKey(c *harness.Cable, i int) GroupKey {
	return GroupKey{
		Kind:         KindWire,
		Type:         c.Type,
		Gauge:        c.Gauge,
		GaugeUnit:    c.GaugeUnit,
		Color:        c.Colors[i].String(),
		Manufacturer: c.Manufacturer.Resolve(i),
		MPN:          c.MPN.Resolve(i),
		PN:           c.PN.Resolve(i),
	}
}

func wireItems(cables []*harness.Cable) []Item {
	g := newGroup[wire]()
	for _, c := range cables {
		if !c.IsBundle() {
			continue
		}
		for i := range c.Colors {
			g.add(WireKey(c, i), wire{bundle: c.Name, length: c.Length})
		}
	}

	var items []Item
	for _, key := range g.keys() {
		var length float64
		var designators []string
		for _, w := range g.members[key] {
			length += w.length
			designators = append(designators, w.bundle)
		}
		slices.Sort(designators)
		items = append(items, Item{
			Key:          key,
			Name:         wireName(key),
			Qty:          roundQty(length),
			Unit:         UnitMeter,
			Designators:  slices.Compact(designators),
			Manufacturer: key.Manufacturer,
			MPN:          key.MPN,
			PN:           key.PN,
		})
	}
	return items
}

func wireName(k GroupKey) string {
	parts := []string{"Wire"}
	if k.Type != "" {
		parts = append(parts, oneLine(k.Type))
	}
	if k.Gauge != 0 {
		parts = append(parts, colors.FormatGauge(k.Gauge)+" "+k.GaugeUnit)
	}
	if k.Color != "" {
		parts = append(parts, k.Color)
	}
	return strings.Join(parts, ", ")
}

func extraItems(extras []harness.AdditionalItem) []Item {
	items := make([]Item, 0, len(extras))
	for _, e := range extras {
		designators := slices.Clone(e.Designators)
		slices.Sort(designators)
		items = append(items, Item{
			Key: GroupKey{
				Kind:         KindExtra,
				Type:         e.Description,
				Manufacturer: e.Manufacturer,
				MPN:          e.MPN,
				PN:           e.PN,
			},
			Name:         e.Description,
			Qty:          e.Qty,
			Unit:         e.Unit,
			Designators:  designators,
			Manufacturer: e.Manufacturer,
			MPN:          e.MPN,
			PN:           e.PN,
		})
	}
	return items
}

// oneLine replaces line breaks in multi-line type names by spaces.
func oneLine(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\n", " ")), " ")
}
