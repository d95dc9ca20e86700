package harness

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// PinRef identifies one end point in the harness: a connector pin or a
// cable conductor ("W1", "3" / "W1", "s").
type PinRef struct {
	Component string `json:"component"`
	Pin       string `json:"pin"`
}

// Net represents a connected set of pins that share the same electrical net.
type Net struct {
	ID   int      `json:"id"`
	Pins []PinRef `json:"pins"`
}

// Netlist tracks electrical continuity through the harness using a
// union-find structure.
type Netlist struct {
	parent map[string]string
	rank   map[string]int

	// Final nets after calling Finalize()
	Nets []*Net

	allPins []PinRef
	pinKeys map[string]PinRef
}

// NewNetlist creates a netlist in which every pin is its own net.
func NewNetlist(pins []PinRef) *Netlist {
	nl := &Netlist{
		parent:  make(map[string]string),
		rank:    make(map[string]int),
		allPins: make([]PinRef, 0, len(pins)),
		pinKeys: make(map[string]PinRef),
	}
	for _, pin := range pins {
		nl.add(pin)
	}
	return nl
}

func (nl *Netlist) add(pin PinRef) {
	key := pinKey(pin)
	if _, ok := nl.parent[key]; ok {
		return
	}
	nl.parent[key] = key
	nl.rank[key] = 0
	nl.pinKeys[key] = pin
	nl.allPins = append(nl.allPins, pin)
}

// Connect merges the nets of two pins.
func (nl *Netlist) Connect(a, b PinRef) {
	nl.add(a)
	nl.add(b)
	keyA := pinKey(nl.Find(a))
	keyB := pinKey(nl.Find(b))
	if keyA == keyB {
		return
	}

	// Union by rank
	if nl.rank[keyA] < nl.rank[keyB] {
		nl.parent[keyA] = keyB
	} else if nl.rank[keyA] > nl.rank[keyB] {
		nl.parent[keyB] = keyA
	} else {
		nl.parent[keyB] = keyA
		nl.rank[keyA]++
	}
}

// Find returns the representative pin of the net containing pin.
func (nl *Netlist) Find(pin PinRef) PinRef {
	key := pinKey(pin)
	if _, ok := nl.parent[key]; !ok {
		return pin
	}

	root := key
	for nl.parent[root] != root {
		root = nl.parent[root]
	}

	// path compression
	current := key
	for current != root {
		next := nl.parent[current]
		nl.parent[current] = root
		current = next
	}

	return nl.pinKeys[root]
}

// Finalize groups pins into nets. Single-pin nets are dropped. Nets are
// numbered by their first pin in sorted order so output is stable.
func (nl *Netlist) Finalize() {
	netMap := make(map[string][]PinRef)
	for _, pin := range nl.allPins {
		rootKey := pinKey(nl.Find(pin))
		netMap[rootKey] = append(netMap[rootKey], pin)
	}

	groups := make([][]PinRef, 0, len(netMap))
	for _, pins := range netMap {
		if len(pins) < 2 {
			continue
		}
		sort.Slice(pins, func(i, j int) bool {
			return lessPin(pins[i], pins[j])
		})
		groups = append(groups, pins)
	}
	sort.Slice(groups, func(i, j int) bool {
		return lessPin(groups[i][0], groups[j][0])
	})

	nl.Nets = make([]*Net, len(groups))
	for i, pins := range groups {
		nl.Nets[i] = &Net{ID: i + 1, Pins: pins}
	}
}

// NetCount returns the number of nets. Only valid after Finalize.
func (nl *Netlist) NetCount() int {
	return len(nl.Nets)
}

// BuildNetlist derives the connectivity of a harness. Each wire joins its
// two connector pins, and connector loops join their pin pairs.
func BuildNetlist(h *Harness) *Netlist {
	nl := NewNetlist(nil)
	for _, conn := range h.Connectors() {
		for _, p := range conn.ActivePins() {
			nl.add(PinRef{Component: conn.Name, Pin: p})
		}
		for _, loop := range conn.Loops {
			nl.Connect(PinRef{Component: conn.Name, Pin: loop[0]}, PinRef{Component: conn.Name, Pin: loop[1]})
		}
	}
	for _, cable := range h.Cables() {
		for _, c := range cable.Connections {
			wire := PinRef{Component: cable.Name, Pin: c.ViaPort.String()}
			nl.add(wire)
			if c.HasFrom() {
				nl.Connect(PinRef{Component: c.FromName, Pin: c.FromPin}, wire)
			}
			if c.HasTo() {
				nl.Connect(wire, PinRef{Component: c.ToName, Pin: c.ToPin})
			}
		}
	}
	nl.Finalize()
	return nl
}

// ExportJSON exports the netlist to JSON format.
func (nl *Netlist) ExportJSON() ([]byte, error) {
	if nl.Nets == nil {
		return nil, fmt.Errorf("harness: netlist not finalized")
	}

	output := struct {
		Version     string `json:"version"`
		NetCount    int    `json:"net_count"`
		Nets        []*Net `json:"nets"`
		GeneratedBy string `json:"generated_by"`
	}{
		Version:     "1.0",
		NetCount:    nl.NetCount(),
		Nets:        nl.Nets,
		GeneratedBy: "harness connectivity",
	}

	return json.MarshalIndent(output, "", "  ")
}

// ExportKiCad exports the netlist in KiCad netlist format. Components are
// the connectors and cables that appear in at least one net.
func (nl *Netlist) ExportKiCad() (string, error) {
	if nl.Nets == nil {
		return "", fmt.Errorf("harness: netlist not finalized")
	}

	var sb strings.Builder
	sb.WriteString("(export (version D)\n")
	sb.WriteString("  (design\n")
	sb.WriteString("    (source \"Wiring harness\")\n")
	sb.WriteString("  )\n")
	sb.WriteString("  (components\n")

	seen := make(map[string]bool)
	var comps []string
	for _, net := range nl.Nets {
		for _, pin := range net.Pins {
			if !seen[pin.Component] {
				seen[pin.Component] = true
				comps = append(comps, pin.Component)
			}
		}
	}
	sort.Strings(comps)
	for _, ref := range comps {
		fmt.Fprintf(&sb, "    (comp (ref %s))\n", quoteSexp(ref))
	}
	sb.WriteString("  )\n")

	sb.WriteString("  (nets\n")
	for _, net := range nl.Nets {
		fmt.Fprintf(&sb, "    (net (code %d) (name Net-%d)\n", net.ID, net.ID)
		for _, pin := range net.Pins {
			fmt.Fprintf(&sb, "      (node (ref %s) (pin %s))\n", quoteSexp(pin.Component), quoteSexp(pin.Pin))
		}
		sb.WriteString("    )\n")
	}
	sb.WriteString("  )\n")
	sb.WriteString(")\n")

	return sb.String(), nil
}

func quoteSexp(s string) string {
	if s != "" && !strings.ContainsAny(s, " ()\"\t\n") {
		return s
	}
	return fmt.Sprintf("%q", s)
}

func pinKey(pin PinRef) string {
	return pin.Component + ":" + pin.Pin
}

func lessPin(a, b PinRef) bool {
	if a.Component != b.Component {
		return a.Component < b.Component
	}
	return a.Pin < b.Pin
}
