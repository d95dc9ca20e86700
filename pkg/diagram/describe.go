// Package diagram turns a harness into a graph for the layout engine and
// assembles the final drawing from the laid-out result.
package diagram

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceHarness/pkg/graph"
	"github.com/OpenTraceLab/OpenTraceHarness/pkg/harness"
	"github.com/OpenTraceLab/OpenTraceHarness/pkg/markup"
)

const fontName = "arial"

// loopColor draws jumpers as a black-bordered white wire.
const loopColor = "#000000:#ffffff:#000000"

// Description is the graph submitted to the layout engine, with the ids of
// the edges that make up each wire, in routing order.
type Description struct {
	Graph *graph.Graph
	Tags  map[int][]string
}

// Ports computes on which sides of each connector wires attach. A connector
// gets right-hand ports when a cable leaves it, and left-hand ports when a
// cable arrives at it.
func Ports(h *harness.Harness) map[string]markup.Sides {
	sides := make(map[string]markup.Sides)
	for _, cable := range h.Cables() {
		for _, c := range cable.Connections {
			if c.HasFrom() {
				s := sides[c.FromName]
				s.Right = true
				sides[c.FromName] = s
			}
			if c.HasTo() {
				s := sides[c.ToName]
				s.Left = true
				sides[c.ToName] = s
			}
		}
	}
	return sides
}

// Describe builds the layout input for h. The harness is only read.
func Describe(h *harness.Harness) (*Description, error) {
	g := graph.New("")
	g.Attrs = graph.Attributes{
		"rankdir":  "LR",
		"ranksep":  "2",
		"bgcolor":  "white",
		"nodesep":  "0.33",
		"fontname": fontName,
	}
	g.NodeDefaults = graph.Attributes{
		"shape":     "record",
		"style":     "filled",
		"fillcolor": "white",
		"fontname":  fontName,
	}
	g.EdgeDefaults = graph.Attributes{
		"style":    "bold",
		"fontname": fontName,
	}

	d := &Description{Graph: g, Tags: make(map[int][]string)}
	sides := Ports(h)

	for _, conn := range h.Connectors() {
		err := g.AddNode(&graph.Node{
			ID:    conn.Name,
			Label: markup.Connector(conn, sides[conn.Name]),
			Attrs: graph.Attributes{"shape": "none", "margin": "0", "style": "filled", "fillcolor": "white"},
		})
		if err != nil {
			return nil, err
		}
		if err := addLoops(g, conn, sides[conn.Name]); err != nil {
			return nil, err
		}
	}

	wire := 0
	edgeID := 0
	nextID := func() string {
		id := fmt.Sprintf("e%d", edgeID)
		edgeID++
		return id
	}

	for _, cable := range h.Cables() {
		label, slots, err := markup.Cable(cable, h.ColorMode)
		if err != nil {
			return nil, err
		}
		style := "filled"
		if cable.IsBundle() {
			style = "filled,dashed"
		}
		err = g.AddNode(&graph.Node{
			ID:    cable.Name,
			Label: label,
			Attrs: graph.Attributes{"shape": "box", "margin": "0", "style": style, "fillcolor": "white"},
		})
		if err != nil {
			return nil, err
		}

		for _, c := range cable.Connections {
			color := cable.WireColor(c.ViaPort).String()
			wirePort := graph.Endpoint{Node: cable.Name, Port: markup.WirePortName(c.ViaPort)}
			segment := 0

			if c.HasFrom() {
				from := h.Connector(c.FromName)
				e := g.AddEdge(pinEndpoint(from, markup.RightPort(c.FromPin)), wirePort, nil)
				id := nextID()
				e.Attrs[graph.AttrID] = id
				e.SetTag(graph.WireTag{Wire: wire, Segment: segment, Color: color})
				d.Tags[wire] = append(d.Tags[wire], id)
				segment++
				if from.ShowName {
					slots[c.ViaPort].In.Set(c.FromName + ":" + c.FromPin)
				}
			}
			if c.HasTo() {
				to := h.Connector(c.ToName)
				e := g.AddEdge(wirePort, pinEndpoint(to, markup.LeftPort(c.ToPin)), nil)
				id := nextID()
				e.Attrs[graph.AttrID] = id
				e.SetTag(graph.WireTag{Wire: wire, Segment: segment, Color: color})
				d.Tags[wire] = append(d.Tags[wire], id)
				if to.ShowName {
					slots[c.ViaPort].Out.Set(c.ToName + ":" + c.ToPin)
				}
			}
			wire++
		}
	}
	return d, nil
}

// pinEndpoint addresses a pin anchor. Simple connectors have no pin table,
// so wires attach to the node itself.
func pinEndpoint(c *harness.Connector, port string) graph.Endpoint {
	if c.IsSimple() {
		return graph.Endpoint{Node: c.Name}
	}
	return graph.Endpoint{Node: c.Name, Port: port}
}

// addLoops draws jumpers between pins of the same connector on the side
// that already has port anchors, preferring the left.
func addLoops(g *graph.Graph, c *harness.Connector, sides markup.Sides) error {
	if len(c.Loops) == 0 {
		return nil
	}
	var port func(string) string
	var compass string
	switch {
	case sides.Left:
		port, compass = markup.LeftPort, "w"
	case sides.Right:
		port, compass = markup.RightPort, "e"
	default:
		return fmt.Errorf("%w: %s", harness.ErrNoPortSide, c.Name)
	}
	for _, loop := range c.Loops {
		g.AddEdge(
			graph.Endpoint{Node: c.Name, Port: port(loop[0]), Compass: compass},
			graph.Endpoint{Node: c.Name, Port: port(loop[1]), Compass: compass},
			graph.Attributes{"color": loopColor},
		)
	}
	return nil
}
