// Package graph holds the node and edge descriptions exchanged with the
// layout engine, and writes them as Graphviz DOT.
package graph

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Point is a 2-D position in layout coordinates (points).
type Point struct {
	X, Y float64
}

// Lerp returns the point at fraction t along the line from p to q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Path is the ordered control points of a laid-out edge.
type Path []Point

// String formats the path as a Graphviz pos value, coordinates rounded to
// three decimals.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, pt := range p {
		parts[i] = formatCoord(pt.X) + "," + formatCoord(pt.Y)
	}
	return strings.Join(parts, " ")
}

func formatCoord(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Label is an HTML-like node label.
type Label interface {
	HTML() string
}

// RawHTML is a label that is already serialized, as read back from the
// layout engine.
type RawHTML string

// HTML returns the label text.
func (r RawHTML) HTML() string { return string(r) }

// Attributes are Graphviz attributes. Keys are written in sorted order.
type Attributes map[string]string

// Clone returns a copy of a.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Endpoint is one end of an edge: a node, and optionally a port and a
// compass point on it.
type Endpoint struct {
	Node    string
	Port    string
	Compass string
}

// String formats the endpoint as "node":port:compass.
func (e Endpoint) String() string {
	var sb strings.Builder
	sb.WriteString(quote(e.Node))
	if e.Port != "" {
		sb.WriteString(":" + quote(e.Port))
	}
	if e.Compass != "" {
		sb.WriteString(":" + e.Compass)
	}
	return sb.String()
}

// Node is a connector or cable node.
type Node struct {
	ID    string
	Label Label
	Attrs Attributes
}

// Edge is a connection between two endpoints. After layout, Path holds the
// geometry computed by the engine.
type Edge struct {
	From  Endpoint
	To    Endpoint
	Attrs Attributes
	Path  Path
}

// Graph is a complete graph description.
type Graph struct {
	Name         string
	Directed     bool
	Attrs        Attributes
	NodeDefaults Attributes
	EdgeDefaults Attributes
	Nodes        []*Node
	Edges        []*Edge
}

// New returns an empty undirected graph.
func New(name string) *Graph {
	return &Graph{
		Name:         name,
		Attrs:        Attributes{},
		NodeDefaults: Attributes{},
		EdgeDefaults: Attributes{},
	}
}

// AddNode appends a node. Node IDs must be unique.
func (g *Graph) AddNode(n *Node) error {
	if g.Node(n.ID) != nil {
		return fmt.Errorf("graph: duplicate node %q", n.ID)
	}
	if n.Attrs == nil {
		n.Attrs = Attributes{}
	}
	g.Nodes = append(g.Nodes, n)
	return nil
}

// AddEdge appends an edge and returns it.
func (g *Graph) AddEdge(from, to Endpoint, attrs Attributes) *Edge {
	if attrs == nil {
		attrs = Attributes{}
	}
	e := &Edge{From: from, To: to, Attrs: attrs}
	g.Edges = append(g.Edges, e)
	return e
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id string) *Node {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}
