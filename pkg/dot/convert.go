package dot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceHarness/pkg/graph"
)

// Convert turns a parsed document into a graph. Subgraphs are flattened,
// edge chains are split into single edges, and each edge's pos attribute is
// moved into its Path.
func Convert(f *File) (*graph.Graph, error) {
	if f == nil || f.Graph == nil {
		return nil, fmt.Errorf("dot: empty document")
	}
	g := graph.New(f.Graph.ID.Text())
	g.Directed = f.Graph.Kind == "digraph"

	c := &converter{g: g}
	if err := c.stmts(f.Graph.Stmts); err != nil {
		return nil, err
	}
	return g, nil
}

type converter struct {
	g *graph.Graph
}

func (c *converter) stmts(stmts []*Stmt) error {
	for _, s := range stmts {
		var err error
		switch {
		case s.Attr != nil:
			c.attrStmt(s.Attr)
		case s.Assign != nil:
			c.g.Attrs[s.Assign.Key.Text()] = s.Assign.Value.Text()
		case s.Subgraph != nil:
			err = c.stmts(s.Subgraph.Stmts)
		case s.Chain != nil:
			err = c.chain(s.Chain)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *converter) attrStmt(s *AttrStmt) {
	var dst graph.Attributes
	switch s.Kind {
	case "graph":
		dst = c.g.Attrs
	case "node":
		dst = c.g.NodeDefaults
	case "edge":
		dst = c.g.EdgeDefaults
	}
	for _, l := range s.Lists {
		for _, a := range l.Attrs {
			dst[a.Key.Text()] = a.Value.Text()
		}
	}
}

func (c *converter) chain(s *NodeOrEdge) error {
	if len(s.Tail) == 0 {
		n := c.node(s.Head.ID.Text())
		for _, l := range s.Lists {
			for _, a := range l.Attrs {
				key := a.Key.Text()
				if key == "label" && a.Value.IsHTML() {
					n.Label = graph.RawHTML(a.Value.Text())
					continue
				}
				n.Attrs[key] = a.Value.Text()
			}
		}
		return nil
	}

	attrs := graph.Attributes{}
	for _, l := range s.Lists {
		for _, a := range l.Attrs {
			attrs[a.Key.Text()] = a.Value.Text()
		}
	}
	var path graph.Path
	if pos, ok := attrs["pos"]; ok {
		p, err := ParsePos(pos)
		if err != nil {
			return err
		}
		path = p
		delete(attrs, "pos")
	}

	from := c.endpoint(s.Head)
	for _, hop := range s.Tail {
		to := c.endpoint(hop.Node)
		e := c.g.AddEdge(from, to, attrs.Clone())
		e.Path = append(graph.Path(nil), path...)
		from = to
	}
	return nil
}

func (c *converter) endpoint(id *NodeID) graph.Endpoint {
	ep := graph.Endpoint{Node: id.ID.Text(), Port: id.Port.Text(), Compass: id.Compass.Text()}
	c.node(ep.Node)
	return ep
}

// node returns the named node, declaring it on first use.
func (c *converter) node(id string) *graph.Node {
	if n := c.g.Node(id); n != nil {
		return n
	}
	n := &graph.Node{ID: id, Attrs: graph.Attributes{}}
	_ = c.g.AddNode(n)
	return n
}

// ParsePos parses an edge pos attribute: space separated "x,y" points,
// optionally preceded by "s,x,y" and "e,x,y" arrow end points, which are
// skipped.
func ParsePos(pos string) (graph.Path, error) {
	var path graph.Path
	for _, field := range strings.Fields(pos) {
		if strings.HasPrefix(field, "e,") || strings.HasPrefix(field, "s,") {
			continue
		}
		xs, ys, ok := strings.Cut(field, ",")
		if !ok {
			return nil, fmt.Errorf("dot: malformed point %q in pos", field)
		}
		// 3-D layouts append a z coordinate
		ys, _, _ = strings.Cut(ys, ",")
		x, err := strconv.ParseFloat(xs, 64)
		if err != nil {
			return nil, fmt.Errorf("dot: malformed point %q in pos: %w", field, err)
		}
		y, err := strconv.ParseFloat(ys, 64)
		if err != nil {
			return nil, fmt.Errorf("dot: malformed point %q in pos: %w", field, err)
		}
		path = append(path, graph.Point{X: x, Y: y})
	}
	if len(path) == 0 {
		return nil, fmt.Errorf("dot: empty pos")
	}
	return path, nil
}
