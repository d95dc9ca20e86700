// Package stitch merges the laid-out segments of each wire into one
// continuous stroke and draws the insulation colors along it.
//
// The layout engine only knows single hops (connector to cable, cable to
// connector). Every hop carries a wire tag; stitching groups hops by wire,
// orders them by segment and joins their control points.
package stitch

import (
	"errors"
	"fmt"
	"sort"

	"github.com/OpenTraceLab/OpenTraceHarness/pkg/colors"
	"github.com/OpenTraceLab/OpenTraceHarness/pkg/graph"
)

// ErrMissingGeometry is returned for a tagged edge without a path.
var ErrMissingGeometry = errors.New("stitch: edge has no path")

// Stroke widths in points.
const (
	BasePenWidth = "4.0"
	BandPenWidth = "3.0"
	BaseColor    = "#000000"
)

// Wire is one logical wire after stitching.
type Wire struct {
	Index int
	From  graph.Endpoint
	To    graph.Endpoint
	Path  graph.Path
	Color colors.Spec
}

// Bands returns the overlay colors of the wire: one or two.
func (w Wire) Bands() []string {
	return colors.Bands(w.Color)
}

// Combine joins paths end to start. Between the last point of one path and
// the first point of the next, two points are inserted at 1/3 and 2/3 of
// the straight line between them, which keeps the B-spline smooth across
// the join. A single path is returned unchanged.
func Combine(paths ...graph.Path) graph.Path {
	if len(paths) == 0 {
		return nil
	}
	n := len(paths[0])
	for _, p := range paths[1:] {
		n += 2 + len(p)
	}
	out := make(graph.Path, 0, n)
	out = append(out, paths[0]...)
	for _, p := range paths[1:] {
		if len(out) > 0 && len(p) > 0 {
			l, r := out[len(out)-1], p[0]
			out = append(out, l.Lerp(r, 1.0/3), l.Lerp(r, 2.0/3))
		}
		out = append(out, p...)
	}
	return out
}

// Group collects the tagged edges of a laid-out graph into wires, ordered
// by wire index. Untagged edges, such as loop jumpers, are returned as they
// are.
func Group(edges []*graph.Edge) ([]Wire, []*graph.Edge, error) {
	type segment struct {
		tag  graph.WireTag
		edge *graph.Edge
	}
	groups := make(map[int][]segment)
	var untagged []*graph.Edge

	for _, e := range edges {
		tag, ok, err := e.Tag()
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			untagged = append(untagged, e)
			continue
		}
		if len(e.Path) == 0 {
			return nil, nil, fmt.Errorf("%w: wire %d segment %d (%s -- %s)",
				ErrMissingGeometry, tag.Wire, tag.Segment, e.From, e.To)
		}
		groups[tag.Wire] = append(groups[tag.Wire], segment{tag: tag, edge: e})
	}

	indices := make([]int, 0, len(groups))
	for i := range groups {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	wires := make([]Wire, 0, len(indices))
	for _, idx := range indices {
		segs := groups[idx]
		sort.SliceStable(segs, func(i, j int) bool {
			return segs[i].tag.Segment < segs[j].tag.Segment
		})

		paths := make([]graph.Path, len(segs))
		for i, s := range segs {
			paths[i] = s.edge.Path
		}
		spec, err := colors.ParseSpec(segs[0].tag.Color)
		if err != nil {
			return nil, nil, fmt.Errorf("stitch: wire %d: %w", idx, err)
		}
		wires = append(wires, Wire{
			Index: idx,
			From:  segs[0].edge.From,
			To:    segs[len(segs)-1].edge.To,
			Path:  Combine(paths...),
			Color: spec,
		})
	}
	return wires, untagged, nil
}

// Strokes returns the edges that draw one wire: a neutral base stroke
// followed by one overlay per color band. The second band is dashed.
func Strokes(w Wire) []*graph.Edge {
	base := &graph.Edge{
		From:  w.From,
		To:    w.To,
		Path:  w.Path,
		Attrs: graph.Attributes{"penwidth": BasePenWidth, "color": BaseColor},
	}
	out := []*graph.Edge{base}
	for i, hex := range w.Bands() {
		attrs := graph.Attributes{"penwidth": BandPenWidth, "color": hex}
		if i == 1 {
			attrs["style"] = "dashed"
		}
		out = append(out, &graph.Edge{From: w.From, To: w.To, Path: w.Path, Attrs: attrs})
	}
	return out
}

// Stitch replaces the tagged edges by their stitched strokes. Untagged
// edges are kept and come first.
func Stitch(edges []*graph.Edge) ([]*graph.Edge, error) {
	wires, out, err := Group(edges)
	if err != nil {
		return nil, err
	}
	for _, w := range wires {
		out = append(out, Strokes(w)...)
	}
	return out, nil
}
