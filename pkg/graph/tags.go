package graph

import (
	"fmt"
	"strconv"
)

// Edge attributes that carry wire tags through the layout engine. Graphviz
// keeps unknown attributes in its DOT output.
const (
	AttrWire    = "wv_wire"
	AttrSegment = "wv_wire_spline"
	AttrColor   = "wv_color"
	AttrID      = "id"
)

// WireTag identifies the logical wire an edge belongs to and its position
// along that wire.
type WireTag struct {
	Wire    int
	Segment int
	Color   string
}

// SetTag stores t in the edge attributes.
func (e *Edge) SetTag(t WireTag) {
	e.Attrs[AttrWire] = strconv.Itoa(t.Wire)
	e.Attrs[AttrSegment] = strconv.Itoa(t.Segment)
	if t.Color != "" {
		e.Attrs[AttrColor] = t.Color
	}
}

// Tag reads the wire tag of the edge. ok is false for untagged edges such
// as loop jumpers.
func (e *Edge) Tag() (t WireTag, ok bool, err error) {
	wire, tagged := e.Attrs[AttrWire]
	if !tagged {
		return t, false, nil
	}
	if t.Wire, err = strconv.Atoi(wire); err != nil {
		return t, false, fmt.Errorf("graph: bad %s %q: %w", AttrWire, wire, err)
	}
	seg := e.Attrs[AttrSegment]
	if t.Segment, err = strconv.Atoi(seg); err != nil {
		return t, false, fmt.Errorf("graph: bad %s %q: %w", AttrSegment, seg, err)
	}
	t.Color = e.Attrs[AttrColor]
	return t, true, nil
}

// ID returns the edge id attribute.
func (e *Edge) ID() string {
	return e.Attrs[AttrID]
}
