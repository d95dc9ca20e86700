package dot

import (
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceHarness/pkg/graph"
)

// laidOut is trimmed output of "dot -Tdot" for a two-connector harness.
const laidOut = `graph {
	graph [bb="0,0,462.5,132",
		nodesep=0.33,
		rankdir=LR,
		ranksep=2
	];
	node [label="\N"];
	/* connectors */
	X1	[fillcolor=white,
		height=1.2,
		label=<<table border="0" cellspacing="0" cellpadding="0"><tr><td><table border="0"><tr><td port="p1r">1</td></tr></table></td></tr></table>>,
		margin=0,
		pos="27,66",
		shape=none,
		style=filled,
		width=0.75];
	W1	[label=<<table border="0"><tr><td>BK &amp; RD</td></tr><tr><td port="w1"></td></tr></table>>,
		pos="231,66"];
	X1:p1r -- W1:w1	[pos="54,70 98.5,70 143.5,62.5 188,62.5",
		wv_color=GNYE,
		wv_wire=0,
		wv_wire_spline=0];
	W1:w1 -- X2:p1l	[pos="274,62.5 318.5,62.5 363.5,70 408,70 420,71 432,72.2 444,73 456,74 \
468,75.5 480,76",
		wv_wire=0,
		wv_wire_spline=1];
	X2	[pos="435,66"];
}
`

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	return p
}

func TestParseLaidOutGraph(t *testing.T) {
	g, err := newTestParser(t).ParseString(laidOut)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	if g.Directed {
		t.Error("expected an undirected graph")
	}
	if g.Attrs["rankdir"] != "LR" || g.Attrs["bb"] != "0,0,462.5,132" {
		t.Errorf("unexpected graph attributes: %v", g.Attrs)
	}
	if g.NodeDefaults["label"] != `\N` {
		t.Errorf("expected escapes other than continuations to be kept, got %q", g.NodeDefaults["label"])
	}
	if len(g.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(g.Nodes))
	}

	x1 := g.Node("X1")
	if x1.Label == nil {
		t.Fatal("expected HTML label on X1")
	}
	wantLabel := `<table border="0" cellspacing="0" cellpadding="0"><tr><td><table border="0"><tr><td port="p1r">1</td></tr></table></td></tr></table>`
	if got := x1.Label.HTML(); got != wantLabel {
		t.Errorf("label not kept verbatim:\n%s\nexpected:\n%s", got, wantLabel)
	}
	if x1.Attrs["pos"] != "27,66" {
		t.Errorf("expected node pos 27,66, got %q", x1.Attrs["pos"])
	}
	if got := g.Node("W1").Label.HTML(); !strings.Contains(got, "BK &amp; RD") {
		t.Errorf("entities should be kept, got %s", got)
	}

	if len(g.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(g.Edges))
	}
	first := g.Edges[0]
	if first.From != (graph.Endpoint{Node: "X1", Port: "p1r"}) || first.To != (graph.Endpoint{Node: "W1", Port: "w1"}) {
		t.Errorf("unexpected endpoints %v -- %v", first.From, first.To)
	}
	if _, ok := first.Attrs["pos"]; ok {
		t.Error("pos should move into the edge path")
	}
	if len(first.Path) != 4 || first.Path[3] != (graph.Point{X: 188, Y: 62.5}) {
		t.Errorf("unexpected path %v", first.Path)
	}
	tag, ok, err := first.Tag()
	if err != nil || !ok || tag.Color != "GNYE" {
		t.Errorf("unexpected tag %+v ok=%v err=%v", tag, ok, err)
	}

	second := g.Edges[1]
	if len(second.Path) != 10 {
		t.Errorf("expected continued pos to give 10 points, got %d", len(second.Path))
	}
	if last := second.Path[len(second.Path)-1]; last != (graph.Point{X: 480, Y: 76}) {
		t.Errorf("unexpected last point %v", last)
	}
}

func TestParseEdgeChainAndPorts(t *testing.T) {
	src := `digraph "G" {
		a -> b:n -> c:p2:w [color=red];
		rankdir=LR
		subgraph cluster_0 { d; }
	}`
	g, err := newTestParser(t).ParseString(src)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if !g.Directed || g.Name != "G" {
		t.Errorf("unexpected graph header: directed=%v name=%q", g.Directed, g.Name)
	}
	if len(g.Edges) != 2 {
		t.Fatalf("expected chain to split into 2 edges, got %d", len(g.Edges))
	}
	if g.Edges[1].To != (graph.Endpoint{Node: "c", Port: "p2", Compass: "w"}) {
		t.Errorf("unexpected endpoint %+v", g.Edges[1].To)
	}
	if g.Edges[0].Attrs["color"] != "red" || g.Edges[1].Attrs["color"] != "red" {
		t.Error("chain attributes should apply to every edge")
	}
	if g.Attrs["rankdir"] != "LR" {
		t.Errorf("expected rankdir assignment, got %v", g.Attrs)
	}
	if g.Node("d") == nil {
		t.Error("expected subgraph node to be flattened into the graph")
	}
}

func TestParsePos(t *testing.T) {
	tests := []struct {
		name    string
		pos     string
		want    graph.Path
		wantErr bool
	}{
		{name: "plain", pos: "1,2 3,4", want: graph.Path{{X: 1, Y: 2}, {X: 3, Y: 4}}},
		{name: "arrow ends", pos: "e,9,9 s,0,0 1,2 3,4", want: graph.Path{{X: 1, Y: 2}, {X: 3, Y: 4}}},
		{name: "3d", pos: "1,2,5", want: graph.Path{{X: 1, Y: 2}}},
		{name: "garbage", pos: "1;2", wantErr: true},
		{name: "empty", pos: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePos(tt.pos)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("point %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestRoundTripWriter(t *testing.T) {
	g := graph.New("")
	_ = g.AddNode(&graph.Node{ID: "X1", Label: graph.RawHTML(`<table><tr><td port="p1r">1</td></tr></table>`)})
	_ = g.AddNode(&graph.Node{ID: "W1"})
	e := g.AddEdge(graph.Endpoint{Node: "X1", Port: "p1r"}, graph.Endpoint{Node: "W1", Port: "w1"}, nil)
	e.SetTag(graph.WireTag{Wire: 4, Segment: 0, Color: "RD"})
	e.Path = graph.Path{{X: 1, Y: 1}, {X: 2, Y: 2}}

	back, err := newTestParser(t).ParseString(g.String())
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if got := back.Node("X1").Label.HTML(); got != `<table><tr><td port="p1r">1</td></tr></table>` {
		t.Errorf("label changed in round trip: %s", got)
	}
	tag, ok, err := back.Edges[0].Tag()
	if err != nil || !ok || tag.Wire != 4 {
		t.Errorf("tag lost in round trip: %+v ok=%v err=%v", tag, ok, err)
	}
	if len(back.Edges[0].Path) != 2 {
		t.Errorf("path lost in round trip: %v", back.Edges[0].Path)
	}
}
