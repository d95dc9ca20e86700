package diagram

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceHarness/pkg/colors"
	"github.com/OpenTraceLab/OpenTraceHarness/pkg/graph"
	"github.com/OpenTraceLab/OpenTraceHarness/pkg/harness"
	"github.com/OpenTraceLab/OpenTraceHarness/pkg/layout"
)

// fakeEngine places node i at x=100*i and routes every edge as a straight
// four-point spline between its nodes.
type fakeEngine struct {
	drop  string
	fail  error
	empty bool
	calls int
}

func (f *fakeEngine) Layout(_ context.Context, in *graph.Graph) (*graph.Graph, error) {
	f.calls++
	if f.fail != nil {
		return nil, f.fail
	}
	if f.empty {
		return nil, nil
	}
	out := graph.New(in.Name)
	out.Attrs = in.Attrs.Clone()
	out.Attrs["bb"] = "0,0,500,100"
	out.NodeDefaults = graph.Attributes{"label": `\N`}
	x := make(map[string]float64)
	for i, n := range in.Nodes {
		x[n.ID] = float64(100 * i)
		attrs := n.Attrs.Clone()
		attrs["pos"] = "0,0"
		_ = out.AddNode(&graph.Node{ID: n.ID, Label: n.Label, Attrs: attrs})
	}
	for _, e := range in.Edges {
		if f.drop != "" && e.ID() == f.drop {
			continue
		}
		a, b := graph.Point{X: x[e.From.Node]}, graph.Point{X: x[e.To.Node]}
		ne := out.AddEdge(e.From, e.To, e.Attrs.Clone())
		ne.Path = graph.Path{a, a.Lerp(b, 0.25), a.Lerp(b, 0.75), b}
	}
	return out, nil
}

func (f *fakeEngine) Render(context.Context, *graph.Graph, string) ([]byte, error) {
	return nil, nil
}

func buildHarness(t *testing.T) *harness.Harness {
	t.Helper()
	h := harness.New()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	_, err := h.AddConnector("X1", harness.ConnectorOptions{PinCount: 3, PinLabels: []string{"GND", "VCC", "SIG"}})
	must(err)
	_, err = h.AddConnector("X2", harness.ConnectorOptions{PinCount: 3, Loops: [][2]string{{"2", "3"}}})
	must(err)
	_, err = h.AddConnector("F1", harness.ConnectorOptions{Style: harness.StyleSimple, Type: "Ferrule", ShowName: new(bool)})
	must(err)
	_, err = h.AddCable("W1", harness.CableOptions{
		Colors: []colors.Spec{{"BK"}, {"RD"}, {"GN", "YE"}},
		Shield: true,
	})
	must(err)
	must(h.Connect("X1", "GND", "W1", harness.WirePort(1), "X2", "1"))
	must(h.Connect("X1", "VCC", "W1", harness.WirePort(2), "X2", "2"))
	must(h.Connect("F1", "1", "W1", harness.WirePort(3), "", ""))
	must(h.Connect("X1", "1", "W1", harness.ShieldPort, "", ""))
	return h
}

func TestPorts(t *testing.T) {
	sides := Ports(buildHarness(t))
	if s := sides["X1"]; !s.Right || s.Left {
		t.Errorf("X1: expected right ports only, got %+v", s)
	}
	if s := sides["X2"]; !s.Left || s.Right {
		t.Errorf("X2: expected left ports only, got %+v", s)
	}
}

func TestDescribeTagsWires(t *testing.T) {
	d, err := Describe(buildHarness(t))
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}

	// 4 connections: two full wires, two single-ended
	if len(d.Tags) != 4 {
		t.Fatalf("expected 4 wires, got %d", len(d.Tags))
	}
	if len(d.Tags[0]) != 2 || len(d.Tags[2]) != 1 {
		t.Errorf("unexpected segment counts: %v", d.Tags)
	}

	var tagged, loops int
	for _, e := range d.Graph.Edges {
		tag, ok, err := e.Tag()
		if err != nil {
			t.Fatalf("Tag: %v", err)
		}
		if !ok {
			loops++
			if e.From.Compass != "w" || e.From.Port != "p2l" || e.To.Port != "p3l" {
				t.Errorf("loop should sit on the left side: %v -- %v", e.From, e.To)
			}
			continue
		}
		tagged++
		if tag.Wire == 0 {
			want := [2]string{"X1", "W1"}
			if tag.Segment == 1 {
				want = [2]string{"W1", "X2"}
			}
			if e.From.Node != want[0] || e.To.Node != want[1] {
				t.Errorf("segment %d: expected %v, got %s -- %s", tag.Segment, want, e.From.Node, e.To.Node)
			}
		}
		if tag.Wire == 2 && (e.From.Port != "" || tag.Color != "GNYE") {
			t.Errorf("ferrule wire: expected no port and GNYE, got port %q color %q", e.From.Port, tag.Color)
		}
		if tag.Wire == 3 && (tag.Color != colors.ShieldColor || e.To.Port != "ws") {
			t.Errorf("shield wire: expected SN to ws, got %q to %q", tag.Color, e.To.Port)
		}
	}
	if tagged != 6 || loops != 1 {
		t.Errorf("expected 6 tagged edges and 1 loop, got %d and %d", tagged, loops)
	}

	w1 := d.Graph.Node("W1").Label.HTML()
	for _, want := range []string{"<td>X1:1</td><td>BK</td><td>X2:1</td>", "<td>X1:2</td><td>RD</td><td>X2:2</td>"} {
		if !strings.Contains(w1, want) {
			t.Errorf("expected %q in cable label %s", want, w1)
		}
	}
	if strings.Contains(w1, "F1:1") {
		t.Error("ferrule does not show its name, slot should stay empty")
	}
}

func TestDescribeNoPortSide(t *testing.T) {
	h := harness.New()
	if _, err := h.AddConnector("X1", harness.ConnectorOptions{PinCount: 2, Loops: [][2]string{{"1", "2"}}}); err != nil {
		t.Fatal(err)
	}
	if _, err := Describe(h); !errors.Is(err, harness.ErrNoPortSide) {
		t.Errorf("expected ErrNoPortSide, got %v", err)
	}
}

func TestDescribeLeavesHarnessUntouched(t *testing.T) {
	h := buildHarness(t)
	before := h.Connector("X1").ActivePins()
	if _, err := Describe(h); err != nil {
		t.Fatal(err)
	}
	if _, err := Describe(h); err != nil {
		t.Fatal(err)
	}
	after := h.Connector("X1").ActivePins()
	if strings.Join(before, ",") != strings.Join(after, ",") {
		t.Errorf("active pins changed: %v -> %v", before, after)
	}
}

func TestBuildStitchesWires(t *testing.T) {
	engine := &fakeEngine{}
	out, err := Build(context.Background(), buildHarness(t), engine)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if engine.calls != 1 {
		t.Errorf("expected one layout call, got %d", engine.calls)
	}
	if out.Attrs["outputorder"] != "nodesfirst" || out.Attrs["bb"] != "0,0,500,100" {
		t.Errorf("unexpected graph attributes %v", out.Attrs)
	}
	if _, ok := out.NodeDefaults["label"]; ok {
		t.Error("default node label should not be copied")
	}

	// loop + wire0 (base+1) + wire1 (base+1) + wire2 GNYE (base+2) + shield (base+1)
	if len(out.Edges) != 1+2+2+3+2 {
		t.Fatalf("unexpected edge count %d", len(out.Edges))
	}
	var full *graph.Edge
	for _, e := range out.Edges {
		if e.From.Node == "X1" && e.To.Node == "X2" {
			full = e
			break
		}
	}
	if full == nil {
		t.Fatal("expected wire 0 stitched from X1 to X2")
	}
	if len(full.Path) != 4+2+4 {
		t.Errorf("expected two segments joined with two points, got %d points", len(full.Path))
	}
}

func TestBuildFailures(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name   string
		engine *fakeEngine
		want   []error
	}{
		{"engine error", &fakeEngine{fail: boom}, []error{layout.ErrEngineFailure, boom}},
		{"no graph", &fakeEngine{empty: true}, []error{layout.ErrEngineFailure}},
		{"missing edge", &fakeEngine{drop: "e1"}, []error{layout.ErrEngineFailure}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Build(context.Background(), buildHarness(t), tt.engine)
			for _, want := range tt.want {
				if !errors.Is(err, want) {
					t.Errorf("expected %v, got %v", want, err)
				}
			}
			if out != nil {
				t.Error("no partial result should be returned")
			}
		})
	}
}
