package harness

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/chewxy/sexp"
)

func TestConnect(t *testing.T) {
	pins := []PinRef{
		{Component: "X1", Pin: "1"},
		{Component: "X1", Pin: "2"},
		{Component: "X1", Pin: "3"},
	}

	nl := NewNetlist(pins)
	nl.Connect(pins[0], pins[1])

	if nl.Find(pins[0]) != nl.Find(pins[1]) {
		t.Errorf("pins 1 and 2 should have same root after Connect")
	}
	if nl.Find(pins[2]) == nl.Find(pins[0]) {
		t.Errorf("pin 3 should have a different root")
	}

	nl.Connect(pins[1], pins[2])
	if nl.Find(pins[0]) != nl.Find(pins[2]) {
		t.Errorf("all pins should have same root after transitive connection")
	}
}

func TestBuildNetlist(t *testing.T) {
	h := newTestHarness(t)
	mustConnect(t, h, "X1", "1", 1, "X2", "1")
	mustConnect(t, h, "X1", "2", 2, "X2", "2")
	if err := h.Connect("X1", "3", "W1", WirePort(3), "", ""); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	nl := BuildNetlist(h)
	if nl.NetCount() != 3 {
		t.Fatalf("expected 3 nets, got %d", nl.NetCount())
	}

	first := nl.Nets[0]
	if first.ID != 1 {
		t.Errorf("expected first net ID 1, got %d", first.ID)
	}
	want := []PinRef{{"W1", "1"}, {"X1", "1"}, {"X2", "1"}}
	if len(first.Pins) != len(want) {
		t.Fatalf("expected %d pins, got %v", len(want), first.Pins)
	}
	for i := range want {
		if first.Pins[i] != want[i] {
			t.Errorf("pin %d: expected %v, got %v", i, want[i], first.Pins[i])
		}
	}
}

func TestNetlistLoops(t *testing.T) {
	h := New()
	if _, err := h.AddConnector("X1", ConnectorOptions{PinCount: 3, Loops: [][2]string{{"2", "3"}}}); err != nil {
		t.Fatalf("AddConnector: %v", err)
	}
	nl := BuildNetlist(h)
	if nl.NetCount() != 1 {
		t.Fatalf("expected loop to form one net, got %d", nl.NetCount())
	}
}

func TestExportKiCad(t *testing.T) {
	h := newTestHarness(t)
	mustConnect(t, h, "X1", "1", 1, "X2", "1")
	mustConnect(t, h, "X1", "2", 2, "X2", "2")

	out, err := BuildNetlist(h).ExportKiCad()
	if err != nil {
		t.Fatalf("ExportKiCad: %v", err)
	}
	if !strings.Contains(out, "(comp (ref W1))") {
		t.Errorf("expected cable component in output:\n%s", out)
	}
	if !strings.Contains(out, "(node (ref X2) (pin 2))") {
		t.Errorf("expected X2 pin 2 node in output:\n%s", out)
	}

	sexps, err := sexp.ParseString(out)
	if err != nil {
		t.Fatalf("output is not a valid s-expression: %v", err)
	}
	if len(sexps) != 1 {
		t.Fatalf("expected a single top-level expression, got %d", len(sexps))
	}
	if sexps[0].IsLeaf() {
		t.Errorf("expected a list at the top level")
	}
}

func TestExportJSON(t *testing.T) {
	h := newTestHarness(t)
	mustConnect(t, h, "X1", "1", 1, "X2", "1")

	nl := NewNetlist(nil)
	if _, err := nl.ExportJSON(); err == nil {
		t.Error("expected error for unfinalized netlist")
	}

	data, err := BuildNetlist(h).ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	var decoded struct {
		NetCount int `json:"net_count"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.NetCount != 1 {
		t.Errorf("expected 1 net, got %d", decoded.NetCount)
	}
}

func mustConnect(t *testing.T, h *Harness, from, fromPin string, wire int, to, toPin string) {
	t.Helper()
	if err := h.Connect(from, fromPin, "W1", WirePort(wire), to, toPin); err != nil {
		t.Fatalf("Connect %s:%s -> %s:%s: %v", from, fromPin, to, toPin, err)
	}
}
