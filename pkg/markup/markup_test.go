package markup

import (
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceHarness/pkg/colors"
	"github.com/OpenTraceLab/OpenTraceHarness/pkg/harness"
)

func TestTableOmitsEmptyRowsAndCells(t *testing.T) {
	tbl := NewTable(A("border", 0))
	tbl.AddRow(nil, nil)
	tbl.AddRow(Text("a"), nil, Text("b"))
	tbl.AddRow(Text(""))

	got := tbl.HTML()
	want := `<table border="0"><tr><td>a</td><td>b</td></tr></table>`
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestTextEscaping(t *testing.T) {
	got := NewTable().AddRow(Text("a<b & c\nd")).HTML()
	want := `<table><tr><td>a&lt;b &amp; c<br/>d</td></tr></table>`
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestSlotFilledAfterBuild(t *testing.T) {
	s := &Slot{}
	tbl := NewTable().AddRow(SlotCell(s), Text("RD"))
	if got := tbl.HTML(); got != `<table><tr><td></td><td>RD</td></tr></table>` {
		t.Errorf("unexpected HTML before fill: %s", got)
	}
	s.Set("X1:<!-- 1_in -->")
	if got := tbl.HTML(); !strings.Contains(got, "<td>X1:&lt;!-- 1_in --&gt;</td>") {
		t.Errorf("slot text should be escaped, got %s", got)
	}
}

func TestConnectorPorts(t *testing.T) {
	c, err := harness.NewConnector("X1", harness.ConnectorOptions{
		Pins:      []string{"1", "2"},
		PinLabels: []string{"GND", ""},
		Type:      "Molex KK 254",
		Color:     "BK",
	})
	if err != nil {
		t.Fatalf("NewConnector: %v", err)
	}

	tests := []struct {
		name      string
		sides     Sides
		wantLeft  bool
		wantRight bool
	}{
		{"right only", Sides{Right: true}, false, true},
		{"left only", Sides{Left: true}, true, false},
		{"both", Sides{Left: true, Right: true}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := Connector(c, tt.sides).HTML()
			if got := strings.Contains(html, `port="p1l"`); got != tt.wantLeft {
				t.Errorf("left port present = %v, expected %v", got, tt.wantLeft)
			}
			if got := strings.Contains(html, `port="p2r"`); got != tt.wantRight {
				t.Errorf("right port present = %v, expected %v", got, tt.wantRight)
			}
			if !strings.Contains(html, "2-pin") {
				t.Errorf("expected pin count in label: %s", html)
			}
			if !strings.Contains(html, `bgcolor="#000000"`) {
				t.Errorf("expected color swatch in label: %s", html)
			}
		})
	}
}

func TestConnectorOmitsBlankLabels(t *testing.T) {
	c, err := harness.NewConnector("X1", harness.ConnectorOptions{PinCount: 1})
	if err != nil {
		t.Fatalf("NewConnector: %v", err)
	}
	html := Connector(c, Sides{Right: true}).HTML()
	if !strings.Contains(html, `<tr><td port="p1r">1</td></tr>`) {
		t.Errorf("expected pin row without label cell, got %s", html)
	}
	if strings.Contains(html, "<td></td>") {
		t.Errorf("unexpected empty cell: %s", html)
	}
}

func TestConnectorHidesDisconnectedPins(t *testing.T) {
	c, err := harness.NewConnector("X1", harness.ConnectorOptions{PinCount: 3, HideDisconnectedPins: true})
	if err != nil {
		t.Fatalf("NewConnector: %v", err)
	}
	if err := c.Activate("2"); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	html := Connector(c, Sides{Left: true}).HTML()
	if strings.Contains(html, `port="p1l"`) || strings.Contains(html, `port="p3l"`) {
		t.Errorf("disconnected pins should be hidden: %s", html)
	}
	if !strings.Contains(html, `port="p2l"`) {
		t.Errorf("connected pin should be shown: %s", html)
	}
}

func TestSimpleConnectorHasNoPinTable(t *testing.T) {
	c, err := harness.NewConnector("F1", harness.ConnectorOptions{Style: harness.StyleSimple, Type: "Ferrule"})
	if err != nil {
		t.Fatalf("NewConnector: %v", err)
	}
	html := Connector(c, Sides{Left: true, Right: true}).HTML()
	if strings.Contains(html, "port=") {
		t.Errorf("simple connector should not have ports: %s", html)
	}
	if strings.Contains(html, "-pin") {
		t.Errorf("simple connector should not show pin count: %s", html)
	}
}

func TestManufacturerInfo(t *testing.T) {
	tests := []struct {
		manufacturer, mpn, want string
	}{
		{"", "", ""},
		{"Molex", "", "Molex"},
		{"", "22-01-2021", "MPN: 22-01-2021"},
		{"Molex", "22-01-2021", "Molex: 22-01-2021"},
	}
	for _, tt := range tests {
		if got := ManufacturerInfo(tt.manufacturer, tt.mpn); got != tt.want {
			t.Errorf("ManufacturerInfo(%q, %q): expected %q, got %q", tt.manufacturer, tt.mpn, tt.want, got)
		}
	}
}

func TestCableSlotsAndPorts(t *testing.T) {
	c, err := harness.NewCable("W1", harness.CableOptions{
		Colors: []colors.Spec{{"RD"}, {"GN", "YE"}},
		Shield: true,
	})
	if err != nil {
		t.Fatalf("NewCable: %v", err)
	}
	tbl, slots, err := Cable(c, colors.ModeShort)
	if err != nil {
		t.Fatalf("Cable: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("expected slots for 2 wires and the shield, got %d", len(slots))
	}
	slots[harness.WirePort(2)].In.Set("X1:3")
	slots[harness.ShieldPort].Out.Set("X2:1")

	html := tbl.HTML()
	for _, want := range []string{`port="w1"`, `port="w2"`, `port="ws"`, "<td>X1:3</td><td>GNYE</td>", "X2:1", "2x", "+ S"} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in %s", want, html)
		}
	}
}

func TestCableBarPadding(t *testing.T) {
	padded, _ := harness.NewCable("W1", harness.CableOptions{Colors: []colors.Spec{{"RD"}, {"GN", "YE"}}})
	plain, _ := harness.NewCable("W2", harness.CableOptions{Colors: []colors.Spec{{"RD"}, {"BK"}}})

	tests := []struct {
		name  string
		cable *harness.Cable
		bars  int
	}{
		{"two color wire pads single colors", padded, 6},
		{"single colors only", plain, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, _, err := Cable(tt.cable, colors.ModeShort)
			if err != nil {
				t.Fatalf("Cable: %v", err)
			}
			if got := strings.Count(tbl.HTML(), `height="2"`); got != tt.bars {
				t.Errorf("expected %d bar rows, got %d", tt.bars, got)
			}
		})
	}
}

func TestCableAttributes(t *testing.T) {
	c, err := harness.NewCable("W1", harness.CableOptions{
		WireCount: 4,
		Type:      "LiYY",
		Gauge:     0.25,
		ShowEquiv: true,
		Shield:    true,
		Length:    1.5,
	})
	if err != nil {
		t.Fatalf("NewCable: %v", err)
	}
	got := Attributes(c)
	want := []string{"LiYY", "4x", "0.25 mm² (24 AWG)", "+ S", "1.5 m"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestBundleIdentificationRows(t *testing.T) {
	c, err := harness.NewCable("B1", harness.CableOptions{
		Category:  harness.CategoryBundle,
		Colors:    []colors.Spec{{"RD"}, {"BK"}},
		PN:        harness.List([]string{"P1", "P2"}),
		MPN:       harness.Scalar("X-100"),
		WireCount: 0,
	})
	if err != nil {
		t.Fatalf("NewCable: %v", err)
	}
	tbl, _, err := Cable(c, colors.ModeFull)
	if err != nil {
		t.Fatalf("Cable: %v", err)
	}
	html := tbl.HTML()
	for _, want := range []string{"P/N: P1", "P/N: P2", "MPN: X-100", "RED", "BLACK"} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in %s", want, html)
		}
	}
}

func TestCableRejectsBadMode(t *testing.T) {
	c, _ := harness.NewCable("W1", harness.CableOptions{Colors: []colors.Spec{{"RD"}}})
	if _, _, err := Cable(c, colors.Mode("Short")); err == nil {
		t.Error("expected error for mixed case mode")
	}
}
