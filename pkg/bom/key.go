package bom

import "cmp"

// Kind tells which block of the BOM a group belongs to.
type Kind int

const (
	KindConnector Kind = iota
	KindCable
	KindWire
	KindExtra
)

func (k Kind) String() string {
	switch k {
	case KindConnector:
		return "connector"
	case KindCable:
		return "cable"
	case KindWire:
		return "wire"
	case KindExtra:
		return "extra"
	}
	return "unknown"
}

// GroupKey holds the attributes that make two parts the same BOM line.
// Fields that do not apply to a Kind stay zero. GroupKey is comparable and
// is used directly as a map key.
type GroupKey struct {
	Kind         Kind
	Category     string
	Type         string
	Subtype      string
	PinCount     int
	Gauge        float64
	GaugeUnit    string
	WireCount    int
	Shield       bool
	Color        string
	Manufacturer string
	MPN          string
	PN           string
}

// Compare orders keys field by field, Kind first. It returns -1, 0 or +1.
func (k GroupKey) Compare(o GroupKey) int {
	if c := cmp.Compare(k.Kind, o.Kind); c != 0 {
		return c
	}
	for _, p := range [][2]string{
		{k.Category, o.Category},
		{k.Type, o.Type},
		{k.Subtype, o.Subtype},
	} {
		if c := cmp.Compare(p[0], p[1]); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(k.PinCount, o.PinCount); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Gauge, o.Gauge); c != 0 {
		return c
	}
	if c := cmp.Compare(k.GaugeUnit, o.GaugeUnit); c != 0 {
		return c
	}
	if c := cmp.Compare(k.WireCount, o.WireCount); c != 0 {
		return c
	}
	if k.Shield != o.Shield {
		if !k.Shield {
			return -1
		}
		return 1
	}
	for _, p := range [][2]string{
		{k.Color, o.Color},
		{k.Manufacturer, o.Manufacturer},
		{k.MPN, o.MPN},
		{k.PN, o.PN},
	} {
		if c := cmp.Compare(p[0], p[1]); c != 0 {
			return c
		}
	}
	return 0
}

// Less reports whether k sorts before o.
func (k GroupKey) Less(o GroupKey) bool {
	return k.Compare(o) < 0
}
