package colors

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects how wire colors are written as text. The letter case of the
// mode name selects the case of the output: "SHORT" gives "GNYE", "short"
// gives "gnye".
type Mode string

const (
	ModeShort Mode = "SHORT"
	ModeFull  Mode = "FULL"
	ModeHex   Mode = "HEX"
	ModeGer   Mode = "GER"
)

// Translate renders a spec as text in the given mode.
func Translate(spec Spec, mode Mode) (string, error) {
	m := string(mode)
	upper := m == strings.ToUpper(m)
	lower := m == strings.ToLower(m)
	if !upper && !lower {
		return "", fmt.Errorf("colors: mode %q must be all upper or all lower case", m)
	}
	if spec.IsEmpty() {
		return "", nil
	}

	var out string
	switch Mode(strings.ToUpper(m)) {
	case ModeFull:
		names := make([]string, len(spec))
		for i, code := range spec {
			names[i] = lookup(fullTable, code)
		}
		out = strings.Join(names, "/")
	case ModeHex:
		out = strings.Join(Hex(spec, false), ":")
	case ModeGer:
		var sb strings.Builder
		for _, code := range spec {
			sb.WriteString(lookup(gerTable, code))
		}
		out = sb.String()
	case ModeShort:
		out = spec.String()
	default:
		return "", fmt.Errorf("colors: unknown color mode %q", m)
	}

	if upper {
		return strings.ToUpper(out), nil
	}
	return strings.ToLower(out), nil
}

// lookup returns the table name of code. Custom colors have no name and are
// written as their hex value.
func lookup(table map[string]string, code string) string {
	if name, ok := table[code]; ok {
		return name
	}
	return code
}

// ValidMode reports whether mode is accepted by Translate.
func ValidMode(mode Mode) bool {
	_, err := Translate(Spec{"BK"}, mode)
	return err == nil
}

var awgTable = map[string]string{
	"0.09": "28",
	"0.14": "26",
	"0.25": "24",
	"0.34": "22",
	"0.5":  "21",
	"0.75": "20",
	"1":    "18",
	"1.5":  "16",
	"2.5":  "14",
	"4":    "12",
	"6":    "10",
	"10":   "8",
	"16":   "6",
	"25":   "4",
	"35":   "2",
	"50":   "1",
}

var mm2Table = func() map[string]string {
	m := make(map[string]string, len(awgTable))
	for mm2, awg := range awgTable {
		m[awg] = mm2
	}
	return m
}()

// AWGEquiv returns the AWG size closest to a cross-section in mm², or
// "Unknown".
func AWGEquiv(mm2 float64) string {
	if v, ok := awgTable[FormatGauge(mm2)]; ok {
		return v
	}
	return "Unknown"
}

// MM2Equiv returns the cross-section in mm² of an AWG size, or "Unknown".
func MM2Equiv(awg float64) string {
	if v, ok := mm2Table[FormatGauge(awg)]; ok {
		return v
	}
	return "Unknown"
}

// FormatGauge prints a gauge without trailing zeros ("0.5", "1", "2.5").
func FormatGauge(g float64) string {
	return strconv.FormatFloat(g, 'f', -1, 64)
}
