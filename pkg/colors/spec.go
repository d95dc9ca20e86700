package colors

import (
	"fmt"
	"slices"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// MaxTokens is the largest number of color codes a single wire may carry.
const MaxTokens = 3

// Spec is the ordered list of color codes of one wire. An empty Spec means the
// wire has no defined color.
type Spec []string

// ParseSpec splits a concatenated code string such as "GNYE" into its tokens.
// Codes are case-insensitive. Custom colors are written as hex triplets
// separated by colons, e.g. "#ff8800" or "#f80:BK", and are stored in
// normalized "#rrggbb" form.
func ParseSpec(s string) (Spec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Spec{}, nil
	}
	if strings.ContainsAny(s, "#:") {
		return parseCustom(s)
	}
	s = strings.ToUpper(s)
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("colors: %q is not a sequence of two-letter codes", s)
	}
	if len(s)/2 > MaxTokens {
		return nil, fmt.Errorf("colors: %q has more than %d colors", s, MaxTokens)
	}
	spec := make(Spec, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		code := s[i : i+2]
		if !Known(code) {
			return nil, fmt.Errorf("colors: unknown color code %q in %q", code, s)
		}
		spec = append(spec, code)
	}
	return spec, nil
}

func parseCustom(s string) (Spec, error) {
	tokens := strings.Split(s, ":")
	if len(tokens) > MaxTokens {
		return nil, fmt.Errorf("colors: %q has more than %d colors", s, MaxTokens)
	}
	spec := make(Spec, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if strings.HasPrefix(tok, "#") {
			c, err := colorful.Hex(expandShortHex(tok))
			if err != nil {
				return nil, fmt.Errorf("colors: invalid hex color %q in %q", tok, s)
			}
			spec = append(spec, c.Hex())
			continue
		}
		code := strings.ToUpper(tok)
		if !Known(code) {
			return nil, fmt.Errorf("colors: unknown color code %q in %q", tok, s)
		}
		spec = append(spec, code)
	}
	return spec, nil
}

// expandShortHex turns "#rgb" into "#rrggbb".
func expandShortHex(s string) string {
	if len(s) != 4 {
		return s
	}
	return string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
}

// IsCustom reports whether code is a hex color rather than a color code.
func IsCustom(code string) bool {
	return strings.HasPrefix(code, "#")
}

// MustParseSpec is like ParseSpec but panics on error. Intended for tables
// and tests.
func MustParseSpec(s string) Spec {
	spec, err := ParseSpec(s)
	if err != nil {
		panic(err)
	}
	return spec
}

// String returns the concatenated short form, e.g. "GNYE". Specs holding a
// custom color are joined with colons so ParseSpec reads them back.
func (s Spec) String() string {
	if slices.ContainsFunc(s, IsCustom) {
		return strings.Join(s, ":")
	}
	return strings.Join(s, "")
}

// IsEmpty reports whether the wire has no color.
func (s Spec) IsEmpty() bool {
	return len(s) == 0
}

// Hex resolves the spec to display colors.
//
// Two-color wires are widened to A,B,A so they render as a striped band.
// With pad set, single-color wires are tripled so they have the same
// thickness as multi-color wires in the same cable. Unknown codes resolve to
// DefaultHex.
func Hex(spec Spec, pad bool) []string {
	if spec.IsEmpty() {
		return []string{DefaultHex}
	}
	padded := spec
	switch {
	case len(spec) == 2:
		padded = Spec{spec[0], spec[1], spec[0]}
	case pad && len(spec) == 1:
		padded = Spec{spec[0], spec[0], spec[0]}
	}
	out := make([]string, 0, len(padded))
	for _, code := range padded {
		h, ok := hexFor(code)
		if !ok {
			return []string{DefaultHex}
		}
		out = append(out, h)
	}
	return out
}

// Bands returns the one or two colors drawn along a stitched wire. Specs with
// three codes degrade to their first two.
func Bands(spec Spec) []string {
	hex := Hex(spec, false)
	if len(hex) > 2 {
		hex = hex[:2]
	}
	return hex
}

// NeedsPadding reports whether any wire of a cable has two or three colors,
// in which case single-color wires get padded for uniform bar thickness.
func NeedsPadding(specs []Spec) bool {
	for _, s := range specs {
		if len(s) == 2 || len(s) == 3 {
			return true
		}
	}
	return false
}

func hexFor(code string) (string, bool) {
	if IsCustom(code) {
		c, err := colorful.Hex(expandShortHex(code))
		if err != nil {
			return "", false
		}
		return c.Hex(), true
	}
	h, ok := hexTable[code]
	return h, ok
}
