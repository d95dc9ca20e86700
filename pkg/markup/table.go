// Package markup builds the nested-table labels drawn inside connector and
// cable nodes.
//
// Labels are assembled as a tree of rows and cells and only turned into the
// Graphviz HTML-like dialect by Table.HTML. Text that is unknown while the
// tree is built (the connector pin a wire ends on) is held in a Slot and
// filled in later.
package markup

import (
	"fmt"
	"strings"
)

// Attr is one attribute of a table or cell. Attribute order is kept.
type Attr struct {
	Key   string
	Value string
}

// A is shorthand for an Attr.
func A(key string, value any) Attr {
	return Attr{Key: key, Value: fmt.Sprint(value)}
}

// Slot is a cell body that is filled in after the label has been built.
type Slot struct {
	text string
}

// Set replaces the slot text.
func (s *Slot) Set(text string) { s.text = text }

// Text returns the current slot text.
func (s *Slot) Text() string { return s.text }

// Cell is one table cell. It holds at most one of text, a nested table or a
// slot.
type Cell struct {
	Attrs []Attr

	text  string
	raw   bool
	table *Table
	slot  *Slot
}

// Text returns a cell holding plain text. Newlines become line breaks.
func Text(s string, attrs ...Attr) *Cell {
	return &Cell{text: s, Attrs: attrs}
}

// Nested returns a cell holding a table.
func Nested(t *Table, attrs ...Attr) *Cell {
	return &Cell{table: t, Attrs: attrs}
}

// SlotCell returns a cell whose text is taken from s at serialization time.
func SlotCell(s *Slot, attrs ...Attr) *Cell {
	return &Cell{slot: s, Attrs: attrs}
}

// Empty returns a cell without content, for bars and port anchors.
func Empty(attrs ...Attr) *Cell {
	return &Cell{Attrs: attrs}
}

// Spacer returns a non-breaking space cell.
func Spacer() *Cell {
	return &Cell{text: "&nbsp;", raw: true}
}

// IsEmpty reports whether the cell carries neither content nor attributes.
func (c *Cell) IsEmpty() bool {
	if c == nil {
		return true
	}
	return c.text == "" && c.slot == nil && len(c.Attrs) == 0 && (c.table == nil || c.table.IsEmpty())
}

// With returns a copy of the cell with extra attributes appended.
func (c *Cell) With(attrs ...Attr) *Cell {
	cp := *c
	cp.Attrs = append(append([]Attr(nil), c.Attrs...), attrs...)
	return &cp
}

// Row is a sequence of optional cells. Nil cells are left out.
type Row []*Cell

// IsEmpty reports whether every cell of the row is nil or empty.
func (r Row) IsEmpty() bool {
	for _, c := range r {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// Table is a list of rows.
type Table struct {
	Attrs []Attr
	Rows  []Row
}

// NewTable returns an empty table with the given attributes.
func NewTable(attrs ...Attr) *Table {
	return &Table{Attrs: attrs}
}

// AddRow appends a row and returns t.
func (t *Table) AddRow(cells ...*Cell) *Table {
	t.Rows = append(t.Rows, Row(cells))
	return t
}

// IsEmpty reports whether the table would emit no rows.
func (t *Table) IsEmpty() bool {
	for _, r := range t.Rows {
		if !r.IsEmpty() {
			return false
		}
	}
	return true
}

// HTML serializes the table to the Graphviz HTML-like label dialect,
// without the enclosing angle brackets.
func (t *Table) HTML() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t *Table) write(sb *strings.Builder) {
	sb.WriteString("<table")
	writeAttrs(sb, t.Attrs)
	sb.WriteString(">")
	for _, row := range t.Rows {
		if row.IsEmpty() {
			continue
		}
		sb.WriteString("<tr>")
		for _, c := range row {
			if c == nil {
				continue
			}
			c.write(sb)
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</table>")
}

func (c *Cell) write(sb *strings.Builder) {
	sb.WriteString("<td")
	writeAttrs(sb, c.Attrs)
	sb.WriteString(">")
	switch {
	case c.table != nil:
		if !c.table.IsEmpty() {
			c.table.write(sb)
		}
	case c.slot != nil:
		sb.WriteString(escape(c.slot.text))
	case c.raw:
		sb.WriteString(c.text)
	default:
		sb.WriteString(escape(c.text))
	}
	sb.WriteString("</td>")
}

func writeAttrs(sb *strings.Builder, attrs []Attr) {
	for _, a := range attrs {
		fmt.Fprintf(sb, ` %s="%s"`, a.Key, escapeAttr(a.Value))
	}
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// escape makes s safe inside a cell. Line breaks are kept as <br/>.
func escape(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = textEscaper.Replace(l)
	}
	return strings.Join(lines, "<br/>")
}

func escapeAttr(s string) string {
	return strings.ReplaceAll(textEscaper.Replace(s), `"`, "&quot;")
}
