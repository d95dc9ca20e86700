package bom

import (
	"strconv"
	"strings"
)

// Column is one column of the tabular BOM.
type Column struct {
	Header string
	value  func(Item) string
	// optional columns are only listed when at least one item has a value
	optional bool
}

var columns = []Column{
	{Header: "Item", value: func(i Item) string { return i.Name }},
	{Header: "Qty", value: qtyText},
	{Header: "Unit", value: func(i Item) string { return i.Unit }},
	{Header: "Designators", value: func(i Item) string { return strings.Join(i.Designators, ", ") }},
	{Header: "P/N", value: func(i Item) string { return i.PN }, optional: true},
	{Header: "Manufacturer", value: func(i Item) string { return i.Manufacturer }, optional: true},
	{Header: "MPN", value: func(i Item) string { return i.MPN }, optional: true},
}

// FormatQty prints a quantity without trailing zeros.
func FormatQty(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// qtyText leaves the quantity of an additional item blank when none was given.
func qtyText(i Item) string {
	if i.Key.Kind == KindExtra && i.Qty == 0 {
		return ""
	}
	return FormatQty(i.Qty)
}

// List turns items into rows of text. The first row is the header. The P/N,
// Manufacturer and MPN columns are only present when some item uses them.
func List(items []Item) [][]string {
	var used []Column
	for _, c := range columns {
		if c.optional && !anyValue(items, c) {
			continue
		}
		used = append(used, c)
	}

	rows := make([][]string, 0, len(items)+1)
	header := make([]string, len(used))
	for i, c := range used {
		header[i] = c.Header
	}
	rows = append(rows, header)

	for _, item := range items {
		row := make([]string, len(used))
		for i, c := range used {
			row[i] = c.value(item)
		}
		rows = append(rows, row)
	}
	return rows
}

func anyValue(items []Item, c Column) bool {
	for _, item := range items {
		if c.value(item) != "" {
			return true
		}
	}
	return false
}

// TSV renders rows as tab separated text, one line per row. Tabs and line
// breaks inside cells are replaced by spaces.
func TSV(rows [][]string) string {
	var sb strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteByte('\t')
			}
			sb.WriteString(cellEscaper.Replace(cell))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

var cellEscaper = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ")
