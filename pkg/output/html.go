package output

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
)

// prolog matches the XML declaration and DOCTYPE Graphviz puts in front of
// an SVG document. Both are invalid inside an HTML body.
var prolog = regexp.MustCompile(`^<[?]xml [^?>]*[?]>[^<]*<!DOCTYPE [^>]*>`)

const prologReplacement = "<!-- XML and DOCTYPE declarations from SVG file removed -->"

// StripProlog removes the XML and DOCTYPE declarations from svg.
func StripProlog(svg []byte) []byte {
	return prolog.ReplaceAll(svg, []byte(prologReplacement))
}

// WriteHTML writes a standalone page with the diagram and the BOM table.
// rows is the output of bom.List: a header row followed by the items.
func WriteHTML(w io.Writer, svg []byte, rows [][]string) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("<!DOCTYPE html>\n")
	bw.WriteString(`<html><head><meta charset="UTF-8"></head><body style="font-family:Arial">`)

	bw.WriteString("<h1>Diagram</h1>")
	bw.Write(StripProlog(svg))

	bw.WriteString("<h1>Bill of Materials</h1>")
	bw.WriteString(`<table style="border:1px solid #000000; font-size: 14pt; border-spacing: 0px">`)
	qtyCol := -1
	if len(rows) > 0 {
		bw.WriteString("<tr>")
		for i, h := range rows[0] {
			if h == "Qty" {
				qtyCol = i
			}
			fmt.Fprintf(bw, `<th align="left" style="border:1px solid #000000; padding: 8px">%s</th>`, cellHTML(h))
		}
		bw.WriteString("</tr>")
	}
	for _, row := range rows[min(1, len(rows)):] {
		bw.WriteString("<tr>")
		for i, cell := range row {
			align := ""
			if i == qtyCol {
				align = ` align="right"`
			}
			fmt.Fprintf(bw, `<td%s style="border:1px solid #000000; padding: 4px">%s</td>`, align, cellHTML(cell))
		}
		bw.WriteString("</tr>")
	}
	bw.WriteString("</table>")
	bw.WriteString("</body></html>")
	return bw.Flush()
}

func cellHTML(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "²", "&sup2;")
}
