package graph

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// WriteDOT writes g in Graphviz DOT syntax.
func (g *Graph) WriteDOT(w io.Writer) error {
	_, err := io.WriteString(w, g.String())
	return err
}

// String returns g in Graphviz DOT syntax. Attributes are sorted by key so
// the output is stable.
func (g *Graph) String() string {
	var sb strings.Builder

	kind, op := "graph", "--"
	if g.Directed {
		kind, op = "digraph", "->"
	}
	if g.Name != "" {
		fmt.Fprintf(&sb, "%s %s {\n", kind, quote(g.Name))
	} else {
		fmt.Fprintf(&sb, "%s {\n", kind)
	}

	for _, def := range []struct {
		kind  string
		attrs Attributes
	}{
		{"graph", g.Attrs},
		{"node", g.NodeDefaults},
		{"edge", g.EdgeDefaults},
	} {
		if len(def.attrs) > 0 {
			fmt.Fprintf(&sb, "\t%s [%s];\n", def.kind, formatAttrs(def.attrs, nil))
		}
	}

	for _, n := range g.Nodes {
		var extra []string
		if n.Label != nil {
			extra = append(extra, "label=<"+n.Label.HTML()+">")
		}
		attrs := n.Attrs
		if n.Label != nil && attrs["label"] != "" {
			attrs = attrs.Clone()
			delete(attrs, "label")
		}
		if s := formatAttrs(attrs, extra); s != "" {
			fmt.Fprintf(&sb, "\t%s [%s];\n", quote(n.ID), s)
		} else {
			fmt.Fprintf(&sb, "\t%s;\n", quote(n.ID))
		}
	}

	for _, e := range g.Edges {
		attrs := e.Attrs
		if len(e.Path) > 0 {
			attrs = attrs.Clone()
			attrs["pos"] = e.Path.String()
		}
		if s := formatAttrs(attrs, nil); s != "" {
			fmt.Fprintf(&sb, "\t%s %s %s [%s];\n", e.From, op, e.To, s)
		} else {
			fmt.Fprintf(&sb, "\t%s %s %s;\n", e.From, op, e.To)
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

func formatAttrs(attrs Attributes, extra []string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := append([]string(nil), extra...)
	for _, k := range keys {
		parts = append(parts, k+"="+quote(attrs[k]))
	}
	return strings.Join(parts, ", ")
}

// quote returns s as a DOT double-quoted string.
func quote(s string) string {
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
