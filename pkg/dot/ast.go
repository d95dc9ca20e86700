package dot

import "strings"

// File is a DOT document. Graphviz writes one graph per document.
type File struct {
	Graph *Graph `@@`
}

// Graph is the top-level graph.
// Example: strict digraph G { ... }
type Graph struct {
	Strict bool    `@"strict"?`
	Kind   string  `@( "graph" | "digraph" )`
	ID     *Value  `@@?`
	Stmts  []*Stmt `"{" ( @@ ";"? )* "}"`
}

// Stmt is one statement of a graph body.
type Stmt struct {
	Attr     *AttrStmt   `  @@`
	Subgraph *Subgraph   `| @@`
	Assign   *Assign     `| @@`
	Chain    *NodeOrEdge `| @@`
}

// AttrStmt sets defaults for the graph, its nodes or its edges.
// Example: node [shape=box];
type AttrStmt struct {
	Kind  string      `@( "graph" | "node" | "edge" )`
	Lists []*AttrList `@@+`
}

// AttrList is a bracketed attribute list.
type AttrList struct {
	Attrs []*Attr `"[" ( @@ ( ";" | "," )? )* "]"`
}

// Attr is key=value. A key without value is allowed by the grammar.
type Attr struct {
	Key   *Value `@@`
	Value *Value `( "=" @@ )?`
}

// Assign is a graph attribute written as a statement.
// Example: rankdir=LR;
type Assign struct {
	Key   *Value `@@ "="`
	Value *Value `@@`
}

// NodeOrEdge is a node statement, or an edge chain when Tail is not empty.
// Example: X1:p1r -- W1:w1 [pos="..."];
type NodeOrEdge struct {
	Head  *NodeID     `@@`
	Tail  []*EdgeRHS  `@@*`
	Lists []*AttrList `@@*`
}

// EdgeRHS is one hop of an edge chain.
type EdgeRHS struct {
	Op   string  `@EdgeOp`
	Node *NodeID `@@`
}

// NodeID is a node reference with optional port and compass point.
type NodeID struct {
	ID      *Value `@@`
	Port    *Value `( ":" @@`
	Compass *Value `  ( ":" @@ )? )?`
}

// Subgraph is flattened into its parent when converted.
type Subgraph struct {
	ID    *Value  `"subgraph" @@?`
	Stmts []*Stmt `"{" ( @@ ";"? )* "}"`
}

// Value is a DOT identifier: a name, a number, a quoted string or an
// HTML-like string.
type Value struct {
	HTML   *HTML   `  @@`
	String *string `| @String`
	Number *string `| @Number`
	Ident  *string `| @Ident`
}

// Text returns the value with quoting removed. Quoted strings lose their
// line continuations and escaped quotes; other escapes such as \N are kept.
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.HTML != nil:
		return v.HTML.String()
	case v.String != nil:
		return unquote(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Ident != nil:
		return *v.Ident
	}
	return ""
}

// IsHTML reports whether the value is an HTML-like string.
func (v *Value) IsHTML() bool {
	return v != nil && v.HTML != nil
}

// HTML is an HTML-like string: <...> with balanced brackets.
type HTML struct {
	Parts []*HTMLPart `LAngle @@* HTMLClose`
}

// HTMLPart is text or a bracketed element inside an HTML-like string.
type HTMLPart struct {
	Text   *string     `  @HTMLText`
	Nested *HTMLNested `| @@`
}

// HTMLNested is one <...> element, including its own nested parts.
type HTMLNested struct {
	Parts []*HTMLPart `HTMLOpen @@* HTMLClose`
}

// String rebuilds the label body without the outer brackets.
func (h *HTML) String() string {
	var sb strings.Builder
	writeParts(&sb, h.Parts)
	return sb.String()
}

func writeParts(sb *strings.Builder, parts []*HTMLPart) {
	for _, p := range parts {
		switch {
		case p.Text != nil:
			sb.WriteString(*p.Text)
		case p.Nested != nil:
			sb.WriteByte('<')
			writeParts(sb, p.Nested.Parts)
			sb.WriteByte('>')
		}
	}
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, "\\\r\n", "")
	s = strings.ReplaceAll(s, "\\\n", "")
	return strings.ReplaceAll(s, `\"`, `"`)
}
