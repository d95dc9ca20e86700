package dot

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// DOTLexer tokenizes Graphviz DOT as written by the layout engine.
//
// HTML-like labels are delimited by balanced angle brackets, so they get
// their own lexer state: every '<' pushes it and every '>' pops it. Text
// between brackets is kept verbatim.
var DOTLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// C and C++ style comments, and cpp output lines
		{Name: "Comment", Pattern: `/\*(?:[^*]|\*+[^*/])*\*+/|//[^\n]*|#[^\n]*`},
		{Name: "Whitespace", Pattern: `\s+`},

		{Name: "LAngle", Pattern: `<`, Action: lexer.Push("HTML")},

		// Quoted strings may be continued over lines with a backslash
		{Name: "String", Pattern: `"(?:[^"\\]|\\(?s:.))*"`},

		{Name: "EdgeOp", Pattern: `--|->`},
		{Name: "Number", Pattern: `-?(?:\.[0-9]+|[0-9]+(?:\.[0-9]*)?)`},
		{Name: "Ident", Pattern: `[\pL_][\pL\pN_]*`},
		{Name: "Punct", Pattern: `[{}\[\]=;,:]`},
	},
	"HTML": {
		{Name: "HTMLOpen", Pattern: `<`, Action: lexer.Push("HTML")},
		{Name: "HTMLClose", Pattern: `>`, Action: lexer.Pop()},
		{Name: "HTMLText", Pattern: `[^<>]+`},
	},
})
