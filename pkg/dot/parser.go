// Package dot reads graphs written by Graphviz, in particular the laid-out
// output of "dot -Tdot" where every edge carries its computed pos.
package dot

import (
	"fmt"

	"github.com/alecthomas/participle/v2"

	"github.com/OpenTraceLab/OpenTraceHarness/pkg/graph"
)

// Parser represents a DOT parser
type Parser struct {
	parser *participle.Parser[File]
}

// NewParser creates a new DOT parser instance
func NewParser() (*Parser, error) {
	parser, err := participle.Build[File](
		participle.Lexer(DOTLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.UseLookahead(4),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	return &Parser{parser: parser}, nil
}

// ParseString parses DOT from a string.
func (p *Parser) ParseString(input string) (*graph.Graph, error) {
	f, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return Convert(f)
}
