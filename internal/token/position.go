// Package token carries source locations through the semantic analysis
// core. The core never tokenizes source text itself (that is the
// lexer's job, out of scope here); it only needs a stable, comparable
// handle on "where" so diagnostics can point back at source.
package token

import "fmt"

// Position identifies a point in a source file. The lexer/parser that
// produced the AST is responsible for filling these in; the core only
// threads them through.
type Position struct {
	File   string
	Line   int
	Column int
}

// NoPosition is used for synthesized definitions (builtins, inherited
// bindings) that have no source location of their own.
var NoPosition = Position{}

func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if !p.IsValid() {
		return "<unknown>"
	}
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}
