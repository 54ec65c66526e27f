// Package syntax reads Feval source text into surface trees.
package syntax

import "fmt"

// Token represents the type of a lexical token.
type Token uint

const (
	_EOF Token = iota

	_Name // x, xs', merge_sort
	_Int  // 42

	// Operators, loosest first
	_OrOr   // ||
	_AndAnd // &&
	_Eql    // ==
	_Neq    // !=
	_Lss    // <
	_Leq    // <=
	_Gtr    // >
	_Geq    // >=
	_Cons   // ::
	_Add    // +
	_Sub    // -
	_Mul    // *
	_Not    // !

	// Delimiters
	_Lparen    // (
	_Rparen    // )
	_Lbrack    // [
	_Rbrack    // ]
	_Comma     // ,
	_Bar       // |
	_Assign    // =
	_Arrow     // ->
	_Backslash // \

	// Keywords
	_Fn
	_Let
	_In
	_If
	_Then
	_Else
	_Case
	_Of
	_True
	_False

	tokenCount
)

var tokenNames = [...]string{
	_EOF:  "EOF",
	_Name: "name",
	_Int:  "integer",

	_OrOr:   "||",
	_AndAnd: "&&",
	_Eql:    "==",
	_Neq:    "!=",
	_Lss:    "<",
	_Leq:    "<=",
	_Gtr:    ">",
	_Geq:    ">=",
	_Cons:   "::",
	_Add:    "+",
	_Sub:    "-",
	_Mul:    "*",
	_Not:    "!",

	_Lparen:    "(",
	_Rparen:    ")",
	_Lbrack:    "[",
	_Rbrack:    "]",
	_Comma:     ",",
	_Bar:       "|",
	_Assign:    "=",
	_Arrow:     "->",
	_Backslash: `\`,

	_Fn:    "fn",
	_Let:   "let",
	_In:    "in",
	_If:    "if",
	_Then:  "then",
	_Else:  "else",
	_Case:  "case",
	_Of:    "of",
	_True:  "true",
	_False: "false",
}

func (tok Token) String() string {
	if tok < tokenCount {
		return tokenNames[tok]
	}
	return fmt.Sprintf("Token(%d)", tok)
}

var keywords = map[string]Token{
	"fn":    _Fn,
	"let":   _Let,
	"in":    _In,
	"if":    _If,
	"then":  _Then,
	"else":  _Else,
	"case":  _Case,
	"of":    _Of,
	"true":  _True,
	"false": _False,
	"True":  _True,
	"False": _False,
}

// Pos is a position in a source file. Line and Col are 1-based; Col counts
// bytes.
type Pos struct {
	Filename string
	Line     int
	Col      int
}

func (p Pos) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Col)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}
