package syntax

import "strconv"

// scanner splits source text into tokens.
type scanner struct {
	filename string
	src      string

	off  int // offset of the next unread byte
	line int
	col  int

	tok    Token
	lit    string
	tokPos Pos
}

func newScanner(filename, src string) *scanner {
	return &scanner{filename: filename, src: src, line: 1, col: 1}
}

func (s *scanner) pos() Pos {
	return Pos{Filename: s.filename, Line: s.line, Col: s.col}
}

// peek returns the byte at offset i from the next unread byte, or 0 past the
// end.
func (s *scanner) peek(i int) byte {
	if s.off+i < len(s.src) {
		return s.src[s.off+i]
	}
	return 0
}

func (s *scanner) advance(n int) {
	for ; n > 0 && s.off < len(s.src); n-- {
		if s.src[s.off] == '\n' {
			s.line++
			s.col = 1
		} else {
			s.col++
		}
		s.off++
	}
}

func (s *scanner) skipSpaceAndComments() {
	for s.off < len(s.src) {
		switch ch := s.src[s.off]; {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			s.advance(1)
		case ch == '#':
			for s.off < len(s.src) && s.src[s.off] != '\n' {
				s.advance(1)
			}
		default:
			return
		}
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// two-character operators, checked before single characters.
var digraphs = map[string]Token{
	"||": _OrOr,
	"&&": _AndAnd,
	"==": _Eql,
	"!=": _Neq,
	"<=": _Leq,
	">=": _Geq,
	"::": _Cons,
	"->": _Arrow,
}

var singles = map[byte]Token{
	'<':  _Lss,
	'>':  _Gtr,
	'+':  _Add,
	'-':  _Sub,
	'*':  _Mul,
	'!':  _Not,
	'(':  _Lparen,
	')':  _Rparen,
	'[':  _Lbrack,
	']':  _Rbrack,
	',':  _Comma,
	'|':  _Bar,
	'=':  _Assign,
	'\\': _Backslash,
}

// next scans the next token. It returns an error for a character that starts
// no token.
func (s *scanner) next() error {
	s.skipSpaceAndComments()
	s.tokPos = s.pos()
	s.lit = ""

	if s.off >= len(s.src) {
		s.tok = _EOF
		return nil
	}

	ch := s.src[s.off]
	switch {
	case isLetter(ch):
		start := s.off
		for isLetter(s.peek(0)) || isDigit(s.peek(0)) || s.peek(0) == '\'' {
			s.advance(1)
		}
		s.lit = s.src[start:s.off]
		if kw, ok := keywords[s.lit]; ok {
			s.tok = kw
		} else {
			s.tok = _Name
		}
		return nil

	case isDigit(ch):
		start := s.off
		for isDigit(s.peek(0)) {
			s.advance(1)
		}
		s.lit = s.src[start:s.off]
		s.tok = _Int
		return nil
	}

	if s.off+1 < len(s.src) {
		if tok, ok := digraphs[s.src[s.off:s.off+2]]; ok {
			s.lit = s.src[s.off : s.off+2]
			s.tok = tok
			s.advance(2)
			return nil
		}
	}
	if tok, ok := singles[ch]; ok {
		s.lit = string(ch)
		s.tok = tok
		s.advance(1)
		return nil
	}

	err := &Error{Pos: s.tokPos, Msg: "unexpected character " + strconv.QuoteRune(rune(ch))}
	s.advance(1)
	return err
}
