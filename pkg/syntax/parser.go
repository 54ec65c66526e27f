package syntax

import (
	"errors"
	"strconv"

	"github.com/vito/feval/pkg/ast"
)

// Error represents a syntax error.
type Error struct {
	Pos Pos
	Msg string
	// Incomplete is set when the input ended before the expression did.
	Incomplete bool
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// IsIncomplete reports whether err is a syntax error caused by input ending
// early, so that more input could complete it.
func IsIncomplete(err error) bool {
	var synErr *Error
	return errors.As(err, &synErr) && synErr.Incomplete
}

type node = *ast.Source

// bailout unwinds the parser on the first error.
type bailout struct {
	err *Error
}

// parser performs syntax analysis on Feval source code.
type parser struct {
	scanner *scanner

	tok Token
	lit string
	pos Pos
}

// Parse parses src as a single expression.
func Parse(filename, src string) (tree *ast.Source, err error) {
	p := &parser{scanner: newScanner(filename, src)}

	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			tree, err = nil, b.err
		}
	}()

	p.next()
	tree = p.expr()
	if p.tok != _EOF {
		p.syntaxError("unexpected " + p.describe() + " after expression")
	}
	return tree, nil
}

// ----------------------------------------------------------------------------
// Token navigation

func (p *parser) next() {
	if err := p.scanner.next(); err != nil {
		panic(bailout{err.(*Error)})
	}
	p.tok = p.scanner.tok
	p.lit = p.scanner.lit
	p.pos = p.scanner.tokPos
}

// got reports whether the current token is tok.
// If so, it consumes the token and returns true.
func (p *parser) got(tok Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

// want consumes the current token if it matches tok.
// Otherwise, reports an error.
func (p *parser) want(tok Token) {
	if !p.got(tok) {
		p.syntaxError("expected " + tok.String() + ", found " + p.describe())
	}
}

func (p *parser) describe() string {
	switch p.tok {
	case _EOF:
		return "end of input"
	case _Name:
		return "name " + p.lit
	case _Int:
		return "integer " + p.lit
	}
	return "'" + p.tok.String() + "'"
}

func (p *parser) syntaxError(msg string) {
	panic(bailout{&Error{Pos: p.pos, Msg: msg, Incomplete: p.tok == _EOF}})
}

func (p *parser) name() string {
	if p.tok != _Name {
		p.syntaxError("expected name, found " + p.describe())
	}
	name := p.lit
	p.next()
	return name
}

func (p *parser) names() []string {
	var names []string
	for p.tok == _Name {
		names = append(names, p.lit)
		p.next()
	}
	return names
}

// ----------------------------------------------------------------------------
// Expressions

func (p *parser) expr() node {
	switch p.tok {
	case _Fn, _Backslash:
		p.next()
		params := p.names()
		if len(params) == 0 {
			p.syntaxError("expected parameter name, found " + p.describe())
		}
		p.want(_Arrow)
		return lambdas(params, p.expr())

	case _Let:
		p.next()
		name := p.name()
		params := p.names()
		p.want(_Assign)
		bound := p.expr()
		p.want(_In)
		body := p.expr()
		return ast.Wrap(ast.Let[node, node]{Name: name, Bound: lambdas(params, bound), Body: body})

	case _If:
		p.next()
		cond := p.expr()
		p.want(_Then)
		then := p.expr()
		p.want(_Else)
		els := p.expr()
		return ast.Wrap(ast.If[node, node]{Cond: cond, Then: then, Else: els})

	case _Case:
		p.next()
		scrutinee := p.expr()
		p.want(_Of)
		p.want(_Lbrack)
		p.want(_Rbrack)
		p.want(_Arrow)
		ifNil := p.expr()
		p.want(_Bar)
		head := p.name()
		p.want(_Cons)
		tail := p.name()
		p.want(_Arrow)
		ifCons := p.expr()
		return ast.Wrap(ast.Case[node, node]{
			Scrutinee: scrutinee,
			IfNil:     ifNil,
			Head:      head,
			Tail:      tail,
			IfCons:    ifCons,
		})
	}
	return p.or()
}

func lambdas(params []string, body node) node {
	for i := len(params) - 1; i >= 0; i-- {
		body = ast.Wrap(ast.Fn[node, node]{Param: params[i], Body: body})
	}
	return body
}

func binary(op ast.Op, left, right node) node {
	return ast.Wrap(ast.BinOp[node, node]{Op: op, Left: left, Right: right})
}

func (p *parser) or() node {
	x := p.and()
	for p.got(_OrOr) {
		x = binary(ast.Or, x, p.and())
	}
	return x
}

func (p *parser) and() node {
	x := p.cmp()
	for p.got(_AndAnd) {
		x = binary(ast.And, x, p.cmp())
	}
	return x
}

// cmp parses at most one comparison: comparisons do not chain.
func (p *parser) cmp() node {
	x := p.cons()
	tok := p.tok
	switch tok {
	case _Eql, _Neq, _Lss, _Leq, _Gtr, _Geq:
	default:
		return x
	}
	p.next()
	y := p.cons()
	switch tok {
	case _Eql:
		return binary(ast.Equal, x, y)
	case _Lss:
		return binary(ast.LessThan, x, y)
	case _Neq:
		return ast.Wrap(ast.NotEqual[node, node]{Left: x, Right: y})
	case _Leq:
		return ast.Wrap(ast.LessEq[node, node]{Left: x, Right: y})
	case _Gtr:
		return ast.Wrap(ast.Greater[node, node]{Left: x, Right: y})
	default:
		return ast.Wrap(ast.GreaterEq[node, node]{Left: x, Right: y})
	}
}

// cons is right associative: 1 :: 2 :: [] is 1 :: (2 :: []).
func (p *parser) cons() node {
	x := p.add()
	if p.got(_Cons) {
		return ast.Wrap(ast.Cons[node, node]{Head: x, Tail: p.cons()})
	}
	return x
}

func (p *parser) add() node {
	x := p.mul()
	for {
		switch {
		case p.got(_Add):
			x = binary(ast.Add, x, p.mul())
		case p.got(_Sub):
			x = binary(ast.Sub, x, p.mul())
		default:
			return x
		}
	}
}

func (p *parser) mul() node {
	x := p.unary()
	for p.got(_Mul) {
		x = binary(ast.Mul, x, p.unary())
	}
	return x
}

func (p *parser) unary() node {
	switch {
	case p.got(_Not):
		return ast.Wrap(ast.Not[node, node]{X: p.unary()})
	case p.got(_Sub):
		if p.tok == _Int {
			return p.app(p.intLit("-"))
		}
		return ast.Wrap(ast.Neg[node, node]{X: p.unary()})
	}
	return p.app(p.atom())
}

// app applies fn to every atom that follows.
func (p *parser) app(fn node) node {
	for p.atomStart() {
		fn = ast.Wrap(ast.App[node, node]{Fn: fn, Arg: p.atom()})
	}
	return fn
}

func (p *parser) atomStart() bool {
	switch p.tok {
	case _Int, _True, _False, _Name, _Lparen, _Lbrack:
		return true
	}
	return false
}

func (p *parser) atom() node {
	switch p.tok {
	case _Int:
		return p.intLit("")
	case _True, _False:
		b := p.tok == _True
		p.next()
		return ast.Wrap(ast.Bool[node, node]{Value: b})
	case _Name:
		return ast.Wrap(ast.Var[node, node]{Name: p.name()})
	case _Lparen:
		p.next()
		x := p.expr()
		p.want(_Rparen)
		return x
	case _Lbrack:
		p.next()
		var elems []node
		if p.tok != _Rbrack {
			elems = append(elems, p.expr())
			for p.got(_Comma) {
				elems = append(elems, p.expr())
			}
		}
		p.want(_Rbrack)
		return ast.Wrap(ast.List[node, node]{Elems: elems})
	}
	p.syntaxError("unexpected " + p.describe())
	return nil
}

func (p *parser) intLit(sign string) node {
	v, err := strconv.ParseInt(sign+p.lit, 10, 64)
	if err != nil {
		p.syntaxError("integer literal " + sign + p.lit + " out of range")
	}
	p.next()
	return ast.Wrap(ast.Int[node, node]{Value: v})
}
