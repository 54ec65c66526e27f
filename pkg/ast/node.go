// Package ast defines the open, one-level node shapes of Feval expressions and
// the fixed points that tie them into finite trees.
//
// Every node struct is generic over two hole types. S is the type of strict
// holes, which a generic fold always processes before the node's combining
// rule runs. L is the type of lazy holes, which lazy folds hand to the rule
// untouched. A tree node fills both with *Expr; a fold result fills S with
// its result type and, for lazy folds, leaves L as *Expr.
package ast

import "fmt"

// Op is a binary operator.
type Op int

const (
	And Op = iota
	Or
	Add
	Sub
	Mul
	Equal
	LessThan
)

var opNames = [...]string{
	And:      "And",
	Or:       "Or",
	Add:      "Add",
	Sub:      "Sub",
	Mul:      "Mul",
	Equal:    "Equal",
	LessThan: "LessThan",
}

var opSymbols = [...]string{
	And:      "&&",
	Or:       "||",
	Add:      "+",
	Sub:      "-",
	Mul:      "*",
	Equal:    "==",
	LessThan: "<",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// Symbol returns the operator as written in source.
func (op Op) Symbol() string {
	if int(op) < len(opSymbols) {
		return opSymbols[op]
	}
	return "?"
}

// Arithmetic reports whether op maps two Ints to an Int.
func (op Op) Arithmetic() bool {
	return op == Add || op == Sub || op == Mul
}

// Comparison reports whether op maps two Ints to a Bool.
func (op Op) Comparison() bool {
	return op == Equal || op == LessThan
}

// Logical reports whether op maps two Bools to a Bool.
func (op Op) Logical() bool {
	return op == And || op == Or
}

// Surface is any node of the full source language: the base kinds plus the
// sugar that the translator removes.
type Surface[S, L any] interface {
	surface(S, L)
}

// Node is a node of the base language that the evaluator and the type
// checker understand.
type Node[S, L any] interface {
	Surface[S, L]
	base(S, L)
}

// ----------------------------------------------------------------------------
// Base kinds

// Int is an integer literal.
type Int[S, L any] struct {
	Value int64
}

// Bool is a boolean literal.
type Bool[S, L any] struct {
	Value bool
}

// Var is a reference to a bound name.
type Var[S, L any] struct {
	Name string
}

// BinOp applies a binary operator to two strictly evaluated operands.
type BinOp[S, L any] struct {
	Op    Op
	Left  S
	Right S
}

// Not negates a boolean.
type Not[S, L any] struct {
	X S
}

// If selects one of two lazy branches.
type If[S, L any] struct {
	Cond S
	Then L
	Else L
}

// Fn is a one-parameter function. Its body is lazy.
type Fn[S, L any] struct {
	Param string
	Body  L
}

// App applies a function to an argument. Both are lazy so that the rule
// controls the order in which they are folded.
type App[S, L any] struct {
	Fn  L
	Arg L
}

// Let binds Name to Bound within Body. Name is also in scope within Bound,
// which makes recursive definitions possible.
type Let[S, L any] struct {
	Name  string
	Bound L
	Body  L
}

// Nil is the empty list.
type Nil[S, L any] struct{}

// Cons prepends Head to the list Tail.
type Cons[S, L any] struct {
	Head S
	Tail S
}

// Case inspects a list. IfCons sees the head and tail bound to Head and Tail.
type Case[S, L any] struct {
	Scrutinee S
	IfNil     L
	Head      string
	Tail      string
	IfCons    L
}

func (Int[S, L]) base(S, L)   {}
func (Bool[S, L]) base(S, L)  {}
func (Var[S, L]) base(S, L)   {}
func (BinOp[S, L]) base(S, L) {}
func (Not[S, L]) base(S, L)   {}
func (If[S, L]) base(S, L)    {}
func (Fn[S, L]) base(S, L)    {}
func (App[S, L]) base(S, L)   {}
func (Let[S, L]) base(S, L)   {}
func (Nil[S, L]) base(S, L)   {}
func (Cons[S, L]) base(S, L)  {}
func (Case[S, L]) base(S, L)  {}

func (Int[S, L]) surface(S, L)   {}
func (Bool[S, L]) surface(S, L)  {}
func (Var[S, L]) surface(S, L)   {}
func (BinOp[S, L]) surface(S, L) {}
func (Not[S, L]) surface(S, L)   {}
func (If[S, L]) surface(S, L)    {}
func (Fn[S, L]) surface(S, L)    {}
func (App[S, L]) surface(S, L)   {}
func (Let[S, L]) surface(S, L)   {}
func (Nil[S, L]) surface(S, L)   {}
func (Cons[S, L]) surface(S, L)  {}
func (Case[S, L]) surface(S, L)  {}

// ----------------------------------------------------------------------------
// Sugar kinds

// LessEq is x <= y.
type LessEq[S, L any] struct {
	Left  S
	Right S
}

// Greater is x > y.
type Greater[S, L any] struct {
	Left  S
	Right S
}

// GreaterEq is x >= y.
type GreaterEq[S, L any] struct {
	Left  S
	Right S
}

// NotEqual is x != y.
type NotEqual[S, L any] struct {
	Left  S
	Right S
}

// Neg is unary minus.
type Neg[S, L any] struct {
	X S
}

// List is a list literal.
type List[S, L any] struct {
	Elems []S
}

func (LessEq[S, L]) surface(S, L)    {}
func (Greater[S, L]) surface(S, L)   {}
func (GreaterEq[S, L]) surface(S, L) {}
func (NotEqual[S, L]) surface(S, L)  {}
func (Neg[S, L]) surface(S, L)       {}
func (List[S, L]) surface(S, L)      {}

// ----------------------------------------------------------------------------
// Functor maps

// Map rebuilds n with every strict hole passed through fs and every lazy hole
// through fl. Holes are visited in field order, left to right.
func Map[S, L, S2, L2 any](n Node[S, L], fs func(S) S2, fl func(L) L2) Node[S2, L2] {
	switch n := n.(type) {
	case Int[S, L]:
		return Int[S2, L2]{Value: n.Value}
	case Bool[S, L]:
		return Bool[S2, L2]{Value: n.Value}
	case Var[S, L]:
		return Var[S2, L2]{Name: n.Name}
	case BinOp[S, L]:
		left := fs(n.Left)
		right := fs(n.Right)
		return BinOp[S2, L2]{Op: n.Op, Left: left, Right: right}
	case Not[S, L]:
		return Not[S2, L2]{X: fs(n.X)}
	case If[S, L]:
		cond := fs(n.Cond)
		then := fl(n.Then)
		els := fl(n.Else)
		return If[S2, L2]{Cond: cond, Then: then, Else: els}
	case Fn[S, L]:
		return Fn[S2, L2]{Param: n.Param, Body: fl(n.Body)}
	case App[S, L]:
		fn := fl(n.Fn)
		arg := fl(n.Arg)
		return App[S2, L2]{Fn: fn, Arg: arg}
	case Let[S, L]:
		bound := fl(n.Bound)
		body := fl(n.Body)
		return Let[S2, L2]{Name: n.Name, Bound: bound, Body: body}
	case Nil[S, L]:
		return Nil[S2, L2]{}
	case Cons[S, L]:
		head := fs(n.Head)
		tail := fs(n.Tail)
		return Cons[S2, L2]{Head: head, Tail: tail}
	case Case[S, L]:
		scrutinee := fs(n.Scrutinee)
		ifNil := fl(n.IfNil)
		ifCons := fl(n.IfCons)
		return Case[S2, L2]{Scrutinee: scrutinee, IfNil: ifNil, Head: n.Head, Tail: n.Tail, IfCons: ifCons}
	}
	panic(fmt.Sprintf("ast.Map: unhandled node %T", n))
}

// MapSurface is Map for the full source language.
func MapSurface[S, L, S2, L2 any](n Surface[S, L], fs func(S) S2, fl func(L) L2) Surface[S2, L2] {
	switch n := n.(type) {
	case Node[S, L]:
		return Map(n, fs, fl)
	case LessEq[S, L]:
		left := fs(n.Left)
		right := fs(n.Right)
		return LessEq[S2, L2]{Left: left, Right: right}
	case Greater[S, L]:
		left := fs(n.Left)
		right := fs(n.Right)
		return Greater[S2, L2]{Left: left, Right: right}
	case GreaterEq[S, L]:
		left := fs(n.Left)
		right := fs(n.Right)
		return GreaterEq[S2, L2]{Left: left, Right: right}
	case NotEqual[S, L]:
		left := fs(n.Left)
		right := fs(n.Right)
		return NotEqual[S2, L2]{Left: left, Right: right}
	case Neg[S, L]:
		return Neg[S2, L2]{X: fs(n.X)}
	case List[S, L]:
		elems := make([]S2, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = fs(e)
		}
		return List[S2, L2]{Elems: elems}
	}
	panic(fmt.Sprintf("ast.MapSurface: unhandled node %T", n))
}

// KindOf names the kind of a node, e.g. "BinOp" or "LessEq".
func KindOf[S, L any](n Surface[S, L]) string {
	switch n.(type) {
	case Int[S, L]:
		return "Int"
	case Bool[S, L]:
		return "Bool"
	case Var[S, L]:
		return "Var"
	case BinOp[S, L]:
		return "BinOp"
	case Not[S, L]:
		return "Not"
	case If[S, L]:
		return "If"
	case Fn[S, L]:
		return "Fn"
	case App[S, L]:
		return "App"
	case Let[S, L]:
		return "Let"
	case Nil[S, L]:
		return "Nil"
	case Cons[S, L]:
		return "Cons"
	case Case[S, L]:
		return "Case"
	case LessEq[S, L]:
		return "LessEq"
	case Greater[S, L]:
		return "Greater"
	case GreaterEq[S, L]:
		return "GreaterEq"
	case NotEqual[S, L]:
		return "NotEqual"
	case Neg[S, L]:
		return "Neg"
	case List[S, L]:
		return "List"
	}
	return fmt.Sprintf("%T", n)
}

// Children returns the holes of a node whose strict and lazy holes share a
// type, in field order.
func Children[A any](n Node[A, A]) []A {
	var children []A
	collect := func(c A) A {
		children = append(children, c)
		return c
	}
	Map(n, collect, collect)
	return children
}
