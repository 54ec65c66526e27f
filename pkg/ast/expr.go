package ast

// Expr is the fixed point of Node: a finite, immutable expression tree of the
// base language.
type Expr struct {
	node Node[*Expr, *Expr]
}

// Fix wraps one level of nodes whose holes are already trees.
func Fix(n Node[*Expr, *Expr]) *Expr {
	return &Expr{node: n}
}

// Unwrap returns the root node with its children still wrapped.
func (e *Expr) Unwrap() Node[*Expr, *Expr] {
	return e.node
}

// Kind names the kind of the root node.
func (e *Expr) Kind() string {
	return KindOf[*Expr, *Expr](e.node)
}

// Source is the fixed point of Surface: an expression tree as written by the
// user, sugar included.
type Source struct {
	node Surface[*Source, *Source]
}

// Wrap wraps one level of surface nodes.
func Wrap(n Surface[*Source, *Source]) *Source {
	return &Source{node: n}
}

// Unwrap returns the root node with its children still wrapped.
func (s *Source) Unwrap() Surface[*Source, *Source] {
	return s.node
}

// Kind names the kind of the root node.
func (s *Source) Kind() string {
	return KindOf(s.node)
}

// ----------------------------------------------------------------------------
// Constructors for base trees

// tree abbreviates the hole type of base trees.
type tree = *Expr

func IntLit(v int64) *Expr {
	return Fix(Int[tree, tree]{Value: v})
}

func BoolLit(v bool) *Expr {
	return Fix(Bool[tree, tree]{Value: v})
}

func Variable(name string) *Expr {
	return Fix(Var[tree, tree]{Name: name})
}

func Binary(op Op, left, right *Expr) *Expr {
	return Fix(BinOp[tree, tree]{Op: op, Left: left, Right: right})
}

func Invert(x *Expr) *Expr {
	return Fix(Not[tree, tree]{X: x})
}

func Cond(cond, then, els *Expr) *Expr {
	return Fix(If[tree, tree]{Cond: cond, Then: then, Else: els})
}

func Lambda(param string, body *Expr) *Expr {
	return Fix(Fn[tree, tree]{Param: param, Body: body})
}

func Apply(fn, arg *Expr) *Expr {
	return Fix(App[tree, tree]{Fn: fn, Arg: arg})
}

func LetIn(name string, bound, body *Expr) *Expr {
	return Fix(Let[tree, tree]{Name: name, Bound: bound, Body: body})
}

func Empty() *Expr {
	return Fix(Nil[tree, tree]{})
}

func Prepend(head, tail *Expr) *Expr {
	return Fix(Cons[tree, tree]{Head: head, Tail: tail})
}

// ListOf builds a Cons chain ending in Nil.
func ListOf(elems ...*Expr) *Expr {
	list := Empty()
	for i := len(elems) - 1; i >= 0; i-- {
		list = Prepend(elems[i], list)
	}
	return list
}

func Match(scrutinee, ifNil *Expr, head, tail string, ifCons *Expr) *Expr {
	return Fix(Case[tree, tree]{Scrutinee: scrutinee, IfNil: ifNil, Head: head, Tail: tail, IfCons: ifCons})
}

// ----------------------------------------------------------------------------
// Copying and substitution

// Clone returns a deep copy of e that shares no nodes with it.
func Clone(e *Expr) *Expr {
	return Fix(Map(e.node, Clone, Clone))
}

// Subst replaces every free occurrence of name in e with a fresh copy of
// repl. Binders that rebind name stop the descent: a Fn parameter, a Let name
// (in both its bound expression and body) and a Case head or tail name (in
// the cons branch).
func Subst(e *Expr, name string, repl *Expr) *Expr {
	sub := func(c *Expr) *Expr {
		return Subst(c, name, repl)
	}
	switch n := e.node.(type) {
	case Var[tree, tree]:
		if n.Name == name {
			return Clone(repl)
		}
		return e
	case Fn[tree, tree]:
		if n.Param == name {
			return e
		}
	case Let[tree, tree]:
		if n.Name == name {
			return e
		}
	case Case[tree, tree]:
		ifCons := n.IfCons
		if n.Head != name && n.Tail != name {
			ifCons = sub(ifCons)
		}
		return Match(sub(n.Scrutinee), sub(n.IfNil), n.Head, n.Tail, ifCons)
	}
	return Fix(Map(e.node, sub, sub))
}
