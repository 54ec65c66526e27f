package feval

import (
	"maps"
	"slices"

	"github.com/vito/feval/pkg/ast"
	"github.com/vito/feval/pkg/cata"
)

type translated = *ast.Expr

// Translate removes the sugar from a source tree, producing a tree the
// evaluator and checker understand:
//
//	x <= y       (x < y) || (x == y)
//	x > y        !((x < y) || (x == y))
//	x >= y       !(x < y)
//	x != y       !(x == y)
//	-x           0 - x
//	[a, b]       a :: b :: []
//	let x = e    (fn x -> body) e, unless x is free in e
func Translate(s *ast.Source) *ast.Expr {
	return cata.FoldSurface(translateStep, s)
}

func translateStep(n ast.Surface[translated, translated]) *ast.Expr {
	switch n := n.(type) {
	case ast.Let[translated, translated]:
		if slices.Contains(FreeVars(n.Bound), n.Name) {
			return ast.Fix(n)
		}
		return ast.Apply(ast.Lambda(n.Name, n.Body), n.Bound)
	case ast.Node[translated, translated]:
		return ast.Fix(n)
	case ast.LessEq[translated, translated]:
		return lessEq(n.Left, n.Right)
	case ast.Greater[translated, translated]:
		return ast.Invert(lessEq(n.Left, n.Right))
	case ast.GreaterEq[translated, translated]:
		return ast.Invert(ast.Binary(ast.LessThan, n.Left, n.Right))
	case ast.NotEqual[translated, translated]:
		return ast.Invert(ast.Binary(ast.Equal, n.Left, n.Right))
	case ast.Neg[translated, translated]:
		return ast.Binary(ast.Sub, ast.IntLit(0), n.X)
	case ast.List[translated, translated]:
		return ast.ListOf(n.Elems...)
	}
	panic("translate: unhandled node " + ast.KindOf(n))
}

// lessEq uses each operand twice, so the second use gets its own copy.
func lessEq(x, y *ast.Expr) *ast.Expr {
	return ast.Binary(ast.Or,
		ast.Binary(ast.LessThan, x, y),
		ast.Binary(ast.Equal, ast.Clone(x), ast.Clone(y)))
}

type nameSet map[string]struct{}

func (s nameSet) union(others ...nameSet) nameSet {
	u := make(nameSet, len(s))
	maps.Copy(u, s)
	for _, o := range others {
		maps.Copy(u, o)
	}
	return u
}

func (s nameSet) without(names ...string) nameSet {
	w := maps.Clone(s)
	for _, name := range names {
		delete(w, name)
	}
	return w
}

func freeVarsStep(n ast.Node[nameSet, nameSet]) nameSet {
	switch n := n.(type) {
	case ast.Var[nameSet, nameSet]:
		return nameSet{n.Name: {}}
	case ast.Fn[nameSet, nameSet]:
		return n.Body.without(n.Param)
	case ast.Let[nameSet, nameSet]:
		return n.Bound.union(n.Body).without(n.Name)
	case ast.Case[nameSet, nameSet]:
		return n.Scrutinee.union(n.IfNil, n.IfCons.without(n.Head, n.Tail))
	}
	return nameSet{}.union(ast.Children(n)...)
}

// FreeVars returns the names e refers to without binding them, sorted.
func FreeVars(e *ast.Expr) []string {
	return slices.Sorted(maps.Keys(cata.Fold(freeVarsStep, e)))
}

// Size counts the nodes of e.
func Size(e *ast.Expr) int {
	return cata.Fold(func(n ast.Node[int, int]) int {
		size := 1
		for _, c := range ast.Children(n) {
			size += c
		}
		return size
	}, e)
}

// Depth is the length of the longest path from the root of e to a leaf,
// counting nodes.
func Depth(e *ast.Expr) int {
	return cata.Fold(func(n ast.Node[int, int]) int {
		deepest := 0
		for _, c := range ast.Children(n) {
			deepest = max(deepest, c)
		}
		return deepest + 1
	}, e)
}
