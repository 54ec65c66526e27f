// Package cata implements catamorphisms over Feval expression trees: generic
// bottom-up folds driven by a caller-supplied combining rule.
//
// The four folds differ in what the rule receives:
//
//	Fold              every hole already folded
//	FoldFailable      every hole already folded, as a Result
//	FoldLazy          strict holes folded, lazy holes as unevaluated *ast.Expr
//	FoldFailableLazy  strict holes folded as Results, lazy holes unevaluated
//
// FoldCounter is FoldFailableLazy with a Counter threaded through the
// traversal, for rules that need fresh identifiers.
package cata

import "github.com/vito/feval/pkg/ast"

// Fold folds every child of e, then applies rule to the node holding the
// results.
func Fold[A any](rule func(ast.Node[A, A]) A, e *ast.Expr) A {
	rec := func(c *ast.Expr) A {
		return Fold(rule, c)
	}
	return rule(ast.Map(e.Unwrap(), rec, rec))
}

// FoldFailable is Fold with results that may have failed. A failed child is
// still passed to the rule, which decides how to combine it.
func FoldFailable[A any](rule func(ast.Node[Result[A], Result[A]]) Result[A], e *ast.Expr) Result[A] {
	return Fold(rule, e)
}

// FoldLazy folds only the strict holes of e before applying rule. Lazy holes
// reach the rule unevaluated; the rule folds the ones it needs by calling
// FoldLazy again.
func FoldLazy[A any](rule func(ast.Node[A, *ast.Expr]) A, e *ast.Expr) A {
	rec := func(c *ast.Expr) A {
		return FoldLazy(rule, c)
	}
	return rule(ast.Map(e.Unwrap(), rec, keep))
}

// FoldFailableLazy is FoldLazy with results that may have failed.
func FoldFailableLazy[A any](rule func(ast.Node[Result[A], *ast.Expr]) Result[A], e *ast.Expr) Result[A] {
	return FoldLazy(rule, e)
}

// FoldSurface folds a source tree, sugar included.
func FoldSurface[A any](rule func(ast.Surface[A, A]) A, s *ast.Source) A {
	rec := func(c *ast.Source) A {
		return FoldSurface(rule, c)
	}
	return rule(ast.MapSurface(s.Unwrap(), rec, rec))
}

func keep(e *ast.Expr) *ast.Expr {
	return e
}
