package cata

import "github.com/vito/feval/pkg/ast"

// Counter issues fresh integer handles. It is a plain value: every step
// receives the current counter and returns the advanced one, so issuance
// follows traversal order exactly.
type Counter int

// NewHandle returns the next handle and the advanced counter.
func (c Counter) NewHandle() (int, Counter) {
	return int(c), c + 1
}

// FoldCounter is FoldFailableLazy with a Counter threaded through it. Strict
// holes are folded first, in field order, each continuing from the counter
// the previous one returned; the rule then receives the counter and may issue
// handles and fold lazy holes with FoldCounter before returning it.
func FoldCounter[A any](rule func(ast.Node[Result[A], *ast.Expr], Counter) (Result[A], Counter), e *ast.Expr, c Counter) (Result[A], Counter) {
	rec := func(child *ast.Expr) Result[A] {
		var r Result[A]
		r, c = FoldCounter(rule, child, c)
		return r
	}
	n := ast.Map(e.Unwrap(), rec, keep)
	return rule(n, c)
}
