package feval

import (
	"context"

	"github.com/vito/feval/pkg/ast"
	"github.com/vito/feval/pkg/cata"
	"github.com/vito/feval/pkg/ioctx"
)

// Result is the outcome of evaluating one subtree.
type Result = cata.Result[Value]

// lazy is the hole type of subtrees the evaluator folds on demand.
type lazy = *ast.Expr

// EvalStep is the evaluation rule for one node. Strict holes arrive already
// evaluated; lazy holes are evaluated with fold, and only when needed.
func EvalStep(fold func(*ast.Expr) Result, n ast.Node[Result, lazy]) Result {
	switch n := n.(type) {
	case ast.Int[Result, lazy]:
		return cata.Ok[Value](IntValue(n.Value))

	case ast.Bool[Result, lazy]:
		return cata.Ok[Value](BoolValue(n.Value))

	case ast.Var[Result, lazy]:
		return fail(evalErrorf(FreeVariable, "%s is not bound", n.Name))

	case ast.BinOp[Result, lazy]:
		return cata.Bind2(n.Left, n.Right, func(l, r Value) Result {
			return applyOp(n.Op, l, r)
		})

	case ast.Not[Result, lazy]:
		return cata.Bind(n.X, func(x Value) Result {
			b, ok := x.(BoolValue)
			if !ok {
				return fail(evalErrorf(TypeMismatch, "! expects Bool, got %s", describe(x)))
			}
			return cata.Ok[Value](!b)
		})

	case ast.If[Result, lazy]:
		return cata.Bind(n.Cond, func(c Value) Result {
			b, ok := c.(BoolValue)
			if !ok {
				return fail(evalErrorf(TypeMismatch, "if condition must be Bool, got %s", describe(c)))
			}
			if b {
				return fold(n.Then)
			}
			return fold(n.Else)
		})

	case ast.Fn[Result, lazy]:
		return cata.Ok[Value](FnValue{Param: n.Param, Body: n.Body})

	case ast.App[Result, lazy]:
		return cata.Bind(fold(n.Fn), func(f Value) Result {
			fn, ok := f.(FnValue)
			if !ok {
				return fail(evalErrorf(NotAFunction, "cannot apply %s", describe(f)))
			}
			return cata.Bind(fold(n.Arg), func(arg Value) Result {
				return fold(ast.Subst(fn.Body, fn.Param, arg.Expr()))
			})
		})

	case ast.Let[Result, lazy]:
		// Every self-reference in the bound expression becomes the whole
		// definition again, so recursion unrolls one level per use.
		self := ast.LetIn(n.Name, n.Bound, ast.Variable(n.Name))
		bound := ast.Subst(n.Bound, n.Name, self)
		return cata.Bind(fold(bound), func(v Value) Result {
			return fold(ast.Subst(n.Body, n.Name, v.Expr()))
		})

	case ast.Nil[Result, lazy]:
		return cata.Ok[Value](ListValue{})

	case ast.Cons[Result, lazy]:
		return cata.Bind2(n.Head, n.Tail, func(h, t Value) Result {
			tail, ok := t.(ListValue)
			if !ok {
				return fail(evalErrorf(TypeMismatch, ":: expects a list on the right, got %s", describe(t)))
			}
			list := make(ListValue, 0, len(tail)+1)
			list = append(list, h)
			return cata.Ok[Value](append(list, tail...))
		})

	case ast.Case[Result, lazy]:
		return cata.Bind(n.Scrutinee, func(s Value) Result {
			list, ok := s.(ListValue)
			if !ok {
				return fail(evalErrorf(TypeMismatch, "case expects a list, got %s", describe(s)))
			}
			if len(list) == 0 {
				return fold(n.IfNil)
			}
			// The tail binding is innermost, so it goes first.
			body := ast.Subst(n.IfCons, n.Tail, list[1:].Expr())
			body = ast.Subst(body, n.Head, list[0].Expr())
			return fold(body)
		})
	}

	return fail(evalErrorf(TypeMismatch, "cannot evaluate %s", ast.KindOf[Result, lazy](n)))
}

func applyOp(op ast.Op, l, r Value) Result {
	if op.Logical() {
		lb, lok := l.(BoolValue)
		rb, rok := r.(BoolValue)
		if !lok || !rok {
			return fail(evalErrorf(TypeMismatch, "%s expects Bool operands, got %s and %s", op.Symbol(), describe(l), describe(r)))
		}
		if op == ast.And {
			return cata.Ok[Value](lb && rb)
		}
		return cata.Ok[Value](lb || rb)
	}

	li, lok := l.(IntValue)
	ri, rok := r.(IntValue)
	if !lok || !rok {
		return fail(evalErrorf(TypeMismatch, "%s expects Int operands, got %s and %s", op.Symbol(), describe(l), describe(r)))
	}
	switch op {
	case ast.Add:
		return cata.Ok[Value](li + ri)
	case ast.Sub:
		return cata.Ok[Value](li - ri)
	case ast.Mul:
		return cata.Ok[Value](li * ri)
	case ast.Equal:
		return cata.Ok[Value](BoolValue(li == ri))
	case ast.LessThan:
		return cata.Ok[Value](BoolValue(li < ri))
	}
	return fail(evalErrorf(TypeMismatch, "unknown operator %s", op))
}

func fail(err error) Result {
	return cata.Fail[Value](err)
}

// Evaluator evaluates trees under a configured limit.
type Evaluator struct {
	// MaxDepth bounds how deeply lazy holes may nest during evaluation, e.g.
	// through recursive calls. Zero means unlimited.
	MaxDepth int
}

// Eval reduces e to a value. Evaluation stops early when ctx is canceled.
func (ev Evaluator) Eval(ctx context.Context, e *ast.Expr) (Value, error) {
	var depth, deepest, folds int

	var fold func(*ast.Expr) Result
	rule := func(n ast.Node[Result, lazy]) Result {
		return EvalStep(fold, n)
	}
	fold = func(e *ast.Expr) Result {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		depth++
		defer func() { depth-- }()
		folds++
		deepest = max(deepest, depth)
		if ev.MaxDepth > 0 && depth > ev.MaxDepth {
			return fail(evalErrorf(DepthExceeded, "evaluation nested deeper than %d", ev.MaxDepth))
		}
		return cata.FoldFailableLazy(rule, e)
	}

	v, err := fold(e).Get()
	ioctx.LoggerFromContext(ctx).DebugContext(ctx, "evaluated", "folds", folds, "depth", deepest, "err", err)
	return v, err
}

// Evaluate reduces e to a value with no depth limit.
func Evaluate(e *ast.Expr) (Value, error) {
	return Evaluator{}.Eval(context.Background(), e)
}
