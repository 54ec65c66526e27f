package feval

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/vito/feval/pkg/ast"
	"github.com/vito/feval/pkg/cata"
	"github.com/vito/feval/pkg/hm"
	"github.com/vito/feval/pkg/ioctx"
)

// Judgement is what the checker concludes about a subtree: its type, valid
// provided every equation in Eqs holds.
type Judgement struct {
	Type hm.Type
	Eqs  *hm.EquationSet
}

// Checked is the outcome of checking one subtree.
type Checked = cata.Result[Judgement]

func judge(t hm.Type, eqs *hm.EquationSet) Checked {
	return cata.Ok(Judgement{Type: t, Eqs: eqs})
}

func tv(handle int) hm.TypeVariable {
	return hm.TypeVariable(handle)
}

// operandType is the type both operands of op must have.
func operandType(op ast.Op) hm.Type {
	if op.Logical() {
		return hm.Bool
	}
	return hm.Int
}

// resultType is the type op produces.
func resultType(op ast.Op) hm.Type {
	if op.Arithmetic() {
		return hm.Int
	}
	return hm.Bool
}

// InferStep is the checking rule for one node under hyps. Strict holes arrive
// already checked under the same hypotheses; lazy holes are checked here, in
// field order, threading c.
func InferStep(hyps *hm.Hypotheses, n ast.Node[Checked, lazy], c cata.Counter) (Checked, cata.Counter) {
	switch n := n.(type) {
	case ast.Int[Checked, lazy]:
		return judge(hm.Int, hm.NewEquationSet()), c

	case ast.Bool[Checked, lazy]:
		return judge(hm.Bool, hm.NewEquationSet()), c

	case ast.Var[Checked, lazy]:
		if t, ok := hyps.Lookup(n.Name); ok {
			return judge(t, hm.NewEquationSet()), c
		}
		return judge(hm.NotClosed, hm.NewEquationSet(hm.Equation{Left: hm.NotClosed, Right: hm.NotClosed})), c

	case ast.BinOp[Checked, lazy]:
		return cata.Bind2(n.Left, n.Right, func(l, r Judgement) Checked {
			operand := operandType(n.Op)
			eqs := l.Eqs.Union(r.Eqs).With(
				hm.Equation{Left: l.Type, Right: operand},
				hm.Equation{Left: r.Type, Right: operand},
			)
			return judge(resultType(n.Op), eqs)
		}), c

	case ast.Not[Checked, lazy]:
		return cata.Bind(n.X, func(x Judgement) Checked {
			return judge(hm.Bool, x.Eqs.With(hm.Equation{Left: x.Type, Right: hm.Bool}))
		}), c

	case ast.If[Checked, lazy]:
		then, c := infer(hyps, n.Then, c)
		els, c := infer(hyps, n.Else, c)
		return cata.Bind(n.Cond, func(cond Judgement) Checked {
			return cata.Bind2(then, els, func(t, e Judgement) Checked {
				eqs := cond.Eqs.Union(t.Eqs, e.Eqs).With(
					hm.Equation{Left: cond.Type, Right: hm.Bool},
					hm.Equation{Left: t.Type, Right: e.Type},
				)
				return judge(t.Type, eqs)
			})
		}), c

	case ast.Fn[Checked, lazy]:
		param, c := c.NewHandle()
		body, c := infer(hyps.Push(n.Param, tv(param)), n.Body, c)
		return cata.Bind(body, func(b Judgement) Checked {
			return judge(hm.NewFnType(tv(param), b.Type), b.Eqs)
		}), c

	case ast.App[Checked, lazy]:
		ret, c := c.NewHandle()
		fn, c := infer(hyps, n.Fn, c)
		arg, c := infer(hyps, n.Arg, c)
		return cata.Bind2(fn, arg, func(f, a Judgement) Checked {
			eqs := f.Eqs.Union(a.Eqs).With(
				hm.Equation{Left: f.Type, Right: hm.NewFnType(a.Type, tv(ret))},
			)
			return judge(tv(ret), eqs)
		}), c

	case ast.Let[Checked, lazy]:
		// Checked as the application of a function of Name to Bound, with Name
		// also assumed within Bound so recursive definitions check.
		ret, c := c.NewHandle()
		param, c := c.NewHandle()
		inner := hyps.Push(n.Name, tv(param))
		body, c := infer(inner, n.Body, c)
		bound, c := infer(inner, n.Bound, c)
		return cata.Bind2(body, bound, func(body, bound Judgement) Checked {
			eqs := body.Eqs.Union(bound.Eqs).With(hm.Equation{
				Left:  hm.NewFnType(tv(param), body.Type),
				Right: hm.NewFnType(bound.Type, tv(ret)),
			})
			return judge(tv(ret), eqs)
		}), c

	case ast.Nil[Checked, lazy]:
		elem, c := c.NewHandle()
		return judge(hm.ListOf(tv(elem)), hm.NewEquationSet()), c

	case ast.Cons[Checked, lazy]:
		return cata.Bind2(n.Head, n.Tail, func(h, t Judgement) Checked {
			list := hm.ListOf(h.Type)
			return judge(list, h.Eqs.Union(t.Eqs).With(hm.Equation{Left: t.Type, Right: list}))
		}), c

	case ast.Case[Checked, lazy]:
		elem, c := c.NewHandle()
		ifNil, c := infer(hyps, n.IfNil, c)
		consHyps := hyps.Push(n.Head, tv(elem)).Push(n.Tail, hm.ListOf(tv(elem)))
		ifCons, c := infer(consHyps, n.IfCons, c)
		return cata.Bind(n.Scrutinee, func(s Judgement) Checked {
			return cata.Bind2(ifNil, ifCons, func(nilJ, consJ Judgement) Checked {
				eqs := s.Eqs.Union(nilJ.Eqs, consJ.Eqs).With(
					hm.Equation{Left: s.Type, Right: hm.ListOf(tv(elem))},
					hm.Equation{Left: nilJ.Type, Right: consJ.Type},
				)
				return judge(nilJ.Type, eqs)
			})
		}), c
	}

	return cata.Fail[Judgement](errors.Errorf("cannot check %s", ast.KindOf[Checked, lazy](n))), c
}

// infer checks e under hyps, continuing from counter c.
func infer(hyps *hm.Hypotheses, e *ast.Expr, c cata.Counter) (Checked, cata.Counter) {
	return cata.FoldCounter(func(n ast.Node[Checked, lazy], c cata.Counter) (Checked, cata.Counter) {
		return InferStep(hyps, n, c)
	}, e, c)
}

// Infer derives the judgement for e with no hypotheses, issuing handles from
// zero. It returns the counter after the last issued handle.
func Infer(e *ast.Expr) (Judgement, cata.Counter, error) {
	r, c := infer(nil, e, 0)
	return r.Value, c, r.Err
}

// Typecheck computes the principal type of e, or a *TypeError explaining why
// it has none.
func Typecheck(e *ast.Expr) (hm.Type, error) {
	return TypecheckContext(context.Background(), e)
}

// TypecheckContext is Typecheck with a context for logging.
func TypecheckContext(ctx context.Context, e *ast.Expr) (hm.Type, error) {
	j, c, err := Infer(e)
	if err != nil {
		return nil, errors.Wrap(err, "infer")
	}

	closed := hm.Close(j.Eqs)
	ioctx.LoggerFromContext(ctx).DebugContext(ctx, "closed equations",
		"handles", int(c),
		"equations", j.Eqs.Len(),
		"closed", closed.Len())

	// Unbound names are reported before any clash.
	if closed.Contains(hm.NotClosed, hm.NotClosed) {
		return nil, &TypeError{
			Kind:     NotClosed,
			Msg:      fmt.Sprintf("unbound %s", strings.Join(FreeVars(e), ", ")),
			Equation: &hm.Equation{Left: hm.NotClosed, Right: hm.NotClosed},
			Closed:   closed,
		}
	}

	if eq, bad := hm.Inconsistent(closed); bad {
		left, right := hm.DisplayEquation(eq)
		return nil, &TypeError{
			Kind:     Inconsistent,
			Msg:      fmt.Sprintf("%s does not match %s", left, right),
			Equation: &eq,
			Closed:   closed,
		}
	}

	t, err := hm.Resolve(closed, j.Type)
	if err != nil {
		var inf hm.InfiniteTypeError
		if errors.As(err, &inf) {
			eq := hm.Equation{Left: inf.Var, Right: inf.Type}
			v, in := hm.DisplayEquation(eq)
			return nil, &TypeError{
				Kind:     Infinite,
				Msg:      fmt.Sprintf("%s would have to contain itself in %s", v, in),
				Equation: &eq,
				Closed:   closed,
			}
		}
		return nil, errors.Wrap(err, "resolve")
	}
	return t, nil
}
