package feval_test

import (
	"context"
	"testing"

	"github.com/dagger/testctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vito/feval/pkg/feval"
	"github.com/vito/feval/pkg/hm"
)

type TypecheckSuite struct{}

func TestTypecheck(tT *testing.T) {
	newT(tT).RunTests(TypecheckSuite{})
}

func (TypecheckSuite) TestPrincipalTypes(ctx context.Context, t *testctx.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2", "Int"},
		{"1 < 2", "Bool"},
		{"3 <= 4", "Bool"},
		{"!(1 != 2)", "Bool"},
		{"fn x -> x + 5", "Int -> Int"},
		{"fn x -> -x", "Int -> Int"},
		{"fn x -> x", "a -> a"},
		{"fn x -> fn y -> x", "a -> b -> a"},
		{"fn f -> fn x -> f x", "(a -> b) -> a -> b"},
		{"[1, 2]", "[Int]"},
		{"[]", "[a]"},
		{"fn x -> x :: []", "a -> [a]"},
		{"case [true] of [] -> false | h :: t -> h", "Bool"},
		{"let f x = x + 1 in f", "Int -> Int"},
		{"if true then fn x -> x else fn y -> y + 1", "Int -> Int"},
		{"let sum xs = case xs of [] -> 0 | h :: t -> h + sum t in sum", "[Int] -> Int"},
		{mergesort, "[Int]"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(ctx context.Context, t *testctx.T) {
			typ, err := feval.TypecheckContext(ctx, load(t, tt.input))
			require.NoError(t, err)
			require.Equal(t, tt.expected, hm.Display(typ))
		})
	}
}

func (TypecheckSuite) TestTypeErrors(ctx context.Context, t *testctx.T) {
	tests := []struct {
		input string
		kind  feval.TypeErrorKind
	}{
		{"4 + true", feval.Inconsistent},
		{"1 :: 2", feval.Inconsistent},
		{"1 2", feval.Inconsistent},
		{"if 1 then 2 else 3", feval.Inconsistent},
		{"if true then 1 else false", feval.Inconsistent},
		{"(fn x -> x + 1) true", feval.Inconsistent},
		{"case 1 of [] -> 0 | h :: t -> h", feval.Inconsistent},
		{"fn x -> y", feval.NotClosed},
		{"fn x -> x x", feval.Infinite},
		{"let f x = f in f", feval.Infinite},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(ctx context.Context, t *testctx.T) {
			_, err := feval.TypecheckContext(ctx, load(t, tt.input))
			var typeErr *feval.TypeError
			require.ErrorAs(t, err, &typeErr)
			require.Equal(t, tt.kind, typeErr.Kind)
			require.NotNil(t, typeErr.Equation)
			require.NotEmpty(t, typeErr.Explain())
		})
	}
}

func (TypecheckSuite) TestMismatchNamesBothTypes(ctx context.Context, t *testctx.T) {
	_, err := feval.Typecheck(load(t, "4 + true"))
	var typeErr *feval.TypeError
	require.ErrorAs(t, err, &typeErr)

	eq := typeErr.Equation
	assert.ElementsMatch(t, []string{"Int", "Bool"}, []string{eq.Left.String(), eq.Right.String()})
	assert.Contains(t, typeErr.Explain(), "Bool ~ Int")
	assert.Contains(t, err.Error(), "type mismatch")
}

func (TypecheckSuite) TestNotClosedListsNames(ctx context.Context, t *testctx.T) {
	_, err := feval.Typecheck(load(t, "fn x -> y + z + y"))
	require.EqualError(t, err, "not closed: unbound y, z")
}

func (TypecheckSuite) TestInferIsDeterministic(ctx context.Context, t *testctx.T) {
	expr := load(t, mergesort)

	first, c1, err := feval.Infer(expr)
	require.NoError(t, err)
	second, c2, err := feval.Infer(expr)
	require.NoError(t, err)

	require.Equal(t, c1, c2)
	require.Equal(t, first.Type.String(), second.Type.String())
	require.True(t, first.Eqs.Equal(second.Eqs))
	require.Equal(t, hm.Close(first.Eqs).String(), hm.Close(second.Eqs).String())
}

func (TypecheckSuite) TestInferIssuesHandlesFromZero(ctx context.Context, t *testctx.T) {
	j, c, err := feval.Infer(load(t, "fn x -> x"))
	require.NoError(t, err)
	require.Equal(t, "t0 -> t0", j.Type.String())
	require.EqualValues(t, 1, c)
	require.Zero(t, j.Eqs.Len())
}

func (TypecheckSuite) TestUnboundNamesWinOverClashes(ctx context.Context, t *testctx.T) {
	for _, src := range []string{
		"if y then 1 (fn x -> x) else 2",
		"fn x -> y + true",
		"1 + true + z",
	} {
		t.Run(src, func(ctx context.Context, t *testctx.T) {
			_, err := feval.TypecheckContext(ctx, load(t, src))
			var typeErr *feval.TypeError
			require.ErrorAs(t, err, &typeErr)
			require.Equal(t, feval.NotClosed, typeErr.Kind)
			require.Contains(t, err.Error(), "unbound")
		})
	}
}

func (TypecheckSuite) TestMessagesUseDisplayNames(ctx context.Context, t *testctx.T) {
	_, err := feval.TypecheckContext(ctx, load(t, "1 (fn x -> x)"))
	require.EqualError(t, err, "type mismatch: (a -> a) -> b does not match Int")

	_, err = feval.TypecheckContext(ctx, load(t, "fn x -> x x"))
	var typeErr *feval.TypeError
	require.ErrorAs(t, err, &typeErr)
	require.Equal(t, feval.Infinite, typeErr.Kind)
	require.NotRegexp(t, `\bt[0-9]+\b`, err.Error())
}

func (TypecheckSuite) TestInferredEquationsAreSymmetric(ctx context.Context, t *testctx.T) {
	for _, src := range []string{mergesort, "fn f -> fn x -> f (f x)", "4 + true"} {
		t.Run(src, func(ctx context.Context, t *testctx.T) {
			j, _, err := feval.Infer(load(t, src))
			require.NoError(t, err)
			require.NotZero(t, j.Eqs.Len())
			for _, e := range j.Eqs.Equations() {
				assert.True(t, j.Eqs.Contains(e.Right, e.Left), "missing reflection of %s", e)
			}
		})
	}
}
