package ast_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vito/feval/pkg/ast"
)

func TestString(t *testing.T) {
	x := ast.Variable("x")
	tests := []struct {
		name     string
		expr     *ast.Expr
		expected string
	}{
		{"int", ast.IntLit(42), "42"},
		{"negative", ast.IntLit(-3), "-3"},
		{"bool", ast.BoolLit(true), "true"},
		{"precedence", ast.Binary(ast.Add, ast.IntLit(1), ast.Binary(ast.Mul, ast.IntLit(2), ast.IntLit(3))), "1 + 2 * 3"},
		{"parens", ast.Binary(ast.Mul, ast.Binary(ast.Add, ast.IntLit(1), ast.IntLit(2)), ast.IntLit(3)), "(1 + 2) * 3"},
		{"left assoc", ast.Binary(ast.Sub, ast.Binary(ast.Sub, ast.IntLit(1), ast.IntLit(2)), ast.IntLit(3)), "1 - 2 - 3"},
		{"right nested", ast.Binary(ast.Sub, ast.IntLit(1), ast.Binary(ast.Sub, ast.IntLit(2), ast.IntLit(3))), "1 - (2 - 3)"},
		{"not", ast.Invert(ast.Binary(ast.Equal, ast.IntLit(1), ast.IntLit(2))), "!(1 == 2)"},
		{"fn", ast.Lambda("x", ast.Binary(ast.Add, x, ast.IntLit(5))), "fn x -> x + 5"},
		{"app of fn", ast.Apply(ast.Lambda("x", ast.Binary(ast.Add, x, ast.IntLit(5))), ast.IntLit(10)), "(fn x -> x + 5) 10"},
		{"app negative", ast.Apply(ast.Variable("f"), ast.IntLit(-3)), "f (-3)"},
		{"curried app", ast.Apply(ast.Apply(ast.Variable("f"), x), ast.Variable("y")), "f x y"},
		{"let", ast.LetIn("x", ast.IntLit(1), x), "let x = 1 in x"},
		{"if", ast.Cond(ast.BoolLit(true), ast.IntLit(1), ast.IntLit(2)), "if true then 1 else 2"},
		{"nil", ast.Empty(), "[]"},
		{"list", ast.ListOf(ast.IntLit(1), ast.IntLit(2), ast.IntLit(3)), "[1, 2, 3]"},
		{"cons", ast.Prepend(x, ast.Variable("xs")), "x :: xs"},
		{"case", ast.Match(ast.Variable("xs"), ast.IntLit(0), "h", "t", ast.Variable("h")), "case xs of [] -> 0 | h :: t -> h"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.expr.String())
		})
	}
}

func TestSourceString(t *testing.T) {
	type src = *ast.Source
	three := ast.Wrap(ast.Int[src, src]{Value: 3})
	four := ast.Wrap(ast.Int[src, src]{Value: 4})

	require.Equal(t, "3 <= 4", ast.Wrap(ast.LessEq[src, src]{Left: three, Right: four}).String())
	require.Equal(t, "3 > 4", ast.Wrap(ast.Greater[src, src]{Left: three, Right: four}).String())
	require.Equal(t, "-3", ast.Wrap(ast.Neg[src, src]{X: three}).String())
	require.Equal(t, "[3, 4]", ast.Wrap(ast.List[src, src]{Elems: []src{three, four}}).String())
	require.Equal(t, "LessEq", ast.Wrap(ast.LessEq[src, src]{Left: three, Right: four}).Kind())
}

func TestSubst(t *testing.T) {
	x := ast.Variable("x")
	one := ast.IntLit(1)

	t.Run("replaces free occurrences", func(t *testing.T) {
		e := ast.Binary(ast.Add, x, ast.Binary(ast.Mul, x, ast.Variable("y")))
		require.Equal(t, "1 + 1 * y", ast.Subst(e, "x", one).String())
	})

	t.Run("fn parameter shadows", func(t *testing.T) {
		e := ast.Lambda("x", x)
		require.Equal(t, e, ast.Subst(e, "x", one))
	})

	t.Run("fn over another name", func(t *testing.T) {
		e := ast.Lambda("y", ast.Binary(ast.Add, x, ast.Variable("y")))
		require.Equal(t, "fn y -> 1 + y", ast.Subst(e, "x", one).String())
	})

	t.Run("let binds in bound and body", func(t *testing.T) {
		e := ast.LetIn("x", x, x)
		require.Equal(t, e, ast.Subst(e, "x", one))
	})

	t.Run("case binds head and tail in cons branch only", func(t *testing.T) {
		e := ast.Match(x, x, "x", "t", x)
		require.Equal(t, "case 1 of [] -> 1 | x :: t -> x", ast.Subst(e, "x", one).String())

		e = ast.Match(x, x, "h", "x", x)
		require.Equal(t, "case 1 of [] -> 1 | h :: x -> x", ast.Subst(e, "x", one).String())

		e = ast.Match(x, x, "h", "t", x)
		require.Equal(t, "case 1 of [] -> 1 | h :: t -> 1", ast.Subst(e, "x", one).String())
	})

	t.Run("grafts fresh copies", func(t *testing.T) {
		repl := ast.Lambda("z", ast.Variable("z"))
		e := ast.Subst(ast.Apply(x, x), "x", repl)
		app, ok := e.Unwrap().(ast.App[*ast.Expr, *ast.Expr])
		require.True(t, ok)
		require.NotSame(t, app.Fn, app.Arg)
		require.NotSame(t, repl, app.Fn)
		require.Equal(t, repl.String(), app.Fn.String())
	})
}

func TestClone(t *testing.T) {
	e := ast.Cond(ast.BoolLit(true), ast.ListOf(ast.IntLit(1)), ast.Empty())
	c := ast.Clone(e)
	require.NotSame(t, e, c)
	require.Equal(t, e.String(), c.String())
}

func TestMapVisitsHolesInFieldOrder(t *testing.T) {
	n := ast.Case[string, string]{Scrutinee: "s", IfNil: "n", Head: "h", Tail: "t", IfCons: "c"}
	require.Equal(t, []string{"s", "n", "c"}, ast.Children[string](n))

	var strict, lazy []string
	ast.Map[string, string, int, int](ast.If[string, string]{Cond: "c", Then: "a", Else: "b"},
		func(s string) int { strict = append(strict, s); return 0 },
		func(l string) int { lazy = append(lazy, l); return 0 })
	require.Equal(t, []string{"c"}, strict)
	require.Equal(t, []string{"a", "b"}, lazy)
}

func TestKind(t *testing.T) {
	require.Equal(t, "BinOp", ast.Binary(ast.Add, ast.IntLit(1), ast.IntLit(2)).Kind())
	require.Equal(t, "Case", ast.Match(ast.Empty(), ast.IntLit(0), "h", "t", ast.IntLit(1)).Kind())
	require.Equal(t, "Nil", ast.Empty().Kind())
}

func TestOp(t *testing.T) {
	require.Equal(t, "LessThan", ast.LessThan.String())
	require.Equal(t, "<", ast.LessThan.Symbol())
	require.True(t, ast.Mul.Arithmetic())
	require.True(t, ast.Equal.Comparison())
	require.True(t, ast.Or.Logical())
	require.False(t, ast.Add.Logical())
}
