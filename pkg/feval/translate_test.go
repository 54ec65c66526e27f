package feval_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vito/feval/pkg/ast"
	"github.com/vito/feval/pkg/feval"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"less or equal", "3 <= 4", "3 < 4 || 3 == 4"},
		{"greater", "x > y", "!(x < y || x == y)"},
		{"greater or equal", "x >= y", "!(x < y)"},
		{"not equal", "x != y", "!(x == y)"},
		{"negation", "-x", "0 - x"},
		{"negative literal", "-3", "-3"},
		{"list", "[1, 2]", "[1, 2]"},
		{"cons onto a list", "1 :: [2]", "[1, 2]"},
		{"let", "let x = 1 in x + 1", "(fn x -> x + 1) 1"},
		{"recursive let", "let f = fn x -> f x in f", "let f = fn x -> f x in f"},
		{"nested sugar", "fn x -> x <= -x", "fn x -> x < 0 - x || x == 0 - x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, load(t, tt.input).String())
		})
	}
}

func TestTranslateLessEq(t *testing.T) {
	x, y := ast.Variable("x"), ast.Variable("y")
	expected := ast.Binary(ast.Or,
		ast.Binary(ast.LessThan, x, y),
		ast.Binary(ast.Equal, x, y))

	e := load(t, "x <= y")
	require.Equal(t, expected.String(), e.String())

	or := e.Unwrap().(ast.BinOp[*ast.Expr, *ast.Expr])
	lt := or.Left.Unwrap().(ast.BinOp[*ast.Expr, *ast.Expr])
	eq := or.Right.Unwrap().(ast.BinOp[*ast.Expr, *ast.Expr])
	require.NotSame(t, lt.Left, eq.Left)
	require.NotSame(t, lt.Right, eq.Right)

	v, err := feval.Evaluate(load(t, "3 <= 4"))
	require.NoError(t, err)
	require.Equal(t, feval.BoolValue(true), v)
}

func TestFreeVars(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"1 + 2", nil},
		{"fn x -> x + y", []string{"y"}},
		{"z + (fn z -> z) 1", []string{"z"}},
		{"let f = fn x -> f b in f a", []string{"a", "b"}},
		{"case xs of [] -> h | h :: t -> h :: t", []string{"h", "xs"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := feval.FreeVars(load(t, tt.input))
			if tt.expected == nil {
				require.Empty(t, got)
				return
			}
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestSizeAndDepth(t *testing.T) {
	e := load(t, "1 + 2 * 3")
	require.Equal(t, 5, feval.Size(e))
	require.Equal(t, 3, feval.Depth(e))

	leaf := load(t, "x")
	require.Equal(t, 1, feval.Size(leaf))
	require.Equal(t, 1, feval.Depth(leaf))
}
