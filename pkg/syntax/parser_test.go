package syntax_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vito/feval/pkg/ast"
	"github.com/vito/feval/pkg/syntax"
)

func parse(t *testing.T, src string) *ast.Source {
	t.Helper()
	tree, err := syntax.Parse("test.fv", src)
	require.NoError(t, err)
	return tree
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"arithmetic precedence", "1 + 2 * 3", "1 + 2 * 3"},
		{"parens", "(1 + 2) * 3", "(1 + 2) * 3"},
		{"subtraction is left associative", "10 - 2 - 3", "10 - 2 - 3"},
		{"logic", "true && false || !true", "true && false || !true"},
		{"comparison binds looser than arithmetic", "x + 1 <= y * 2", "x + 1 <= y * 2"},
		{"sugar comparisons", "a > b && c >= d && e != f", "a > b && c >= d && e != f"},
		{"application", "f x y", "f x y"},
		{"application binds tightest", "f x + g y", "f x + g y"},
		{"negative literal", "f (-3)", "f (-3)"},
		{"negation", "-(x * 2)", "-(x * 2)"},
		{"fn", "fn x -> x + 5", "fn x -> x + 5"},
		{"backslash", `\x -> x`, "fn x -> x"},
		{"curried fn", "fn x y -> x", "fn x -> fn y -> x"},
		{"let", "let x = 1 in x + 1", "let x = 1 in x + 1"},
		{"let with params", "let f x y = x - y in f 10 3", "let f = fn x -> fn y -> x - y in f 10 3"},
		{"if", "if x < 1 then 0 else x", "if x < 1 then 0 else x"},
		{"empty list", "[]", "[]"},
		{"list", "[1, 2 + 3, x]", "[1, 2 + 3, x]"},
		{"cons is right associative", "1 :: 2 :: xs", "1 :: 2 :: xs"},
		{"cons onto a literal", "0 :: [1, 2]", "[0, 1, 2]"},
		{"case", "case xs of [] -> 0 | h :: t -> h + 1", "case xs of [] -> 0 | h :: t -> h + 1"},
		{"capitalized booleans", "True || False", "true || false"},
		{"primes in names", "fn x' -> x'", "fn x' -> x'"},
		{"comments", "1 + # one\n  2 # two", "1 + 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, parse(t, tt.input).String())
		})
	}
}

func TestParseKinds(t *testing.T) {
	tests := []struct {
		input string
		kind  string
	}{
		{"42", "Int"},
		{"-42", "Int"},
		{"-x", "Neg"},
		{"false", "Bool"},
		{"x <= y", "LessEq"},
		{"x > y", "Greater"},
		{"x >= y", "GreaterEq"},
		{"x != y", "NotEqual"},
		{"x < y", "BinOp"},
		{"[1]", "List"},
		{"1 :: []", "Cons"},
		{"let x = 1 in x", "Let"},
		{"case [] of [] -> 1 | h :: t -> 2", "Case"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.kind, parse(t, tt.input).Kind())
		})
	}
}

func TestRoundTrip(t *testing.T) {
	sources := []string{
		"(fn x -> x + 5) 10",
		"let f x = if x < 1 then 0 else x + f (x - 1) in f 10",
		"fn f -> fn x -> f (f x)",
		"2 - -3",
		"-(-3)",
		"!(1 == 2) && (1 < 2) == true",
		"(if true then fn x -> x else fn y -> y) 3",
		"case xs of [] -> (case ys of [] -> 0 | a :: b -> a) | h :: t -> h",
		"let pick keep xs = case xs of [] -> [] | h :: t -> if keep then h :: pick false t else pick true t in pick true [1, 2, 3]",
	}
	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			printed := parse(t, src).String()
			assert.Equal(t, printed, parse(t, printed).String())
		})
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		line, col  int
		msg        string
		incomplete bool
	}{
		{"dangling operator", "1 +", 1, 4, "unexpected end of input", true},
		{"unfinished let", "let x =", 1, 8, "unexpected end of input", true},
		{"unclosed paren", "(1 + 2", 1, 7, "expected ), found end of input", true},
		{"missing else", "if x then y", 1, 12, "expected else, found end of input", true},
		{"trailing token", "1 2 )", 1, 5, "unexpected ')' after expression", false},
		{"bad character", "1 $ 2", 1, 3, "unexpected character '$'", false},
		{"second line", "1 +\n  * 2", 2, 3, "unexpected '*'", false},
		{"missing parameter", "fn -> 1", 1, 4, "expected parameter name, found '->'", false},
		{"chained comparison", "1 < 2 < 3", 1, 7, "unexpected '<' after expression", false},
		{"out of range", "99999999999999999999", 1, 1, "integer literal 99999999999999999999 out of range", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := syntax.Parse("test.fv", tt.input)
			require.Error(t, err)

			var synErr *syntax.Error
			require.ErrorAs(t, err, &synErr)
			assert.Equal(t, tt.line, synErr.Pos.Line)
			assert.Equal(t, tt.col, synErr.Pos.Col)
			assert.Equal(t, tt.msg, synErr.Msg)
			assert.Equal(t, tt.incomplete, syntax.IsIncomplete(err))
		})
	}
}

func TestIsIncompleteUnwraps(t *testing.T) {
	_, err := syntax.Parse("test.fv", "let x =")
	require.Error(t, err)
	assert.True(t, syntax.IsIncomplete(fmt.Errorf("loading: %w", err)))
	assert.False(t, syntax.IsIncomplete(errors.New("let x =")))
	assert.False(t, syntax.IsIncomplete(nil))
}

func TestErrorString(t *testing.T) {
	_, err := syntax.Parse("test.fv", "1 +")
	require.EqualError(t, err, "test.fv:1:4: unexpected end of input")

	_, err = syntax.Parse("", "1 +")
	require.EqualError(t, err, "1:4: unexpected end of input")
}
