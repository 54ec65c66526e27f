package hm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eq(a, b Type) Equation {
	return Equation{Left: a, Right: b}
}

func TestEquationSetIsSymmetric(t *testing.T) {
	s := NewEquationSet(eq(TypeVariable(0), Int))
	require.True(t, s.Contains(TypeVariable(0), Int))
	require.True(t, s.Contains(Int, TypeVariable(0)))
	require.Equal(t, 2, s.Len())

	require.False(t, s.Add(Int, TypeVariable(0)))
	require.True(t, s.Add(TypeVariable(1), Bool))
	require.Equal(t, 4, s.Len())
}

func TestEquationSetValues(t *testing.T) {
	a := NewEquationSet(eq(TypeVariable(0), Int))
	b := a.With(eq(TypeVariable(1), Bool))
	require.Equal(t, 2, a.Len(), "With must not modify its receiver")
	require.Equal(t, 4, b.Len())

	u := a.Union(b, NewEquationSet(eq(Bool, Bool)))
	require.Equal(t, 5, u.Len())
	require.True(t, u.Equal(b.With(eq(Bool, Bool))))
}

func TestEquationsAreSorted(t *testing.T) {
	s := NewEquationSet(eq(TypeVariable(2), Int), eq(Bool, TypeVariable(1)))
	var printed []string
	for _, e := range s.Equations() {
		printed = append(printed, e.String())
	}
	require.Equal(t, []string{"Bool ~ t1", "Int ~ t2", "t1 ~ Bool", "t2 ~ Int"}, printed)
}

func TestClose(t *testing.T) {
	t0, t1, t2, t3 := TypeVariable(0), TypeVariable(1), TypeVariable(2), TypeVariable(3)
	s := NewEquationSet(
		eq(t0, t1),
		eq(t1, Int),
		eq(NewFnType(t2, t3), NewFnType(t0, Bool)),
	)
	closed := Close(s)

	t.Run("transitivity", func(t *testing.T) {
		assert.True(t, closed.Contains(t0, Int))
		assert.True(t, closed.Contains(t0, t0))
	})

	t.Run("decomposition", func(t *testing.T) {
		assert.True(t, closed.Contains(t2, t0))
		assert.True(t, closed.Contains(t3, Bool))
		assert.True(t, closed.Contains(t2, Int))
	})

	t.Run("keeps the original", func(t *testing.T) {
		for _, e := range s.Equations() {
			assert.True(t, closed.Contains(e.Left, e.Right), e.String())
		}
		assert.Equal(t, 6, s.Len())
	})

	t.Run("symmetric", func(t *testing.T) {
		for _, e := range closed.Equations() {
			assert.True(t, closed.Contains(e.Right, e.Left), e.String())
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		require.True(t, Close(closed).Equal(closed))
	})
}

func TestCloseLists(t *testing.T) {
	t0, t1 := TypeVariable(0), TypeVariable(1)
	closed := Close(NewEquationSet(eq(ListOf(t0), ListOf(t1)), eq(t1, Int)))
	require.True(t, closed.Contains(t0, Int))
}

func TestInconsistent(t *testing.T) {
	t0 := TypeVariable(0)
	tests := []struct {
		name  string
		eqs   []Equation
		clash bool
	}{
		{"int and bool", []Equation{eq(Int, Bool)}, true},
		{"int and arrow", []Equation{eq(Int, NewFnType(t0, t0))}, true},
		{"bool and arrow", []Equation{eq(NewFnType(Int, Int), Bool)}, true},
		{"list and int", []Equation{eq(ListOf(Int), Int)}, true},
		{"not closed", []Equation{eq(NotClosed, NotClosed)}, true},
		{"through a variable", []Equation{eq(t0, Int), eq(t0, Bool)}, true},
		{"variables", []Equation{eq(t0, Int), eq(t0, TypeVariable(1))}, false},
		{"arrows", []Equation{eq(NewFnType(t0, Int), NewFnType(Bool, TypeVariable(1)))}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, clash := Inconsistent(Close(NewEquationSet(tt.eqs...)))
			require.Equal(t, tt.clash, clash)
		})
	}
}

func TestResolve(t *testing.T) {
	t0, t1, t2, t3 := TypeVariable(0), TypeVariable(1), TypeVariable(2), TypeVariable(3)

	t.Run("through a chain", func(t *testing.T) {
		closed := Close(NewEquationSet(eq(t0, t1), eq(t1, Int)))
		r, err := Resolve(closed, t0)
		require.NoError(t, err)
		require.Equal(t, Int, r)
	})

	t.Run("prefers the lowest variable", func(t *testing.T) {
		closed := Close(NewEquationSet(eq(t3, t1), eq(t1, t2)))
		r, err := Resolve(closed, t3)
		require.NoError(t, err)
		require.Equal(t, t1, r)
	})

	t.Run("componentwise", func(t *testing.T) {
		closed := Close(NewEquationSet(eq(t0, NewFnType(t1, t2)), eq(t1, Int), eq(t2, ListOf(t3))))
		r, err := Resolve(closed, t0)
		require.NoError(t, err)
		require.Equal(t, "Int -> [t3]", r.String())
	})

	t.Run("unconstrained", func(t *testing.T) {
		r, err := Resolve(NewEquationSet(), NewFnType(t0, t0))
		require.NoError(t, err)
		require.Equal(t, "t0 -> t0", r.String())
	})

	t.Run("infinite", func(t *testing.T) {
		closed := Close(NewEquationSet(eq(t0, NewFnType(t0, t1))))
		_, err := Resolve(closed, t0)
		var inf InfiniteTypeError
		require.True(t, errors.As(err, &inf))
		require.Equal(t, t0, inf.Var)
	})
}

func TestDisplay(t *testing.T) {
	t4, t7 := TypeVariable(4), TypeVariable(7)
	require.Equal(t, "Int -> Int", Display(NewFnType(Int, Int)))
	require.Equal(t, "a -> b", Display(NewFnType(t7, t4)))
	require.Equal(t, "(a -> b) -> a -> b", Display(NewFnType(NewFnType(t7, t4), NewFnType(t7, t4))))
	require.Equal(t, "[a]", Display(ListOf(t4)))
	require.Equal(t, "[Int] -> Bool", Display(NewFnType(ListOf(Int), Bool)))
}

func TestDisplayEquation(t *testing.T) {
	t1, t0 := TypeVariable(1), TypeVariable(0)

	left, right := DisplayEquation(Equation{Left: NewFnType(NewFnType(t1, t1), t0), Right: Int})
	require.Equal(t, "(a -> a) -> b", left)
	require.Equal(t, "Int", right)

	left, right = DisplayEquation(Equation{Left: t0, Right: ListOf(t0)})
	require.Equal(t, "a", left)
	require.Equal(t, "[a]", right)
}

func TestNormalize(t *testing.T) {
	n := Normalize(NewFnType(TypeVariable(9), NewFnType(TypeVariable(3), TypeVariable(9))))
	require.Equal(t, "t0 -> t1 -> t0", n.String())
}

func TestHypotheses(t *testing.T) {
	var h *Hypotheses
	_, ok := h.Lookup("x")
	require.False(t, ok)

	outer := h.Push("x", Int)
	inner := outer.Push("x", Bool)

	got, ok := inner.Lookup("x")
	require.True(t, ok)
	require.Equal(t, Bool, got)

	got, ok = outer.Lookup("x")
	require.True(t, ok)
	require.Equal(t, Int, got)
}
