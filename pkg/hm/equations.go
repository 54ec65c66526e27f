package hm

import (
	"sort"
	"strings"
)

// Equation asserts that two types must unify.
type Equation struct {
	Left  Type
	Right Type
}

func (e Equation) String() string {
	return e.Left.String() + " ~ " + e.Right.String()
}

// EquationSet is a set of equations, symmetric by construction: adding
// (a, b) also adds (b, a). Iteration order is sorted and therefore
// deterministic.
type EquationSet struct {
	eqs map[string]Equation
}

// NewEquationSet creates a set holding eqs and their reflections.
func NewEquationSet(eqs ...Equation) *EquationSet {
	s := &EquationSet{eqs: make(map[string]Equation)}
	for _, e := range eqs {
		s.Add(e.Left, e.Right)
	}
	return s
}

// Add inserts a ~ b and b ~ a, reporting whether either was new.
func (s *EquationSet) Add(a, b Type) bool {
	added := s.insert(Equation{Left: a, Right: b})
	if s.insert(Equation{Left: b, Right: a}) {
		added = true
	}
	return added
}

func (s *EquationSet) insert(e Equation) bool {
	key := e.String()
	if _, exists := s.eqs[key]; exists {
		return false
	}
	s.eqs[key] = e
	return true
}

// Contains reports whether a ~ b is in the set.
func (s *EquationSet) Contains(a, b Type) bool {
	_, exists := s.eqs[Equation{Left: a, Right: b}.String()]
	return exists
}

// Len returns the number of equations, counting both orientations.
func (s *EquationSet) Len() int {
	return len(s.eqs)
}

// Clone creates a copy of the set
func (s *EquationSet) Clone() *EquationSet {
	c := &EquationSet{eqs: make(map[string]Equation, len(s.eqs))}
	for k, e := range s.eqs {
		c.eqs[k] = e
	}
	return c
}

// With returns a new set holding s plus the given equations.
func (s *EquationSet) With(eqs ...Equation) *EquationSet {
	c := s.Clone()
	for _, e := range eqs {
		c.Add(e.Left, e.Right)
	}
	return c
}

// Union returns a new set holding every equation of s and others.
func (s *EquationSet) Union(others ...*EquationSet) *EquationSet {
	c := s.Clone()
	for _, o := range others {
		for k, e := range o.eqs {
			c.eqs[k] = e
		}
	}
	return c
}

// Equal reports whether both sets hold the same equations.
func (s *EquationSet) Equal(other *EquationSet) bool {
	if len(s.eqs) != len(other.eqs) {
		return false
	}
	for k := range s.eqs {
		if _, ok := other.eqs[k]; !ok {
			return false
		}
	}
	return true
}

// Equations returns the equations sorted by their printed form.
func (s *EquationSet) Equations() []Equation {
	keys := make([]string, 0, len(s.eqs))
	for k := range s.eqs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	eqs := make([]Equation, len(keys))
	for i, k := range keys {
		eqs[i] = s.eqs[k]
	}
	return eqs
}

// Partners returns every type t is asserted equal to, sorted by printed
// form.
func (s *EquationSet) Partners(t Type) []Type {
	var partners []Type
	for _, e := range s.eqs {
		if e.Left.Eq(t) {
			partners = append(partners, e.Right)
		}
	}
	sort.Slice(partners, func(i, j int) bool {
		return partners[i].String() < partners[j].String()
	})
	return partners
}

func (s *EquationSet) String() string {
	var lines []string
	for _, e := range s.Equations() {
		lines = append(lines, e.String())
	}
	return "{" + strings.Join(lines, ", ") + "}"
}
