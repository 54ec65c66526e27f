package hm

import (
	"fmt"
	"sort"
)

// Close returns the closure of s under two rules:
//
//	transitivity   a ~ b, b ~ c            ⇒  a ~ c
//	decomposition  (a -> b) ~ (c -> d)     ⇒  a ~ c, b ~ d
//	               [a] ~ [b]               ⇒  a ~ b
//
// Together with symmetry these make ~ an equivalence on every type that
// occurs in s, components included, so the closure is computed as the
// classes of a union-find and then spelled out pairwise. s is left unchanged.
func Close(s *EquationSet) *EquationSet {
	u := newUnionFind()
	for _, e := range s.eqs {
		u.union(u.add(e.Left), u.add(e.Right))
	}

	// Constructed types in one class have equal components. Joining each with
	// the first of its shape is enough, as classes are transitive.
	for changed := true; changed; {
		changed = false
		for _, class := range u.classes() {
			first := map[string]Type{}
			for _, key := range class {
				t := u.types[key]
				sh := shape(t)
				if sh != "->" && sh != "[]" {
					continue
				}
				f, seen := first[sh]
				if !seen {
					first[sh] = t
					continue
				}
				for _, d := range decompose(Equation{Left: f, Right: t}) {
					if u.union(d.Left.String(), d.Right.String()) {
						changed = true
					}
				}
			}
		}
	}

	closed := NewEquationSet()
	for _, class := range u.classes() {
		for _, a := range class {
			for _, b := range class {
				closed.insert(Equation{Left: u.types[a], Right: u.types[b]})
			}
		}
	}
	return closed
}

// unionFind partitions types, keyed by their canonical strings.
type unionFind struct {
	types  map[string]Type
	parent map[string]string
}

func newUnionFind() *unionFind {
	return &unionFind{types: map[string]Type{}, parent: map[string]string{}}
}

// add registers t and its components, returning the key of t.
func (u *unionFind) add(t Type) string {
	key := t.String()
	if _, ok := u.types[key]; ok {
		return key
	}
	u.types[key] = t
	u.parent[key] = key
	for _, c := range t.Types() {
		u.add(c)
	}
	return key
}

func (u *unionFind) find(key string) string {
	for u.parent[key] != key {
		u.parent[key] = u.parent[u.parent[key]]
		key = u.parent[key]
	}
	return key
}

// union joins the classes of a and b, reporting whether they were apart.
func (u *unionFind) union(a, b string) bool {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return false
	}
	if rb < ra {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	return true
}

// classes returns the members of every class, sorted within and between
// classes.
func (u *unionFind) classes() [][]string {
	byRoot := map[string][]string{}
	for key := range u.types {
		root := u.find(key)
		byRoot[root] = append(byRoot[root], key)
	}
	classes := make([][]string, 0, len(byRoot))
	for _, class := range byRoot {
		sort.Strings(class)
		classes = append(classes, class)
	}
	sort.Slice(classes, func(i, j int) bool {
		return classes[i][0] < classes[j][0]
	})
	return classes
}

func decompose(e Equation) []Equation {
	switch l := e.Left.(type) {
	case *FunctionType:
		if r, ok := e.Right.(*FunctionType); ok {
			return []Equation{
				{Left: l.arg, Right: r.arg},
				{Left: l.ret, Right: r.ret},
			}
		}
	case ListType:
		if r, ok := e.Right.(ListType); ok {
			return []Equation{{Left: l.Elem, Right: r.Elem}}
		}
	}
	return nil
}

// Inconsistent returns the first equation of s that can never hold: one
// relating two different constructors (Int ~ Bool, Int ~ a -> b,
// Bool ~ a -> b, lists against anything else) or one mentioning NotClosed.
func Inconsistent(s *EquationSet) (Equation, bool) {
	for _, e := range s.Equations() {
		if clashes(e) {
			return e, true
		}
	}
	return Equation{}, false
}

func clashes(e Equation) bool {
	l, r := shape(e.Left), shape(e.Right)
	if l == "?" || r == "?" {
		return true
	}
	return l != "" && r != "" && l != r
}

// InfiniteTypeError is returned when a type variable is equated with a type
// containing itself, e.g. for fn x -> x x.
type InfiniteTypeError struct {
	Var  TypeVariable
	Type Type
}

func (e InfiniteTypeError) Error() string {
	return fmt.Sprintf("infinite type: %s occurs in %s", e.Var, e.Type)
}

// Resolve computes the principal form of t under the closed, consistent
// equation set s. Constants pass through; arrows and lists resolve
// componentwise; a variable resolves to a constant it equals, else to a
// constructed type it equals (the least by printed form), else to the
// lowest-numbered variable of its class.
func Resolve(s *EquationSet, t Type) (Type, error) {
	r := &resolver{eqs: s, active: map[TypeVariable]bool{}}
	return r.resolve(t)
}

type resolver struct {
	eqs    *EquationSet
	active map[TypeVariable]bool
}

func (r *resolver) resolve(t Type) (Type, error) {
	switch t := t.(type) {
	case TypeVariable:
		rep := r.representative(t)
		if _, ok := rep.(TypeVariable); ok {
			return rep, nil
		}
		if r.active[t] {
			return nil, InfiniteTypeError{Var: t, Type: rep}
		}
		r.active[t] = true
		defer delete(r.active, t)
		return r.resolve(rep)
	case *FunctionType:
		arg, err := r.resolve(t.arg)
		if err != nil {
			return nil, err
		}
		ret, err := r.resolve(t.ret)
		if err != nil {
			return nil, err
		}
		return NewFnType(arg, ret), nil
	case ListType:
		elem, err := r.resolve(t.Elem)
		if err != nil {
			return nil, err
		}
		return ListOf(elem), nil
	default:
		return t, nil
	}
}

// representative picks what tv stands for. Partners come sorted, so every
// choice is deterministic.
func (r *resolver) representative(tv TypeVariable) Type {
	var constructed Type
	lowest := tv
	for _, p := range r.eqs.Partners(tv) {
		switch p := p.(type) {
		case TypeConst:
			return p
		case TypeVariable:
			if p < lowest {
				lowest = p
			}
		case *FunctionType, ListType:
			if constructed == nil {
				constructed = p
			}
		}
	}
	if constructed != nil {
		return constructed
	}
	return lowest
}
