package hm

import "strconv"

// Subs represents a substitution mapping from type variables to types
type Subs map[TypeVariable]Type

// NewSubs creates a new substitution
func NewSubs() Subs {
	return make(Subs)
}

// Apply applies a substitution to a type
func (s Subs) Apply(t Type) Type {
	return t.Apply(s)
}

// Add adds a substitution mapping and returns the updated substitution
func (s Subs) Add(tv TypeVariable, t Type) Subs {
	s[tv] = t
	return s
}

// Vars lists the type variables of t in order of first occurrence.
func Vars(t Type) []TypeVariable {
	var vars []TypeVariable
	seen := map[TypeVariable]bool{}
	var walk func(Type)
	walk = func(t Type) {
		if tv, ok := t.(TypeVariable); ok {
			if !seen[tv] {
				seen[tv] = true
				vars = append(vars, tv)
			}
			return
		}
		for _, c := range t.Types() {
			walk(c)
		}
	}
	walk(t)
	return vars
}

// Normalize renumbers the type variables of t from zero in order of first
// occurrence, so equal principal types print identically regardless of the
// handles inference happened to issue.
func Normalize(t Type) Type {
	subs := NewSubs()
	for i, tv := range Vars(t) {
		subs.Add(tv, TypeVariable(i))
	}
	return subs.Apply(t)
}

const letters = `abcdefghijklmnopqrstuvwxyz`

// Display prints t for users: variables are normalized and named a, b, c...
func Display(t Type) string {
	return displayNames(Normalize(t)).String()
}

// DisplayEquation prints both sides of e for users. A variable occurring on
// both sides gets the same name on both.
func DisplayEquation(e Equation) (string, string) {
	sides := displayNames(Normalize(NewFnType(e.Left, e.Right))).Types()
	return sides[0].String(), sides[1].String()
}

// displayNames renames the variables of a normalized type to letters.
func displayNames(t Type) Type {
	subs := NewSubs()
	for _, tv := range Vars(t) {
		name := string(letters[int(tv)%len(letters)])
		if n := int(tv) / len(letters); n > 0 {
			name += strconv.Itoa(n)
		}
		subs.Add(tv, displayVar(name))
	}
	return subs.Apply(t)
}

// displayVar is a type variable renamed for display.
type displayVar string

func (dv displayVar) Apply(Subs) Type { return dv }
func (dv displayVar) Types() Types    { return nil }
func (dv displayVar) String() string  { return string(dv) }

func (dv displayVar) Eq(other Type) bool {
	ot, ok := other.(displayVar)
	return ok && ot == dv
}
