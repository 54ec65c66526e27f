package hm

// Hypotheses is the typing context of the checker: an association list from
// names to the types assumed for them. The zero value (nil) is empty. Push
// never modifies the receiver, so a context can be extended for one function
// body while the enclosing one stays intact.
type Hypotheses struct {
	name string
	t    Type
	next *Hypotheses
}

// Push returns the hypotheses extended with name : t, shadowing any earlier
// binding of name.
func (h *Hypotheses) Push(name string, t Type) *Hypotheses {
	return &Hypotheses{name: name, t: t, next: h}
}

// Lookup returns the innermost type assumed for name.
func (h *Hypotheses) Lookup(name string) (Type, bool) {
	for ; h != nil; h = h.next {
		if h.name == name {
			return h.t, true
		}
	}
	return nil, false
}

