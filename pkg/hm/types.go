// Package hm holds the type language of Feval: types, the equations the
// checker derives between them, closure of equation sets and resolution of
// principal types.
package hm

import (
	"fmt"
	"strconv"
)

// Type represents all possible type constructors.
type Type interface {
	// Apply replaces the type variables in subs.
	Apply(Subs) Type
	// Types returns the component types of a constructed type.
	Types() Types
	Eq(Type) bool
	// String is canonical: two types are Eq iff their strings are equal.
	fmt.Stringer
}

// Types represents a slice of types
type Types []Type

// TypeConst is a nullary type constructor.
type TypeConst string

const (
	Int  TypeConst = "Int"
	Bool TypeConst = "Bool"
)

func (tc TypeConst) Apply(Subs) Type { return tc }
func (tc TypeConst) Types() Types    { return nil }
func (tc TypeConst) String() string  { return string(tc) }

func (tc TypeConst) Eq(other Type) bool {
	ot, ok := other.(TypeConst)
	return ok && ot == tc
}

// TypeVariable is a placeholder handle issued during inference.
type TypeVariable int

func (tv TypeVariable) Apply(subs Subs) Type {
	if t, exists := subs[tv]; exists {
		return t
	}
	return tv
}

func (tv TypeVariable) Types() Types {
	return nil
}

func (tv TypeVariable) Eq(other Type) bool {
	if ot, ok := other.(TypeVariable); ok {
		return tv == ot
	}
	return false
}

func (tv TypeVariable) String() string {
	return "t" + strconv.Itoa(int(tv))
}

// FunctionType represents a function type
type FunctionType struct {
	arg Type
	ret Type
}

func NewFnType(arg, ret Type) *FunctionType {
	return &FunctionType{arg: arg, ret: ret}
}

func (ft *FunctionType) Apply(subs Subs) Type {
	return &FunctionType{
		arg: ft.arg.Apply(subs),
		ret: ft.ret.Apply(subs),
	}
}

func (ft *FunctionType) Types() Types {
	return Types{ft.arg, ft.ret}
}

func (ft *FunctionType) Eq(other Type) bool {
	if ot, ok := other.(*FunctionType); ok {
		return ft.arg.Eq(ot.arg) && ft.ret.Eq(ot.ret)
	}
	return false
}

func (ft *FunctionType) String() string {
	if _, ok := ft.arg.(*FunctionType); ok {
		return fmt.Sprintf("(%s) -> %s", ft.arg, ft.ret)
	}
	return fmt.Sprintf("%s -> %s", ft.arg, ft.ret)
}

// ListType is the type of homogeneous lists.
type ListType struct {
	Elem Type
}

// ListOf returns the type of lists of elem.
func ListOf(elem Type) ListType {
	return ListType{Elem: elem}
}

func (lt ListType) Apply(subs Subs) Type {
	return ListType{Elem: lt.Elem.Apply(subs)}
}

func (lt ListType) Types() Types {
	return Types{lt.Elem}
}

func (lt ListType) Eq(other Type) bool {
	if ot, ok := other.(ListType); ok {
		return lt.Elem.Eq(ot.Elem)
	}
	return false
}

func (lt ListType) String() string {
	return "[" + lt.Elem.String() + "]"
}

type notClosed struct{}

// NotClosed is the type given to a reference to an unbound name. Any
// equation mentioning it is inconsistent.
var NotClosed Type = notClosed{}

func (notClosed) Apply(Subs) Type { return NotClosed }
func (notClosed) Types() Types    { return nil }
func (notClosed) String() string  { return "?" }

func (notClosed) Eq(other Type) bool {
	_, ok := other.(notClosed)
	return ok
}

// shape names the outermost constructor of a concrete type, or returns ""
// for variables, which may equal anything.
func shape(t Type) string {
	switch t := t.(type) {
	case TypeConst:
		return string(t)
	case *FunctionType:
		return "->"
	case ListType:
		return "[]"
	case notClosed:
		return "?"
	}
	return ""
}
