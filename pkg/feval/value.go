package feval

import (
	"strconv"
	"strings"

	"github.com/vito/feval/pkg/ast"
)

// Value represents a runtime value in the Feval language
type Value interface {
	// Expr converts the value back into an expression, which is how values
	// are substituted into function bodies.
	Expr() *ast.Expr
	String() string
}

// IntValue is an integer.
type IntValue int64

func (i IntValue) Expr() *ast.Expr { return ast.IntLit(int64(i)) }
func (i IntValue) String() string  { return strconv.FormatInt(int64(i), 10) }

// BoolValue is a boolean.
type BoolValue bool

func (b BoolValue) Expr() *ast.Expr { return ast.BoolLit(bool(b)) }
func (b BoolValue) String() string  { return strconv.FormatBool(bool(b)) }

// FnValue is a function. It captures no environment: free names in Body were
// already replaced by substitution when the function was produced.
type FnValue struct {
	Param string
	Body  *ast.Expr
}

func (f FnValue) Expr() *ast.Expr {
	return ast.Lambda(f.Param, f.Body)
}

func (f FnValue) String() string {
	return f.Expr().String()
}

// ListValue is a list of values.
type ListValue []Value

func (l ListValue) Expr() *ast.Expr {
	elems := make([]*ast.Expr, len(l))
	for i, v := range l {
		elems[i] = v.Expr()
	}
	return ast.ListOf(elems...)
}

func (l ListValue) String() string {
	elems := make([]string, len(l))
	for i, v := range l {
		elems[i] = v.String()
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

// describe names the kind of a value for error messages.
func describe(v Value) string {
	switch v.(type) {
	case IntValue:
		return "Int " + v.String()
	case BoolValue:
		return "Bool " + v.String()
	case FnValue:
		return "function"
	case ListValue:
		return "list"
	}
	return v.String()
}
