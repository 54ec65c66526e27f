package feval

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vito/feval/pkg/hm"
	"github.com/vito/feval/pkg/syntax"
)

// EvalErrorKind classifies evaluation failures.
type EvalErrorKind int

const (
	// TypeMismatch is an operand of the wrong shape, e.g. 1 + true.
	TypeMismatch EvalErrorKind = iota
	// NotAFunction is the application of something that is not a function.
	NotAFunction
	// FreeVariable is a name that no function or let bound.
	FreeVariable
	// DepthExceeded is nesting deeper than the configured maximum.
	DepthExceeded
)

func (k EvalErrorKind) String() string {
	switch k {
	case TypeMismatch:
		return "type mismatch"
	case NotAFunction:
		return "not a function"
	case FreeVariable:
		return "free variable"
	case DepthExceeded:
		return "depth exceeded"
	}
	return fmt.Sprintf("EvalErrorKind(%d)", int(k))
}

// EvalError is the failure of an evaluation. It is terminal: no partial
// result exists.
type EvalError struct {
	Kind EvalErrorKind
	Msg  string
}

func evalErrorf(kind EvalErrorKind, format string, args ...any) *EvalError {
	return &EvalError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// TypeErrorKind classifies type checking failures.
type TypeErrorKind int

const (
	// Inconsistent means the closed equations relate two different type
	// constructors.
	Inconsistent TypeErrorKind = iota
	// NotClosed means the expression refers to a name nothing binds.
	NotClosed
	// Infinite means a type would have to contain itself.
	Infinite
)

func (k TypeErrorKind) String() string {
	switch k {
	case Inconsistent:
		return "type mismatch"
	case NotClosed:
		return "not closed"
	case Infinite:
		return "infinite type"
	}
	return fmt.Sprintf("TypeErrorKind(%d)", int(k))
}

// TypeError is the failure of a type check.
type TypeError struct {
	Kind TypeErrorKind
	Msg  string
	// Equation is the offending equation, when there is one.
	Equation *hm.Equation
	// Closed is the closed equation set the verdict was reached from.
	Closed *hm.EquationSet
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Explain lists the closed equations behind the error.
func (e *TypeError) Explain() string {
	if e.Closed == nil {
		return ""
	}
	var b strings.Builder
	for _, eq := range e.Closed.Equations() {
		fmt.Fprintf(&b, "  %s\n", eq)
	}
	return b.String()
}

// SourceLocation represents a location in source code
type SourceLocation struct {
	Filename string
	Line     int
	Column   int
}

// SourceError represents an error with source location information
type SourceError struct {
	Inner    error
	Location *SourceLocation
	Source   string // The source code of the file
}

// NewSourceError creates a new SourceError
func NewSourceError(inner error, location *SourceLocation, source string) *SourceError {
	return &SourceError{
		Inner:    inner,
		Location: location,
		Source:   source,
	}
}

// WithSource attaches the file name and source text to err. Syntax errors
// contribute their position.
func WithSource(err error, filename, source string) error {
	if err == nil {
		return nil
	}
	var sourceErr *SourceError
	if errors.As(err, &sourceErr) {
		return err
	}
	loc := &SourceLocation{Filename: filename}
	var synErr *syntax.Error
	if errors.As(err, &synErr) {
		loc.Line = synErr.Pos.Line
		loc.Column = synErr.Pos.Col
	}
	return NewSourceError(err, loc, source)
}

func (e *SourceError) Unwrap() error {
	return e.Inner
}

func (e *SourceError) Error() string {
	if e.Location == nil {
		return e.Inner.Error()
	}
	return e.FormatWithHighlighting()
}

// FormatWithHighlighting returns a nicely formatted error with syntax highlighting
func (e *SourceError) FormatWithHighlighting() string {
	// Colors for terminal output
	const (
		red   = "\033[31m"
		blue  = "\033[34m"
		bold  = "\033[1m"
		reset = "\033[0m"
		dim   = "\033[2m"
	)

	var result strings.Builder

	result.WriteString(fmt.Sprintf("%s%sError:%s %s\n", bold, red, reset, e.message()))

	lines := strings.Split(e.Source, "\n")
	if e.Location.Line < 1 || e.Location.Line > len(lines) {
		if e.Location.Filename != "" {
			result.WriteString(fmt.Sprintf("  %s%s--> %s%s\n", dim, blue, e.Location.Filename, reset))
		}
		return result.String()
	}

	result.WriteString(fmt.Sprintf("  %s%s--> %s:%d:%d%s\n", dim, blue, e.Location.Filename, e.Location.Line, e.Location.Column, reset))
	result.WriteString(fmt.Sprintf(" %s%s |%s\n", dim, padLeft("", 3), reset))

	startLine := max(1, e.Location.Line-2)
	for i := startLine; i <= e.Location.Line; i++ {
		paddedLineStr := padLeft(fmt.Sprintf("%d", i), 3)
		if i == e.Location.Line {
			result.WriteString(fmt.Sprintf(" %s%s%s%s | %s%s\n",
				dim, blue, bold, paddedLineStr, reset, lines[i-1]))
			// 1 space + 3 for line number + " | " + column - 1
			padding := strings.Repeat(" ", 1+3+3+max(0, e.Location.Column-1))
			result.WriteString(fmt.Sprintf("%s%s%s^%s\n", dim, padding, red, reset))
		} else {
			result.WriteString(fmt.Sprintf(" %s%s | %s%s\n",
				dim, paddedLineStr, lines[i-1], reset))
		}
	}

	return result.String()
}

// message is the inner error without the position prefix syntax errors carry,
// which the pointer line already shows.
func (e *SourceError) message() string {
	var synErr *syntax.Error
	if errors.As(e.Inner, &synErr) {
		return synErr.Msg
	}
	return e.Inner.Error()
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
