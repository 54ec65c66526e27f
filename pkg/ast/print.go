package ast

import (
	"strconv"
	"strings"
)

// Binding strength of printed forms, loosest first. Binders (fn, let, if,
// case) extend as far right as possible, so they sit at precBinder and get
// parenthesized anywhere but the top.
const (
	precBinder = iota
	precOr
	precAnd
	precCompare
	precCons
	precAdd
	precMul
	precUnary
	precApp
	precAtom
)

// piece is the printed form of a subtree. When the subtree is a Cons chain
// ending in Nil, elems holds its elements so the parent can print a list
// literal.
type piece struct {
	text   string
	prec   int
	elems  []string
	isList bool
}

func (p piece) at(prec int) string {
	if p.prec < prec {
		return "(" + p.text + ")"
	}
	return p.text
}

func binary(left piece, op string, right piece, prec, lprec, rprec int) piece {
	return piece{text: left.at(lprec) + " " + op + " " + right.at(rprec), prec: prec}
}

func opPrec(op Op) int {
	switch op {
	case Or:
		return precOr
	case And:
		return precAnd
	case Equal, LessThan:
		return precCompare
	case Mul:
		return precMul
	default:
		return precAdd
	}
}

func listPiece(elems []string) piece {
	return piece{text: "[" + strings.Join(elems, ", ") + "]", prec: precAtom, elems: elems, isList: true}
}

// render prints one node whose children are already printed.
func render(n Surface[piece, piece]) piece {
	switch n := n.(type) {
	case Int[piece, piece]:
		if n.Value < 0 {
			return piece{text: strconv.FormatInt(n.Value, 10), prec: precUnary}
		}
		return piece{text: strconv.FormatInt(n.Value, 10), prec: precAtom}
	case Bool[piece, piece]:
		return piece{text: strconv.FormatBool(n.Value), prec: precAtom}
	case Var[piece, piece]:
		return piece{text: n.Name, prec: precAtom}
	case BinOp[piece, piece]:
		p := opPrec(n.Op)
		switch p {
		case precCompare:
			return binary(n.Left, n.Op.Symbol(), n.Right, p, p+1, p+1)
		default:
			return binary(n.Left, n.Op.Symbol(), n.Right, p, p, p+1)
		}
	case Not[piece, piece]:
		return piece{text: "!" + n.X.at(precUnary), prec: precUnary}
	case If[piece, piece]:
		return piece{
			text: "if " + n.Cond.text + " then " + n.Then.text + " else " + n.Else.text,
			prec: precBinder,
		}
	case Fn[piece, piece]:
		return piece{text: "fn " + n.Param + " -> " + n.Body.text, prec: precBinder}
	case App[piece, piece]:
		return piece{text: n.Fn.at(precApp) + " " + n.Arg.at(precAtom), prec: precApp}
	case Let[piece, piece]:
		return piece{
			text: "let " + n.Name + " = " + n.Bound.text + " in " + n.Body.text,
			prec: precBinder,
		}
	case Nil[piece, piece]:
		return listPiece(nil)
	case Cons[piece, piece]:
		if n.Tail.isList {
			return listPiece(append([]string{n.Head.text}, n.Tail.elems...))
		}
		return binary(n.Head, "::", n.Tail, precCons, precCons+1, precCons)
	case Case[piece, piece]:
		return piece{
			text: "case " + n.Scrutinee.text + " of [] -> " + n.IfNil.at(precOr) +
				" | " + n.Head + " :: " + n.Tail + " -> " + n.IfCons.text,
			prec: precBinder,
		}
	case LessEq[piece, piece]:
		return binary(n.Left, "<=", n.Right, precCompare, precCompare+1, precCompare+1)
	case Greater[piece, piece]:
		return binary(n.Left, ">", n.Right, precCompare, precCompare+1, precCompare+1)
	case GreaterEq[piece, piece]:
		return binary(n.Left, ">=", n.Right, precCompare, precCompare+1, precCompare+1)
	case NotEqual[piece, piece]:
		return binary(n.Left, "!=", n.Right, precCompare, precCompare+1, precCompare+1)
	case Neg[piece, piece]:
		return piece{text: "-" + n.X.at(precUnary), prec: precUnary}
	case List[piece, piece]:
		elems := make([]string, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = e.text
		}
		return listPiece(elems)
	}
	return piece{text: "<" + KindOf(n) + ">", prec: precAtom}
}

func (e *Expr) piece() piece {
	return render(Map(e.node, (*Expr).piece, (*Expr).piece))
}

func (s *Source) piece() piece {
	return render(MapSurface(s.node, (*Source).piece, (*Source).piece))
}

// String prints e in surface syntax. The output parses back to an equal tree.
func (e *Expr) String() string {
	return e.piece().text
}

// String prints s in surface syntax.
func (s *Source) String() string {
	return s.piece().text
}
