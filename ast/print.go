package ast

import (
	"go/token"
	"strings"
)

// ExprString renders an expression as source-like text, used by diagnostics
// and by constant presentation.
func ExprString(expr Expr) string {
	var sb strings.Builder
	writeExpr(&sb, expr)
	return sb.String()
}

func writeExpr(sb *strings.Builder, expr Expr) {
	if expr == nil {
		sb.WriteString("nil")
		return
	}
	switch expr := expr.(type) {
	case *Literal:
		sb.WriteString(expr.Text)
	case *Identifier:
		sb.WriteString(expr.Name)
	case *UnaryExpr:
		sb.WriteString(unaryOpString(expr.Operator))
		writeOperand(sb, expr.Operand)
	case *BinaryExpr:
		writeOperand(sb, expr.Left)
		sb.WriteString(" " + expr.Operator.String() + " ")
		writeOperand(sb, expr.Right)
	case *CallExpr:
		writeExpr(sb, expr.Function)
		sb.WriteString("(")
		for i, arg := range expr.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeExpr(sb, arg)
		}
		sb.WriteString(")")
	case *SelectExpr:
		writeOperand(sb, expr.X)
		sb.WriteString("." + expr.Sel)
	case *NewExpr:
		sb.WriteString("new " + expr.Class.Name + "(")
		for i, arg := range expr.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeExpr(sb, arg)
		}
		sb.WriteString(")")
	case *NewArrayExpr:
		sb.WriteString("new " + expr.Elem.String())
		if expr.Length != nil {
			sb.WriteString("[")
			writeExpr(sb, expr.Length)
			sb.WriteString("]")
			return
		}
		sb.WriteString("[] {")
		for i, elem := range expr.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeExpr(sb, elem)
		}
		sb.WriteString("}")
	default:
		sb.WriteString("<expr>")
	}
}

// writeOperand parenthesizes nested binary expressions so the rendering is
// unambiguous without tracking precedence.
func writeOperand(sb *strings.Builder, expr Expr) {
	if _, isBinary := expr.(*BinaryExpr); isBinary {
		sb.WriteString("(")
		writeExpr(sb, expr)
		sb.WriteString(")")
		return
	}
	writeExpr(sb, expr)
}

// unaryOpString spells an operator as it appears in unary position, where ^
// is the complement operator ~.
func unaryOpString(op token.Token) string {
	if op == token.XOR {
		return "~"
	}
	return op.String()
}
