package filter

import (
	"go/token"

	"github.com/slicelab/winnow/ast"
	"github.com/slicelab/winnow/dfval"
)

// Describe renders how the active constraint narrows el's value beyond what
// its static type already implies, or "" when there is nothing to add.
func (c *Chain) Describe(el ast.Expr) string {
	if c == nil || selfEvident(el) {
		return ""
	}
	return dfval.Presentation(c.constraint, c.res.StaticType(el))
}

// selfEvident reports whether el's own source text already says everything
// a narrowing could: literals, sign-prefixed numeric literals, and array
// creations.
func selfEvident(el ast.Expr) bool {
	switch el := el.(type) {
	case *ast.Literal:
		return true
	case *ast.NewArrayExpr:
		return true
	case *ast.UnaryExpr:
		if el.Operator != token.ADD && el.Operator != token.SUB {
			return false
		}
		lit, ok := el.Operand.(*ast.Literal)
		return ok && lit.Kind.Numeric()
	}
	return false
}
