package dfval

import (
	"fmt"

	"github.com/slicelab/winnow/ast"
)

// Constant is a single known value. Val is one of int64, float64, bool or
// string; Text preserves the source spelling, when there is one, so the
// constant presents the way it was written.
type Constant struct {
	Val  any
	Text string
}

func (c Constant) isValue() {}

func (c Constant) String() string {
	if c.Text != "" {
		return c.Text
	}
	return fmt.Sprintf("%v", c.Val)
}

// NodeConstant is a constant identified by a program element rather than by
// a comparable payload, such as a reference to a known singleton. Two node
// constants only meet when they are the very same element; in particular a
// node constant never equals a literal, however it prints.
type NodeConstant struct {
	Node ast.Expr
}

func (c NodeConstant) isValue() {}

func (c NodeConstant) String() string {
	return ast.ExprString(c.Node)
}
