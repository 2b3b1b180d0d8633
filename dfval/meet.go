package dfval

import "github.com/slicelab/winnow/ast"

// Meet returns the greatest lower bound of two values: the facts satisfied
// by exactly the runtime values satisfying both a and b. It is commutative,
// idempotent, has Top as identity and Bottom as absorbing element.
func Meet(a, b Value) Value {
	if IsTop(a) {
		return b
	}
	if IsTop(b) {
		return a
	}
	if IsBottom(a) || IsBottom(b) {
		return bottomValue
	}
	// normalize the pair by kind so each combination is handled once
	if kindRank(a) > kindRank(b) {
		a, b = b, a
	}
	switch a := a.(type) {
	case Constant:
		return meetConstant(a, b)
	case NodeConstant:
		if b, ok := b.(NodeConstant); ok && a.Node == b.Node {
			return a
		}
		return bottomValue
	case IntRange:
		if b, ok := b.(IntRange); ok {
			return NewIntRange(max(a.Lo, b.Lo), min(a.Hi, b.Hi))
		}
		return bottomValue
	case Ref:
		if b, ok := b.(Ref); ok {
			return meetRef(a, b)
		}
		return bottomValue
	}
	return bottomValue
}

// meetConstant meets a constant with a value of equal or higher kind rank.
// Two cross-kind refinements exist: an integral constant against a range
// survives when it is a member, and a string constant against reference
// facts survives when a non-null String instance satisfies them.
func meetConstant(c Constant, b Value) Value {
	switch b := b.(type) {
	case Constant:
		if c.Val == b.Val {
			return c
		}
	case IntRange:
		if n, ok := c.Val.(int64); ok && b.Contains(n) {
			return c
		}
	case Ref:
		if _, isStr := c.Val.(string); isStr {
			if !IsBottom(meetRef(stringConstantRef, b)) {
				return c
			}
		}
	}
	return bottomValue
}

// stringConstantRef is the reference view of any string constant.
var stringConstantRef = Ref{Null: NotNull, Constraint: Exactly(ast.StringClass), Mut: Immutable}

// kindRank orders the value kinds so Meet can normalize argument order.
func kindRank(v Value) int {
	switch v.(type) {
	case Constant:
		return 1
	case NodeConstant:
		return 2
	case IntRange:
		return 3
	case Ref:
		return 4
	}
	return 0
}
