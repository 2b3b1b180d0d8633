// Package filter implements the persistent scope chain that decides which
// elements stay in a slice as a traversal narrows the value it follows.
//
// A chain is a stack of immutable scopes, each holding one abstract value.
// Only the newest scope's constraint is active; the parent links exist so
// that Pop can restore the exact prior scope when the traversal backtracks.
// Narrowing never mutates a node, so sibling branches of the same traversal
// can narrow independently from a shared ancestor.
package filter

import (
	"github.com/slicelab/winnow/ast"
	"github.com/slicelab/winnow/dfval"
)

// Chain is one scope of the filter stack. A nil *Chain means no filtering
// at all: it admits everything, narrows to itself, and describes nothing.
type Chain struct {
	constraint dfval.Value
	parent     *Chain
	res        Resolver
}

// New seeds a chain with the abstract value of the user's selection. A Top
// seed carries no information and yields no filter at all.
func New(res Resolver, seed dfval.Value) *Chain {
	if dfval.IsTop(seed) {
		return nil
	}
	return &Chain{constraint: seed, res: res}
}

// Constraint returns the active constraint, Top for a nil chain.
func (c *Chain) Constraint() dfval.Value {
	if c == nil {
		return dfval.Top()
	}
	return c.constraint
}

// Admit reports whether el could carry a value compatible with the active
// constraint.
func (c *Chain) Admit(el ast.Expr) bool {
	if c == nil {
		return true
	}
	// Literals are compared against a plain constant by value, which skips
	// resolving for the common case. A node-identity constant never equals
	// a literal and falls through to the meet below.
	if k, ok := c.constraint.(dfval.Constant); ok {
		if lit, isLit := el.(*ast.Literal); isLit {
			return lit.Val == k.Val
		}
	}
	return !dfval.IsBottom(dfval.Meet(c.elementValue(el), c.constraint))
}

// Narrow folds el's value into the active constraint and returns the chain
// to use for the subtree rooted at el. The receiver and its parents are
// never modified.
//
// A Bottom meet keeps the prior constraint instead of propagating the
// contradiction: traversal continues down such a branch, and changing that
// would change which elements end up in a slice.
func (c *Chain) Narrow(el ast.Expr) *Chain {
	if c == nil {
		return nil
	}
	v := c.elementValue(el)
	if ref, ok := v.(dfval.Ref); ok {
		// locality and mutability describe el's own scope; folded into an
		// outer filter they would wrongly reject values seen elsewhere
		v = ref.DropLocality().DropMutability()
	}
	m := dfval.Meet(v, c.constraint)
	if dfval.IsTop(m) && c.parent == nil {
		return nil
	}
	if dfval.IsBottom(m) || dfval.Equal(m, c.constraint) {
		return c
	}
	return &Chain{constraint: m, parent: c.parent, res: c.res}
}

// Push opens a scope that starts unconstrained but remembers the current
// one, so Pop can restore it after an exploratory branch.
func (c *Chain) Push() *Chain {
	if c == nil {
		return nil
	}
	return &Chain{constraint: dfval.Top(), parent: c, res: c.res}
}

// Pop restores the scope saved by the matching Push. Popping a chain that
// was never pushed is a traversal bug, not an input condition, and panics.
func (c *Chain) Pop() *Chain {
	if c == nil {
		return nil
	}
	if c.parent == nil {
		panic("filter: Pop without a matching Push")
	}
	return c.parent
}

// String renders the active constraint for debugging.
func (c *Chain) String() string {
	if c == nil {
		return ""
	}
	return c.constraint.String()
}

// elementValue resolves el's abstract value, first reinterpreting el across
// the boxing boundary when its static type sits on the other side of it
// from the constraint.
func (c *Chain) elementValue(el ast.Expr) dfval.Value {
	static := c.res.StaticType(el)
	switch {
	case dfval.ReferenceKind(c.constraint):
		if prim, isPrim := static.(*ast.PrimitiveType); isPrim {
			// the boxed view of a primitive: never null, runtime class
			// exactly the wrapper
			return dfval.Ref{Null: dfval.NotNull, Constraint: dfval.Exactly(prim.Kind.Boxed())}
		}
	case dfval.PrimitiveKind(c.constraint):
		if prim, isWrapper := ast.Unboxed(static); isWrapper {
			return unboxedValue(c.res.ResolveValue(el), prim)
		}
	}
	return c.res.ResolveValue(el)
}

// unboxedValue reinterprets the value of a wrapper-typed element as the
// primitive it unboxes to. A definitely-null box yields Bottom, since no
// primitive value can come out of it.
func unboxedValue(v dfval.Value, prim *ast.PrimitiveType) dfval.Value {
	ref, ok := v.(dfval.Ref)
	if !ok {
		return v
	}
	if ref.Null == dfval.Null {
		return dfval.Bottom()
	}
	if full, integral := dfval.RangeForType(prim); integral {
		return full
	}
	return dfval.Top()
}
