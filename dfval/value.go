// Package dfval implements the abstract value domain used to narrow slices:
// a meet semilattice of facts about runtime values, with Top carrying no
// information and Bottom marking a contradiction.
package dfval

import (
	"fmt"

	"github.com/slicelab/winnow/ast"
)

// Value is a single abstract value. The set of implementations is closed:
// the extremes, Constant, NodeConstant, IntRange and Ref.
type Value interface {
	fmt.Stringer
	isValue() // Marker method to keep the variant set closed
}

// extreme is Top or Bottom depending on polarity.
type extreme struct {
	polarity bool // true means bottom
}

func (e extreme) isValue() {}

func (e extreme) String() string {
	if e.polarity {
		return "bottom"
	}
	return "top"
}

var (
	topValue    = extreme{polarity: false}
	bottomValue = extreme{polarity: true}
)

// Top returns the value carrying no information: every meet with it is the
// other side.
func Top() Value { return topValue }

// Bottom returns the contradictory value: no runtime value satisfies it.
func Bottom() Value { return bottomValue }

// IsTop reports whether v is the Top value.
func IsTop(v Value) bool { return v == topValue }

// IsBottom reports whether v is the Bottom value.
func IsBottom(v Value) bool { return v == bottomValue }

// Equal reports whether two values denote the same abstract value.
// Constants compare by payload, node constants by element identity.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case extreme:
		b, ok := b.(extreme)
		return ok && a == b
	case Constant:
		b, ok := b.(Constant)
		return ok && a.Val == b.Val
	case NodeConstant:
		b, ok := b.(NodeConstant)
		return ok && a.Node == b.Node
	case IntRange:
		b, ok := b.(IntRange)
		return ok && a == b
	case Ref:
		b, ok := b.(Ref)
		return ok && a.Null == b.Null && a.Local == b.Local && a.Mut == b.Mut &&
			a.Constraint.Equal(b.Constraint)
	}
	return false
}

// PrimitiveKind reports whether v describes a primitive value: an integral
// range, or a constant with a primitive scalar payload.
func PrimitiveKind(v Value) bool {
	switch v := v.(type) {
	case IntRange:
		return true
	case Constant:
		switch v.Val.(type) {
		case bool, int64, float64:
			return true
		}
	}
	return false
}

// ReferenceKind reports whether v is a reference-kind value.
func ReferenceKind(v Value) bool {
	_, ok := v.(Ref)
	return ok
}

// TypedObject returns the abstract value of an otherwise-unknown value of
// static type t: the full integral range for integral primitives, an
// instanceof fact plus the given nullability for references, and Top for
// everything else (including nil, for elements with no static type).
func TypedObject(t ast.Type, null Nullability) Value {
	switch t := t.(type) {
	case *ast.PrimitiveType:
		if full, ok := RangeForType(t); ok {
			return full
		}
		return topValue
	case *ast.NamedType:
		return Ref{Null: null, Constraint: InstanceOf(t)}
	case *ast.ArrayType:
		return Ref{Null: null, Constraint: Exactly(t)}
	}
	return topValue
}

var (
	_ Value = extreme{}
	_ Value = Constant{}
	_ Value = NodeConstant{}
	_ Value = IntRange{}
	_ Value = Ref{}
)
