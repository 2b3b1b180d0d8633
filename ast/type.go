package ast

import (
	"fmt"

	"github.com/hashicorp/go-set/v3"
)

// Type is a static type: a primitive, a declared class, or an array type.
// Class types are interned, so within one Universe equal classes are also
// pointer-identical.
type Type interface {
	fmt.Stringer
	typeNode() // Marker method to distinguish static types
}

// PrimKind enumerates the primitive kinds.
type PrimKind uint8

const (
	Bool PrimKind = iota
	Byte
	Short
	Int
	Long
	Char
	Float
	Double
)

func (k PrimKind) String() string {
	switch k {
	case Bool:
		return "boolean"
	case Byte:
		return "byte"
	case Short:
		return "short"
	case Int:
		return "int"
	case Long:
		return "long"
	case Char:
		return "char"
	case Float:
		return "float"
	case Double:
		return "double"
	}
	return "unknown"
}

// Integral reports whether values of the kind live on the integer line.
// Char counts: it is an unsigned 16-bit code unit.
func (k PrimKind) Integral() bool {
	switch k {
	case Byte, Short, Int, Long, Char:
		return true
	}
	return false
}

// Numeric reports whether the kind takes part in arithmetic promotion.
func (k PrimKind) Numeric() bool {
	return k != Bool
}

// PrimitiveType is the static type of a primitive value. Use the package
// singletons (IntType, BoolType, ...) rather than constructing new values.
type PrimitiveType struct {
	Kind PrimKind
}

func (t *PrimitiveType) typeNode()      {}
func (t *PrimitiveType) String() string { return t.Kind.String() }

var (
	BoolType   = &PrimitiveType{Bool}
	ByteType   = &PrimitiveType{Byte}
	ShortType  = &PrimitiveType{Short}
	IntType    = &PrimitiveType{Int}
	LongType   = &PrimitiveType{Long}
	CharType   = &PrimitiveType{Char}
	FloatType  = &PrimitiveType{Float}
	DoubleType = &PrimitiveType{Double}
)

// Primitive returns the singleton type for kind k.
func Primitive(k PrimKind) *PrimitiveType {
	switch k {
	case Bool:
		return BoolType
	case Byte:
		return ByteType
	case Short:
		return ShortType
	case Int:
		return IntType
	case Long:
		return LongType
	case Char:
		return CharType
	case Float:
		return FloatType
	case Double:
		return DoubleType
	}
	panic(fmt.Sprintf("no primitive type for kind %d", k))
}

// PrimitiveByName returns the primitive type spelled name, if any.
func PrimitiveByName(name string) (*PrimitiveType, bool) {
	switch name {
	case "boolean":
		return BoolType, true
	case "byte":
		return ByteType, true
	case "short":
		return ShortType, true
	case "int":
		return IntType, true
	case "long":
		return LongType, true
	case "char":
		return CharType, true
	case "float":
		return FloatType, true
	case "double":
		return DoubleType, true
	}
	return nil, false
}

// NamedType is a declared class. parents holds the name of every ancestor,
// transitively, so assignability checks are a single set lookup.
type NamedType struct {
	Name      string
	Immutable bool
	parents   *set.Set[string]
}

func (t *NamedType) typeNode()      {}
func (t *NamedType) String() string { return t.Name }

// AssignableTo reports whether a value of type t can stand where a value of
// type bound is expected.
func (t *NamedType) AssignableTo(bound *NamedType) bool {
	if bound == nil {
		return false
	}
	if t == bound || t.Name == bound.Name {
		return true
	}
	return t.parents.Contains(bound.Name)
}

// ArrayType is the static type of an array value.
type ArrayType struct {
	Elem Type
}

func (t *ArrayType) typeNode()      {}
func (t *ArrayType) String() string { return t.Elem.String() + "[]" }

// TypesEqual reports whether two static types denote the same type. A nil
// type only equals another nil type.
func TypesEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch a := a.(type) {
	case *PrimitiveType:
		b, ok := b.(*PrimitiveType)
		return ok && a.Kind == b.Kind
	case *NamedType:
		b, ok := b.(*NamedType)
		return ok && a.Name == b.Name
	case *ArrayType:
		b, ok := b.(*ArrayType)
		return ok && TypesEqual(a.Elem, b.Elem)
	}
	return false
}

// AssignableTo reports whether a value of static type t is usable where the
// class bound is expected. Arrays are only assignable to Object.
func AssignableTo(t Type, bound *NamedType) bool {
	switch t := t.(type) {
	case *NamedType:
		return t.AssignableTo(bound)
	case *ArrayType:
		return bound != nil && bound.Name == ObjectClass.Name
	}
	return false
}

// IsReference reports whether t is a reference type (a class or an array).
func IsReference(t Type) bool {
	switch t.(type) {
	case *NamedType, *ArrayType:
		return true
	}
	return false
}

var (
	_ Type = (*PrimitiveType)(nil)
	_ Type = (*NamedType)(nil)
	_ Type = (*ArrayType)(nil)
)
