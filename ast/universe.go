package ast

import (
	"fmt"

	"github.com/hashicorp/go-set/v3"
)

// Builtin classes. Every Universe starts from these, and boxing conversions
// resolve to them.
var (
	ObjectClass       = newClass("Object", false)
	CharSequenceClass = newClass("CharSequence", false, ObjectClass)
	StringClass       = newClass("String", true, CharSequenceClass)
	NumberClass       = newClass("Number", false, ObjectClass)
	BooleanClass      = newClass("Boolean", true, ObjectClass)
	ByteClass         = newClass("Byte", true, NumberClass)
	ShortClass        = newClass("Short", true, NumberClass)
	IntegerClass      = newClass("Integer", true, NumberClass)
	LongClass         = newClass("Long", true, NumberClass)
	CharacterClass    = newClass("Character", true, ObjectClass)
	FloatClass        = newClass("Float", true, NumberClass)
	DoubleClass       = newClass("Double", true, NumberClass)
)

var builtinClasses = []*NamedType{
	ObjectClass,
	CharSequenceClass,
	StringClass,
	NumberClass,
	BooleanClass,
	ByteClass,
	ShortClass,
	IntegerClass,
	LongClass,
	CharacterClass,
	FloatClass,
	DoubleClass,
}

// newClass interns a class with its ancestry closed over parents.
func newClass(name string, immutable bool, parents ...*NamedType) *NamedType {
	names := set.New[string](len(parents))
	for _, p := range parents {
		names.Insert(p.Name)
		for ancestor := range p.parents.Items() {
			names.Insert(ancestor)
		}
	}
	return &NamedType{Name: name, Immutable: immutable, parents: names}
}

// Universe is the set of classes known to one resolution session. The
// builtins are always present; facts files may declare more.
type Universe struct {
	classes map[string]*NamedType
}

// NewUniverse returns a Universe holding only the builtin classes.
func NewUniverse() *Universe {
	classes := make(map[string]*NamedType, len(builtinClasses))
	for _, c := range builtinClasses {
		classes[c.Name] = c
	}
	return &Universe{classes: classes}
}

// Class looks a class up by name.
func (u *Universe) Class(name string) (*NamedType, bool) {
	c, ok := u.classes[name]
	return c, ok
}

// Declare interns a new class. All parents must already be declared, and
// redeclaring an existing name is an error.
func (u *Universe) Declare(name string, immutable bool, parents ...string) (*NamedType, error) {
	if _, ok := u.classes[name]; ok {
		return nil, fmt.Errorf("class %s is already declared", name)
	}
	resolved := make([]*NamedType, 0, len(parents)+1)
	for _, parent := range parents {
		p, ok := u.classes[parent]
		if !ok {
			return nil, fmt.Errorf("class %s extends unknown class %s", name, parent)
		}
		resolved = append(resolved, p)
	}
	if len(resolved) == 0 {
		resolved = append(resolved, ObjectClass)
	}
	c := newClass(name, immutable, resolved...)
	u.classes[name] = c
	return c, nil
}

// Names returns the declared class names, unordered.
func (u *Universe) Names() []string {
	names := make([]string, 0, len(u.classes))
	for name := range u.classes {
		names = append(names, name)
	}
	return names
}

// Boxed returns the wrapper class for primitive kind k.
func (k PrimKind) Boxed() *NamedType {
	switch k {
	case Bool:
		return BooleanClass
	case Byte:
		return ByteClass
	case Short:
		return ShortClass
	case Int:
		return IntegerClass
	case Long:
		return LongClass
	case Char:
		return CharacterClass
	case Float:
		return FloatClass
	case Double:
		return DoubleClass
	}
	return ObjectClass
}

// Unboxed returns the primitive counterpart of a wrapper class. The second
// result is false when t is not a wrapper class.
func Unboxed(t Type) (*PrimitiveType, bool) {
	n, ok := t.(*NamedType)
	if !ok {
		return nil, false
	}
	switch n.Name {
	case "Boolean":
		return BoolType, true
	case "Byte":
		return ByteType, true
	case "Short":
		return ShortType, true
	case "Integer":
		return IntType, true
	case "Long":
		return LongType, true
	case "Character":
		return CharType, true
	case "Float":
		return FloatType, true
	case "Double":
		return DoubleType, true
	}
	return nil, false
}

// UnaryPromoted applies unary numeric promotion: byte, short and char widen
// to int, everything else is unchanged.
func UnaryPromoted(t Type) Type {
	if p, ok := t.(*PrimitiveType); ok {
		switch p.Kind {
		case Byte, Short, Char:
			return IntType
		}
	}
	return t
}

// BinaryPromoted applies binary numeric promotion to the operand types of an
// arithmetic operator. It returns nil when either side is not numeric.
func BinaryPromoted(a, b Type) Type {
	pa, okA := a.(*PrimitiveType)
	pb, okB := b.(*PrimitiveType)
	if !okA || !okB || !pa.Kind.Numeric() || !pb.Kind.Numeric() {
		return nil
	}
	switch {
	case pa.Kind == Double || pb.Kind == Double:
		return DoubleType
	case pa.Kind == Float || pb.Kind == Float:
		return FloatType
	case pa.Kind == Long || pb.Kind == Long:
		return LongType
	}
	return IntType
}
