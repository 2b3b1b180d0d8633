package ast

import (
	"encoding/binary"
	"go/token"
	"hash/fnv"
	"slices"
)

// LitKind classifies literal tokens.
type LitKind uint8

const (
	IntLit LitKind = iota
	LongLit
	FloatLit
	DoubleLit
	CharLit
	BoolLit
	StringLit
	NullLit
)

func (k LitKind) String() string {
	switch k {
	case IntLit:
		return "int"
	case LongLit:
		return "long"
	case FloatLit:
		return "float"
	case DoubleLit:
		return "double"
	case CharLit:
		return "char"
	case BoolLit:
		return "bool"
	case StringLit:
		return "string"
	case NullLit:
		return "null"
	}
	return "unknown"
}

// Numeric reports whether the literal kind denotes a number.
func (k LitKind) Numeric() bool {
	return k <= DoubleLit
}

// Literal represents a literal value. Text is the exact source spelling and
// Val the decoded value: int64 for the integral kinds (including char),
// float64, bool, the unquoted string, or nil for the null literal.
type Literal struct {
	Range
	Kind LitKind
	Text string
	Val  any
}

func (e *Literal) exprNode() {}

// Hash returns a hash value for the Literal, based on its structural characteristics
func (e *Literal) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("Literal")
	_, _ = h.Write([]byte(e.Text))
	_, _ = h.Write([]byte(e.Kind.String()))
	arr = binary.LittleEndian.AppendUint64(arr, e.Range.Hash())

	_, _ = h.Write(arr)
	return h.Sum64()
}

// Identifier represents a variable name.
type Identifier struct {
	Range
	Name string
}

func (e *Identifier) exprNode() {}

// Hash returns a hash value for the Identifier, based on its structural characteristics
func (e *Identifier) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("Identifier")
	_, _ = h.Write([]byte(e.Name))
	arr = binary.LittleEndian.AppendUint64(arr, e.Range.Hash())

	_, _ = h.Write(arr)
	return h.Sum64()
}

// UnaryExpr represents a unary operation (-a, !b, ~c).
type UnaryExpr struct {
	Range
	Operator token.Token // SUB, ADD, NOT, XOR (complement)
	Operand  Expr
}

func (e *UnaryExpr) exprNode() {}

// Hash returns a hash value for the UnaryExpr, based on its structural characteristics
func (e *UnaryExpr) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("UnaryExpr")
	_, _ = h.Write([]byte(e.Operator.String()))
	arr = binary.LittleEndian.AppendUint64(arr, e.Range.Hash())

	if e.Operand != nil {
		arr = binary.LittleEndian.AppendUint64(arr, e.Operand.Hash())
	}

	_, _ = h.Write(arr)
	return h.Sum64()
}

// BinaryExpr represents a binary operation (a + b, a < b, etc.).
type BinaryExpr struct {
	Range
	Left     Expr
	Operator token.Token
	Right    Expr
}

func (e *BinaryExpr) exprNode() {}

// Hash returns a hash value for the BinaryExpr, based on its structural characteristics
func (e *BinaryExpr) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("BinaryExpr")
	_, _ = h.Write([]byte(e.Operator.String()))
	arr = binary.LittleEndian.AppendUint64(arr, e.Range.Hash())

	if e.Left != nil {
		arr = binary.LittleEndian.AppendUint64(arr, e.Left.Hash())
	}

	if e.Right != nil {
		arr = binary.LittleEndian.AppendUint64(arr, e.Right.Hash())
	}

	_, _ = h.Write(arr)
	return h.Sum64()
}

// CallExpr represents a method call (a.f(x, y) parses as a call whose
// Function is a SelectExpr).
type CallExpr struct {
	Range
	Function Expr
	Args     []Expr
}

func (e *CallExpr) exprNode() {}

// Hash returns a hash value for the CallExpr, based on its structural characteristics
func (e *CallExpr) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("CallExpr")
	arr = binary.LittleEndian.AppendUint64(arr, e.Range.Hash())

	if e.Function != nil {
		arr = binary.LittleEndian.AppendUint64(arr, e.Function.Hash())
	}

	for _, arg := range e.Args {
		if arg != nil {
			arr = binary.LittleEndian.AppendUint64(arr, arg.Hash())
		}
	}

	_, _ = h.Write(arr)
	return h.Sum64()
}

// SelectExpr represents a field selection (a.b).
type SelectExpr struct {
	Range
	X   Expr
	Sel string
}

func (e *SelectExpr) exprNode() {}

// Hash returns a hash value for the SelectExpr, based on its structural characteristics
func (e *SelectExpr) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("SelectExpr")
	_, _ = h.Write([]byte(e.Sel))
	arr = binary.LittleEndian.AppendUint64(arr, e.Range.Hash())

	if e.X != nil {
		arr = binary.LittleEndian.AppendUint64(arr, e.X.Hash())
	}

	_, _ = h.Write(arr)
	return h.Sum64()
}

// NewExpr represents an object creation (new Foo(x)).
type NewExpr struct {
	Range
	Class *NamedType
	Args  []Expr
}

func (e *NewExpr) exprNode() {}

// Hash returns a hash value for the NewExpr, based on its structural characteristics
func (e *NewExpr) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("NewExpr")
	if e.Class != nil {
		_, _ = h.Write([]byte(e.Class.Name))
	}
	arr = binary.LittleEndian.AppendUint64(arr, e.Range.Hash())

	for _, arg := range e.Args {
		if arg != nil {
			arr = binary.LittleEndian.AppendUint64(arr, arg.Hash())
		}
	}

	_, _ = h.Write(arr)
	return h.Sum64()
}

// NewArrayExpr represents an array creation, either sized (new int[3]) or
// with an initializer (new int[] {1, 2}). Length is nil in the latter form.
type NewArrayExpr struct {
	Range
	Elem   Type
	Length Expr
	Elems  []Expr
}

func (e *NewArrayExpr) exprNode() {}

// Hash returns a hash value for the NewArrayExpr, based on its structural characteristics
func (e *NewArrayExpr) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("NewArrayExpr")
	if e.Elem != nil {
		_, _ = h.Write([]byte(e.Elem.String()))
	}
	arr = binary.LittleEndian.AppendUint64(arr, e.Range.Hash())

	if e.Length != nil {
		arr = binary.LittleEndian.AppendUint64(arr, e.Length.Hash())
	}

	for _, elem := range e.Elems {
		if elem != nil {
			arr = binary.LittleEndian.AppendUint64(arr, elem.Hash())
		}
	}

	_, _ = h.Write(arr)
	return h.Sum64()
}

// Children returns the direct subexpressions of e, in source order.
func Children(e Expr) []Expr {
	switch e := e.(type) {
	case *UnaryExpr:
		return []Expr{e.Operand}
	case *BinaryExpr:
		return []Expr{e.Left, e.Right}
	case *CallExpr:
		return append([]Expr{e.Function}, e.Args...)
	case *SelectExpr:
		return []Expr{e.X}
	case *NewExpr:
		return slices.Clone(e.Args)
	case *NewArrayExpr:
		children := make([]Expr, 0, len(e.Elems)+1)
		if e.Length != nil {
			children = append(children, e.Length)
		}
		return append(children, e.Elems...)
	}
	return nil
}

var (
	_ Expr = (*Literal)(nil)
	_ Expr = (*Identifier)(nil)
	_ Expr = (*UnaryExpr)(nil)
	_ Expr = (*BinaryExpr)(nil)
	_ Expr = (*CallExpr)(nil)
	_ Expr = (*SelectExpr)(nil)
	_ Expr = (*NewExpr)(nil)
	_ Expr = (*NewArrayExpr)(nil)
)
